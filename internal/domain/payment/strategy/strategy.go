package strategy

import (
	"context"

	"cake_shop_backend/internal/domain/order/model"
	"cake_shop_backend/internal/pkg/gateway"
)

// CheckoutResult 结算结果
// GatewayOrder 仅网关支付返回；WalletBalance 仅钱包支付返回
type CheckoutResult struct {
	Order         *model.Order
	GatewayOrder  *gateway.GatewayOrder
	WalletBalance *int64
}

// CheckoutStrategy 结算策略
// 入参是 PrepareOrder 构造的未落库订单，策略负责按支付方式完成落库
type CheckoutStrategy interface {
	Checkout(ctx context.Context, order *model.Order) (*CheckoutResult, error)
}
