package strategy

import (
	"context"
	"fmt"
	"time"

	"cake_shop_backend/internal/domain/order/model"
	"cake_shop_backend/internal/domain/order/repository"
	"cake_shop_backend/internal/pkg/gateway"
)

// GatewayClient 网关客户端需要的最小能力
type GatewayClient interface {
	CreateOrder(ctx context.Context, amount int64, receipt string) (*gateway.GatewayOrder, error)
}

// RazorpayStrategy 在线支付：先在网关创建订单，再落库一笔待支付订单
// 支付完成与否由后续验签接口确认
type RazorpayStrategy struct {
	gw     GatewayClient
	orders repository.OrderRepository
}

// NewRazorpayStrategy 创建在线支付策略
func NewRazorpayStrategy(gw GatewayClient, orders repository.OrderRepository) *RazorpayStrategy {
	return &RazorpayStrategy{gw: gw, orders: orders}
}

func (s *RazorpayStrategy) Checkout(ctx context.Context, order *model.Order) (*CheckoutResult, error) {
	receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
	gwOrder, err := s.gw.CreateOrder(ctx, order.TotalAmount, receipt)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	order.PaymentMethod = model.MethodRazorpay
	order.Status = model.StatusPending
	order.PaymentStatus = model.PaymentPending
	order.RazorpayOrderID = gwOrder.ID

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: order, GatewayOrder: gwOrder}, nil
}
