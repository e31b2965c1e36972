package strategy

import (
	"context"

	"cake_shop_backend/internal/domain/order/model"
	"cake_shop_backend/internal/domain/order/repository"
)

// CODStrategy 货到付款：订单直接落库，收款由配送员送达时核验
type CODStrategy struct {
	orders repository.OrderRepository
}

// NewCODStrategy 创建货到付款策略
func NewCODStrategy(orders repository.OrderRepository) *CODStrategy {
	return &CODStrategy{orders: orders}
}

func (s *CODStrategy) Checkout(ctx context.Context, order *model.Order) (*CheckoutResult, error) {
	order.PaymentMethod = model.MethodCOD
	order.Status = model.StatusPending
	order.PaymentStatus = model.PaymentPending

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: order}, nil
}
