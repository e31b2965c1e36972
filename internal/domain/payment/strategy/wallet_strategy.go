package strategy

import (
	"context"

	"cake_shop_backend/internal/domain/order/model"
	"cake_shop_backend/internal/domain/order/repository"
	walletService "cake_shop_backend/internal/domain/wallet/service"

	"gorm.io/gorm"
)

// WalletStrategy 钱包支付：扣款和订单写入绑在同一个数据库事务里
// 余额不足时整个事务回滚，不会产生半截订单
type WalletStrategy struct {
	db     *gorm.DB
	wallet walletService.WalletService
	orders repository.OrderRepository
}

// NewWalletStrategy 创建钱包支付策略
func NewWalletStrategy(db *gorm.DB, wallet walletService.WalletService, orders repository.OrderRepository) *WalletStrategy {
	return &WalletStrategy{db: db, wallet: wallet, orders: orders}
}

func (s *WalletStrategy) Checkout(ctx context.Context, order *model.Order) (*CheckoutResult, error) {
	order.PaymentMethod = model.MethodWallet
	order.Status = model.StatusPending

	var balance int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := s.wallet.DebitIn(tx, order.UserID, order.TotalAmount, "Payment for order using wallet")
		if err != nil {
			return err
		}
		balance = wallet.Balance

		order.PaymentStatus = model.PaymentCompleted
		return s.orders.CreateTx(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: order, WalletBalance: &balance}, nil
}
