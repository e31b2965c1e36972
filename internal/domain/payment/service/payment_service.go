package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	orderModel "cake_shop_backend/internal/domain/order/model"
	orderRepo "cake_shop_backend/internal/domain/order/repository"
	orderService "cake_shop_backend/internal/domain/order/service"
	"cake_shop_backend/internal/domain/payment/strategy"
	walletModel "cake_shop_backend/internal/domain/wallet/model"
	walletService "cake_shop_backend/internal/domain/wallet/service"
	"cake_shop_backend/internal/pkg/config"
	"cake_shop_backend/internal/pkg/gateway"
	"cake_shop_backend/internal/pkg/notify"
	"cake_shop_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService 支付服务接口
type PaymentService interface {
	// RegisterStrategy 注册结算策略，module 初始化时按配置决定注册哪些
	RegisterStrategy(method string, s strategy.CheckoutStrategy)

	// Checkout 下单结算：构造订单后交给对应支付方式的策略落库
	Checkout(ctx context.Context, userID, method string, input orderService.CreateOrderInput) (*strategy.CheckoutResult, error)

	// VerifyPayment 在线支付验签，通过后标记支付完成
	VerifyPayment(userID, razorpayOrderID, paymentID, signature string) (*orderModel.Order, error)

	// ConfirmCOD 管理员确认货到付款收款，订单进入 Processing
	ConfirmCOD(orderID string) (*orderModel.Order, error)

	// Refund 已取消订单退款进钱包
	Refund(userID, orderID string) (*orderModel.Order, *walletModel.Wallet, error)

	// WalletTopupCreate 发起钱包充值，创建网关订单
	WalletTopupCreate(ctx context.Context, userID string, amount int64) (*gateway.GatewayOrder, error)

	// WalletTopupVerify 充值验签，通过后入账
	WalletTopupVerify(userID, razorpayOrderID, paymentID, signature string, amount int64) (*walletModel.Wallet, error)
}

type paymentService struct {
	db         *gorm.DB
	strategies map[string]strategy.CheckoutStrategy
	orders     orderService.OrderService
	orderRepo  orderRepo.OrderRepository
	wallet     walletService.WalletService
	gw         strategy.GatewayClient // 未配置网关时为 nil
	notifier   notify.Notifier
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	db *gorm.DB,
	orders orderService.OrderService,
	repo orderRepo.OrderRepository,
	wallet walletService.WalletService,
	gw strategy.GatewayClient,
	notifier notify.Notifier,
) PaymentService {
	return &paymentService{
		db:         db,
		strategies: make(map[string]strategy.CheckoutStrategy),
		orders:     orders,
		orderRepo:  repo,
		wallet:     wallet,
		gw:         gw,
		notifier:   notifier,
	}
}

func (s *paymentService) RegisterStrategy(method string, st strategy.CheckoutStrategy) {
	s.strategies[method] = st
}

func (s *paymentService) Checkout(ctx context.Context, userID, method string, input orderService.CreateOrderInput) (*strategy.CheckoutResult, error) {
	st, ok := s.strategies[method]
	if !ok {
		return nil, ErrUnsupportedMethod
	}

	order, err := s.orders.PrepareOrder(userID, input)
	if err != nil {
		return nil, err
	}

	result, err := st.Checkout(ctx, order)
	if err != nil {
		return nil, err
	}

	if result.Order.AssignedToAdmin != nil {
		s.notifier.Notify(notify.StaffChannel(*result.Order.AssignedToAdmin), notify.Event{
			Type:    notify.EventNewOrder,
			Message: fmt.Sprintf("New order %s received", result.Order.OrderID),
			Data: map[string]interface{}{
				"orderId":       result.Order.OrderID,
				"totalAmount":   result.Order.TotalAmount,
				"paymentMethod": result.Order.PaymentMethod,
			},
			Timestamp: time.Now(),
		})
	}

	logger.Log.Info("order checked out",
		zap.String("order_id", result.Order.OrderID),
		zap.String("method", result.Order.PaymentMethod),
		zap.Int64("total_amount", result.Order.TotalAmount))

	return result, nil
}

// VerifyPayment 按网关单号反查订单，归属校验后验签
// 验签失败不改任何状态；不泄露他人订单的存在性
func (s *paymentService) VerifyPayment(userID, razorpayOrderID, paymentID, signature string) (*orderModel.Order, error) {
	order, err := s.orderRepo.GetByRazorpayOrderID(razorpayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	if !gateway.VerifySignature(razorpayOrderID, paymentID, signature, config.GlobalConfig.Razorpay.KeySecret) {
		logger.Log.Warn("payment signature mismatch",
			zap.String("order_id", order.OrderID),
			zap.String("razorpay_order_id", razorpayOrderID))
		return nil, ErrInvalidSignature
	}

	now := time.Now()
	order.RazorpayPaymentID = paymentID
	order.RazorpaySignature = signature
	order.PaymentStatus = orderModel.PaymentCompleted
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	if order.AssignedToAdmin != nil {
		s.notifier.Notify(notify.StaffChannel(*order.AssignedToAdmin), notify.Event{
			Type:    notify.EventPaymentCompleted,
			Message: fmt.Sprintf("Payment completed for order %s", order.OrderID),
			Data: map[string]interface{}{
				"orderId":       order.OrderID,
				"totalAmount":   order.TotalAmount,
				"paymentMethod": order.PaymentMethod,
			},
			Timestamp: now,
		})
	}
	return order, nil
}

// ConfirmCOD 管理员线下确认收款，支付完成且订单转入处理中
func (s *paymentService) ConfirmCOD(orderID string) (*orderModel.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.PaymentMethod != orderModel.MethodCOD {
		return nil, ErrNotCODOrder
	}
	if order.PaymentStatus == orderModel.PaymentCompleted {
		return nil, ErrPaymentDone
	}

	order.PaymentStatus = orderModel.PaymentCompleted
	order.Status = orderModel.StatusProcessing
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.UserChannel(order.UserID), notify.Event{
		Type:      notify.EventOrderStatusChange,
		Message:   fmt.Sprintf("Your order %s is now %s", order.OrderID, order.Status),
		Data:      map[string]interface{}{"orderId": order.OrderID, "status": order.Status},
		Timestamp: time.Now(),
	})
	return order, nil
}

// Refund 退款进钱包
// 仅已取消且未退过款的订单；入账和状态翻转在同一事务里
func (s *paymentService) Refund(userID, orderID string) (*orderModel.Order, *walletModel.Wallet, error) {
	order, err := s.orderRepo.GetForUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}
	if order.Status != orderModel.StatusCancelled {
		return nil, nil, ErrRefundNotAllowed
	}
	if order.PaymentStatus == orderModel.PaymentRefunded {
		return nil, nil, ErrAlreadyRefunded
	}

	var wallet *walletModel.Wallet
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = s.wallet.CreditIn(tx, userID, order.TotalAmount,
			fmt.Sprintf("Refund for cancelled order %s", order.OrderID))
		if err != nil {
			return err
		}
		order.PaymentStatus = orderModel.PaymentRefunded
		return s.orderRepo.UpdateTx(tx, order)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info("order refunded to wallet",
		zap.String("order_id", order.OrderID),
		zap.Int64("amount", order.TotalAmount))
	return order, wallet, nil
}

func (s *paymentService) WalletTopupCreate(ctx context.Context, userID string, amount int64) (*gateway.GatewayOrder, error) {
	if s.gw == nil {
		return nil, ErrGatewayDisabled
	}
	receipt := fmt.Sprintf("wallet_topup_%s_%d", userID, time.Now().Unix())
	return s.gw.CreateOrder(ctx, amount, receipt)
}

func (s *paymentService) WalletTopupVerify(userID, razorpayOrderID, paymentID, signature string, amount int64) (*walletModel.Wallet, error) {
	if !gateway.VerifySignature(razorpayOrderID, paymentID, signature, config.GlobalConfig.Razorpay.KeySecret) {
		return nil, ErrInvalidSignature
	}
	return s.wallet.Credit(userID, amount, "Money is added")
}
