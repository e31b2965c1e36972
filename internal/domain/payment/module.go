package payment

import (
	orderRepo "cake_shop_backend/internal/domain/order/repository"
	orderService "cake_shop_backend/internal/domain/order/service"
	"cake_shop_backend/internal/domain/payment/handler"
	"cake_shop_backend/internal/domain/payment/service"
	"cake_shop_backend/internal/domain/payment/strategy"
	staffRepo "cake_shop_backend/internal/domain/staff/repository"
	staffService "cake_shop_backend/internal/domain/staff/service"
	walletRepo "cake_shop_backend/internal/domain/wallet/repository"
	walletService "cake_shop_backend/internal/domain/wallet/service"
	"cake_shop_backend/internal/pkg/config"
	"cake_shop_backend/internal/pkg/gateway"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/internal/pkg/registry"
	"cake_shop_backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PaymentModule 支付模块
type PaymentModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// 依赖 order 和 wallet
	return 20
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	oRepo := orderRepo.NewOrderRepository(ctx.DB)

	sRepo := staffRepo.NewStaffRepository(ctx.DB)
	sService := staffService.NewStaffService(sRepo, ctx.Notifier)
	oService := orderService.NewOrderService(oRepo, sService, ctx.Notifier)

	wRepo := walletRepo.NewWalletRepository(ctx.DB)
	wService := walletService.NewWalletService(ctx.DB, wRepo)

	// 网关未配置时在线支付和充值不可用，货到付款与钱包支付不受影响
	var gw *gateway.Client
	if config.GlobalConfig.Razorpay.KeyID != "" {
		gw = gateway.NewClient()
	} else {
		logger.Log.Warn("razorpay key not configured, online payment disabled")
	}

	var gwClient strategy.GatewayClient
	if gw != nil {
		gwClient = gw
	}
	paymentService := service.NewPaymentService(ctx.DB, oService, oRepo, wService, gwClient, ctx.Notifier)

	paymentService.RegisterStrategy("COD", strategy.NewCODStrategy(oRepo))
	paymentService.RegisterStrategy("Wallet", strategy.NewWalletStrategy(ctx.DB, wService, oRepo))
	if gw != nil {
		paymentService.RegisterStrategy("Razorpay", strategy.NewRazorpayStrategy(gw, oRepo))
	}

	paymentHandler := handler.NewPaymentHandler(paymentService)
	setupRoutes(ctx.Router, paymentHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	// 顾客支付路由
	userGroup := r.Group("/payments")
	userGroup.Use(middleware.AuthMiddleware(), middleware.CustomerOnly())
	{
		userGroup.POST("/create-order", h.CreateOrder)
		userGroup.POST("/verify-order", h.VerifyOrder)
		userGroup.POST("/cod", h.CheckoutCOD)
		userGroup.POST("/wallet", h.CheckoutWallet)
		userGroup.POST("/refund-to-wallet/:orderId", h.RefundToWallet)
		userGroup.POST("/wallet/add", h.WalletTopup)
		userGroup.POST("/wallet/verify", h.WalletTopupVerify)
	}

	// 管理员收款确认
	adminGroup := r.Group("/payments")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		adminGroup.PUT("/cod/:orderId/confirm", h.ConfirmCOD)
	}
}
