package wallet

import (
	"cake_shop_backend/internal/domain/wallet/handler"
	"cake_shop_backend/internal/domain/wallet/repository"
	"cake_shop_backend/internal/domain/wallet/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// WalletModule 钱包模块
type WalletModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&WalletModule{})
}

func (m *WalletModule) Name() string {
	return "wallet"
}

func (m *WalletModule) Priority() int {
	// 在 user 之后、payment 之前
	return 3
}

func (m *WalletModule) Init(ctx *registry.ModuleContext) error {
	walletRepo := repository.NewWalletRepository(ctx.DB)
	walletService := service.NewWalletService(ctx.DB, walletRepo)
	walletHandler := handler.NewWalletHandler(walletService)

	setupRoutes(ctx.Router, walletHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.WalletHandler) {
	walletGroup := r.Group("/users/wallet")
	walletGroup.Use(middleware.AuthMiddleware(), middleware.CustomerOnly())
	{
		walletGroup.GET("", h.GetWallet)
		walletGroup.GET("/transactions", h.GetTransactions)
		walletGroup.POST("/add-money", h.AddMoney)
	}
}
