package analytics

import (
	"cake_shop_backend/internal/domain/analytics/handler"
	"cake_shop_backend/internal/domain/analytics/repository"
	"cake_shop_backend/internal/domain/analytics/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AnalyticsModule 统计模块
type AnalyticsModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&AnalyticsModule{})
}

func (m *AnalyticsModule) Name() string {
	return "analytics"
}

func (m *AnalyticsModule) Priority() int {
	// 只读聚合，最后初始化
	return 30
}

func (m *AnalyticsModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewAnalyticsRepository(ctx.SQL)
	analyticsService := service.NewAnalyticsService(repo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	setupRoutes(ctx.Router, analyticsHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AnalyticsHandler) {
	group := r.Group("/admin/analytics")
	group.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		group.GET("/dashboard", h.Dashboard)
		group.GET("/sales", h.Sales)
		group.GET("/users", h.Users)
		group.GET("/products", h.Products)
	}
}
