package order

import (
	"cake_shop_backend/internal/domain/order/handler"
	"cake_shop_backend/internal/domain/order/repository"
	"cake_shop_backend/internal/domain/order/service"
	staffRepo "cake_shop_backend/internal/domain/staff/repository"
	staffService "cake_shop_backend/internal/domain/staff/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 依赖 staff 和 user
	return 10
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	orderRepo := repository.NewOrderRepository(ctx.DB)

	// 订单分配依赖员工服务
	sRepo := staffRepo.NewStaffRepository(ctx.DB)
	sService := staffService.NewStaffService(sRepo, ctx.Notifier)

	orderService := service.NewOrderService(orderRepo, sService, ctx.Notifier)
	orderHandler := handler.NewOrderHandler(orderService)

	setupRoutes(ctx.Router, orderHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	// 顾客订单路由
	userGroup := r.Group("/users/orders")
	userGroup.Use(middleware.AuthMiddleware(), middleware.CustomerOnly())
	{
		userGroup.GET("", h.ListUserOrders)
		userGroup.GET("/:id", h.GetUserOrder)
		userGroup.POST("/:id/cancel", h.CancelUserOrder)
	}

	// 管理员订单路由
	adminGroup := r.Group("/admin/orders")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		adminGroup.GET("", h.ListOrders)
		adminGroup.GET("/:id", h.GetOrder)
		adminGroup.PUT("/:id/status", h.UpdateStatus)
		adminGroup.PUT("/:id/assign", h.AssignToAdmin)
		adminGroup.POST("/assign-delivery", h.AssignToDeliveryBoy)
	}

	// 配送员订单路由
	deliveryGroup := r.Group("/delivery/orders")
	deliveryGroup.Use(middleware.AuthMiddleware(), middleware.DeliveryOnly())
	{
		deliveryGroup.GET("", h.ListDeliveryOrders)
		deliveryGroup.GET("/:id", h.GetDeliveryOrder)
		deliveryGroup.PUT("/:id/status", h.UpdateDeliveryStatus)
		deliveryGroup.POST("/:id/verify-cod", h.VerifyCODPayment)
	}
}
