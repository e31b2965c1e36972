package staff

import (
	"cake_shop_backend/internal/domain/staff/handler"
	"cake_shop_backend/internal/domain/staff/repository"
	"cake_shop_backend/internal/domain/staff/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// StaffModule 员工模块 (admin + delivery_boy)
type StaffModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&StaffModule{})
}

func (m *StaffModule) Name() string {
	return "staff"
}

func (m *StaffModule) Priority() int {
	// 员工模块优先级最高，订单分配和鉴权都依赖它
	return 1
}

func (m *StaffModule) Init(ctx *registry.ModuleContext) error {
	staffRepo := repository.NewStaffRepository(ctx.DB)
	staffService := service.NewStaffService(staffRepo, ctx.Notifier)
	staffHandler := handler.NewStaffHandler(staffService)

	setupRoutes(ctx.Router, staffHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.StaffHandler) {
	// 公开路由
	authGroup := r.Group("/auth/staff")
	{
		authGroup.POST("/login", h.Login)
		// 引导建号：服务端自查是否已有管理员，无需鉴权
		authGroup.POST("/first-admin", h.CreateFirstAdmin)
	}

	// 员工通用路由 (admin / delivery_boy)
	staffGroup := r.Group("/staff")
	staffGroup.Use(middleware.AuthMiddleware(), middleware.StaffOnly())
	{
		staffGroup.GET("/verify", h.Verify)
		staffGroup.POST("/push-token", h.RegisterPushToken)
	}

	// 管理员路由
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		adminGroup.GET("/details", h.AdminDetails)
		adminGroup.POST("/signup", h.Signup)
		adminGroup.GET("/admins", h.ListAdmins)
		adminGroup.GET("/delivery-boys", h.ListDeliveryBoys)
		adminGroup.POST("/delivery-boys", h.CreateDeliveryBoy)
		adminGroup.PUT("/delivery-boys/:id", h.UpdateDeliveryBoy)
		adminGroup.DELETE("/delivery-boys/:id", h.DeleteDeliveryBoy)
	}

	// 配送员路由
	deliveryGroup := r.Group("/delivery")
	deliveryGroup.Use(middleware.AuthMiddleware(), middleware.DeliveryOnly())
	{
		deliveryGroup.GET("/profile", h.DeliveryProfile)
		deliveryGroup.PUT("/location", h.UpdateLocation)
		deliveryGroup.PUT("/availability", h.UpdateAvailability)
	}
}
