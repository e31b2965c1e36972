package user

import (
	"cake_shop_backend/internal/domain/user/handler"
	"cake_shop_backend/internal/domain/user/repository"
	"cake_shop_backend/internal/domain/user/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/internal/pkg/otp"
	"cake_shop_backend/internal/pkg/registry"
	"cake_shop_backend/internal/pkg/uploader"
	"cake_shop_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserModule 顾客模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 顾客模块优先初始化，订单和支付都依赖它
	return 2
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	userRepo := repository.NewUserRepository(ctx.DB)
	otpService := otp.NewOTPService(ctx.Redis)
	userService := service.NewUserService(userRepo, otpService, ctx.Notifier)

	// OSS 未配置时降级运行，仅禁用头像上传
	var up uploader.Uploader
	ossUploader, err := uploader.NewAliyunOSSUploader()
	if err != nil {
		logger.Log.Warn("OSS uploader disabled", zap.Error(err))
	} else {
		up = ossUploader
	}

	userHandler := handler.NewUserHandler(userService, up)
	setupRoutes(ctx.Router, userHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/check-phone", h.CheckPhone)
		authGroup.POST("/register", h.Register)
		authGroup.POST("/otp", h.SendOTP)
		authGroup.POST("/login/phone", h.LoginWithPhone)
	}

	// 顾客路由
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware(), middleware.CustomerOnly())
	{
		userGroup.GET("/profile", h.GetProfile)
		userGroup.PATCH("/profile", h.UpdateProfile)
		userGroup.POST("/profile/avatar", h.UploadAvatar)
		userGroup.PATCH("/settings", h.UpdateSettings)
		userGroup.POST("/push-token", h.RegisterPushToken)

		userGroup.GET("/addresses", h.ListAddresses)
		userGroup.POST("/addresses", h.AddAddress)
		userGroup.PATCH("/addresses/:id", h.UpdateAddress)
		userGroup.DELETE("/addresses/:id", h.DeleteAddress)
		userGroup.POST("/addresses/sync-location", h.SyncLocationAddress)

		userGroup.GET("/upi", h.ListUPIAccounts)
		userGroup.POST("/upi", h.AddUPIAccount)
		userGroup.PATCH("/upi/:id", h.UpdateUPIAccount)
		userGroup.DELETE("/upi/:id", h.DeleteUPIAccount)
	}

	// 管理端顾客管理
	adminGroup := r.Group("/admin/users")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		adminGroup.GET("", h.AdminListUsers)
		adminGroup.GET("/:id", h.AdminGetUser)
		adminGroup.PUT("/:id", h.AdminUpdateUser)
		adminGroup.DELETE("/:id", h.AdminDeleteUser)
	}
}
