package catalog

import (
	"cake_shop_backend/internal/domain/catalog/handler"
	"cake_shop_backend/internal/domain/catalog/repository"
	"cake_shop_backend/internal/domain/catalog/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/internal/pkg/registry"
	"cake_shop_backend/internal/pkg/uploader"
	"cake_shop_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogModule 商品目录模块
type CatalogModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 4
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	catalogRepo := repository.NewCatalogRepository(ctx.DB)
	catalogService := service.NewCatalogService(catalogRepo)

	var up uploader.Uploader
	ossUploader, err := uploader.NewAliyunOSSUploader()
	if err != nil {
		logger.Log.Warn("OSS uploader disabled", zap.Error(err))
	} else {
		up = ossUploader
	}

	catalogHandler := handler.NewCatalogHandler(catalogService, up)
	setupRoutes(ctx.Router, catalogHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CatalogHandler) {
	// 公开读
	r.GET("/cakes", h.ListCakes)
	r.GET("/cakes/:id", h.GetCake)
	r.GET("/addons", h.ListAddons)
	r.GET("/addons/:id", h.GetAddon)

	// 评价需要顾客登录
	reviewGroup := r.Group("/cakes")
	reviewGroup.Use(middleware.AuthMiddleware(), middleware.CustomerOnly())
	{
		reviewGroup.POST("/:id/reviews", h.AddReview)
	}

	// 管理员写
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		adminGroup.POST("/cakes", h.CreateCake)
		adminGroup.POST("/cakes/many", h.CreateCakes)
		adminGroup.POST("/cakes/upload", h.UploadImage)
		adminGroup.PUT("/cakes/:id", h.UpdateCake)
		adminGroup.DELETE("/cakes/:id", h.DeleteCake)

		adminGroup.POST("/addons", h.CreateAddon)
		adminGroup.PUT("/addons/:id", h.UpdateAddon)
		adminGroup.DELETE("/addons/:id", h.DeleteAddon)
	}
}
