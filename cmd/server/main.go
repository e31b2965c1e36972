package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "cake_shop_backend/docs"
	_ "cake_shop_backend/internal/domain/analytics"
	_ "cake_shop_backend/internal/domain/catalog"
	_ "cake_shop_backend/internal/domain/order"
	_ "cake_shop_backend/internal/domain/payment"
	_ "cake_shop_backend/internal/domain/staff"
	_ "cake_shop_backend/internal/domain/user"
	_ "cake_shop_backend/internal/domain/wallet"

	"cake_shop_backend/internal/pkg/config"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/internal/pkg/notify"
	"cake_shop_backend/internal/pkg/push"
	"cake_shop_backend/internal/pkg/registry"
	"cake_shop_backend/pkg/database"
	"cake_shop_backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Cake Shop API
// @version 1.0
// @description 蛋糕商城后端：商品、订单、支付、钱包、配送
// @BasePath /
func main() {
	config.LoadConfig()
	logger.InitLogger(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	if config.GlobalConfig.Server.Mode != "" {
		gin.SetMode(config.GlobalConfig.Server.Mode)
	}

	db := database.InitDatabase()
	sqlDB := database.InitSQLX()
	rdb := database.InitRedis()

	// 推送未配置时降级为只走 Redis 广播
	var pushSvc push.PushService
	if svc, err := push.NewAliyunPushService(); err != nil {
		logger.Log.Warn("push service disabled", zap.Error(err))
	} else {
		pushSvc = svc
	}
	notifier := notify.NewService(rdb, pushSvc)
	defer notifier.Stop()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	if len(config.GlobalConfig.App.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = config.GlobalConfig.App.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	moduleCtx := &registry.ModuleContext{
		DB:       db,
		SQL:      sqlDB,
		Redis:    rdb,
		Router:   router,
		Notifier: notifier,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("init modules failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
	}
	logger.Log.Info("server exited")
}
