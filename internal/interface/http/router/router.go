// Package router 组装gin引擎：中间件、路由、文档与指标端点
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/shop/docs" // swagger文档
	"github.com/xiebiao/shop/internal/infrastructure/config"
	"github.com/xiebiao/shop/internal/interface/http/handler"
	"github.com/xiebiao/shop/internal/interface/http/middleware"
	"github.com/xiebiao/shop/pkg/metrics"
	"github.com/xiebiao/shop/pkg/response"
)

// New 创建并配置Gin引擎
// metrics.enabled=false时不暴露/metrics（指标仍然在进程内记录）
func New(cfg *config.Config, log *zap.Logger, m *metrics.Metrics, orderHandler *handler.OrderHandler) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Tracing(),
		middleware.Logger(log),
		middleware.Metrics(m),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	if m != nil && cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	// 生产环境建议禁用Swagger或添加访问控制
	if cfg.Server.Mode != "release" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:no", orderHandler.GetOrder)
			orders.POST("/:no/refund-no", orderHandler.AssignRefundNo)
		}

		v1.GET("/order-statuses", orderHandler.StatusLabels)
	}

	return r
}
