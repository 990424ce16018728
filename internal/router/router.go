package router

import (
	"github.com/gin-gonic/gin"
	thirdPartyI18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bikeshare-go/internal/handler"
	"bikeshare-go/internal/middleware"
)

// New 创建 gin 引擎并注册中间件与路由
func New(logger *zap.Logger, bundle *thirdPartyI18n.Bundle) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery()) // 显式添加 Recovery 中间件

	r.Use(middleware.RequestID())
	// 注册全局错误中间件
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.I18nMiddleware(bundle))

	r.GET("/healthz", handler.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/dataset", handler.GetDatasetHandler)
		api.POST("/dataset", handler.UploadDatasetHandler)
		api.POST("/dataset/reload", handler.ReloadDatasetHandler)

		dashboard := api.Group("/dashboard")
		dashboard.GET("/summary", handler.SummaryHandler)
		dashboard.GET("/weather", handler.WeatherHandler)
		dashboard.GET("/season", handler.SeasonHandler)
		dashboard.GET("/users", handler.UsersHandler)

		api.GET("/records", handler.ListRecordsHandler)
		api.GET("/export", handler.ExportHandler)
		api.GET("/charts/:name", handler.ChartHandler)
	}

	return r
}
