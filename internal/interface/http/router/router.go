// Package router 组装gin引擎：中间件、运维端点和业务路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
)

// Options 路由选项
type Options struct {
	// Mode gin运行模式：debug | release | test
	Mode string
	// EnableSwagger release模式下强制关闭
	EnableSwagger bool
}

// New 创建gin引擎
// 中间件顺序：请求日志 → 指标 → Recovery，panic转成的500也会被记录
func New(opts Options, logger *zap.Logger, health *handler.HealthHandler, books *handler.BookHandler) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode, gin.DebugMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(middleware.Logger(logger), middleware.Metrics(), gin.Recovery())

	r.GET("/ping", health.Ping)
	r.GET("/readyz", health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 生产环境不暴露接口文档
	if opts.EnableSwagger && opts.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	books.RegisterRoutes(r)
	return r
}
