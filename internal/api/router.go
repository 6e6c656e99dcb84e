package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/hiking-duration-go/internal/config"
	"github.com/jengzang/hiking-duration-go/internal/handler"
	"github.com/jengzang/hiking-duration-go/internal/metrics"
	"github.com/jengzang/hiking-duration-go/internal/middleware"
	"github.com/jengzang/hiking-duration-go/internal/service"
	"github.com/jengzang/hiking-duration-go/pkg/response"
	"github.com/jengzang/hiking-duration-go/web"
	"github.com/sirupsen/logrus"
)

// Dependencies 路由依赖
type Dependencies struct {
	Service     *service.EstimateService
	Logger      *logrus.Logger
	Metrics     *metrics.Collector      // nil 表示关闭 /metrics
	RateLimiter *middleware.RateLimiter // nil 表示不限流
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	r := gin.New()

	// 请求 ID、日志、恢复
	var observer middleware.RequestObserver
	if deps.Metrics != nil {
		observer = deps.Metrics
	}
	r.Use(middleware.RequestID(), middleware.Logger(deps.Logger, observer), gin.Recovery())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 模板
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus 指标
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	form := handler.NewFormHandler(deps.Service, cfg.MaxUploadBytes)
	estimates := handler.NewEstimateHandler(deps.Service, cfg.MaxUploadBytes)

	// 网页表单
	r.GET("/", form.Show)
	r.POST("/", middleware.RateLimit(deps.RateLimiter), form.Submit)

	// API 路由组
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(deps.RateLimiter))
	{
		v1.POST("/estimate", estimates.Estimate)

		// 轨迹相关接口
		traces := v1.Group("/traces")
		{
			traces.POST("/analyze", estimates.AnalyzeTrace)
			traces.POST("/estimate", estimates.EstimateTrace)
		}
	}

	// 未匹配路由
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	return r, nil
}
