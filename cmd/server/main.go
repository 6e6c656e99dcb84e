package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/hiking-duration-go/internal/api"
	"github.com/jengzang/hiking-duration-go/internal/config"
	"github.com/jengzang/hiking-duration-go/internal/logging"
	"github.com/jengzang/hiking-duration-go/internal/metrics"
	"github.com/jengzang/hiking-duration-go/internal/middleware"
	"github.com/jengzang/hiking-duration-go/internal/publisher"
	"github.com/jengzang/hiking-duration-go/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "json").Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 指标
	var collector *metrics.Collector
	var recorder service.Recorder
	if cfg.MetricsEnabled {
		collector = metrics.NewCollector()
		recorder = collector
	}

	// 事件发布（可选）
	var events service.EventPublisher
	if cfg.NATSURL != "" {
		var pm publisher.PublisherMetrics
		if collector != nil {
			pm = collector
		}
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, logger, pm)
		if err != nil {
			// 服务照常启动，只是不发布事件
			logger.WithError(err).Warn("Event publishing disabled")
		} else {
			defer pub.Close()
			events = pub
		}
	}

	svc := service.NewEstimateService(cfg.Defaults, logger, recorder, events)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	limiter.StartCleanup(ctx.Done())

	// 初始化路由
	router, err := api.SetupRouter(cfg, api.Dependencies{
		Service:     svc,
		Logger:      logger,
		Metrics:     collector,
		RateLimiter: limiter,
	})
	if err != nil {
		logger.Fatalf("Failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.WithField("addr", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
		os.Exit(1)
	}
}
