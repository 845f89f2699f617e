package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/orm"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	grpcserver "github.com/xiebiao/bookcatalog/internal/interface/grpc"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// App 组装好的进程：HTTP服务器必有，gRPC健康检查服务器按配置可选
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	http   *http.Server
	grpc   *grpcserver.Server
}

func newApp(cfg *config.Config, logger *zap.Logger, httpServer *http.Server, grpcServer *grpcserver.Server) *App {
	return &App{cfg: cfg, logger: logger, http: httpServer, grpc: grpcServer}
}

// provideBookRepository 根据cache.enabled决定是否在数据库仓储外包一层Redis缓存
func provideBookRepository(cfg *config.Config, db *gorm.DB, logger *zap.Logger) (book.Repository, func(), error) {
	repo := orm.NewBookRepository(db)
	if !cfg.Cache.Enabled {
		return repo, func() {}, nil
	}

	client, cleanup, err := redis.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	breaker := circuitbreaker.New("redis-cache", circuitbreaker.Config{
		MaxRequests:         cfg.Cache.BreakerHalfProbe,
		Interval:            time.Minute,
		Timeout:             cfg.Cache.BreakerOpenTime,
		ConsecutiveFailures: cfg.Cache.BreakerFailures,
	})
	store := redis.NewCacheStore(client, cfg.Cache.DetailTTL)

	logger.Info("已启用图书详情缓存", zap.Duration("ttl", cfg.Cache.DetailTTL))
	return redis.NewCachedBookRepository(repo, store, breaker, logger), cleanup, nil
}

// provideEventPublisher mq.enabled=false时不发布事件
func provideEventPublisher(cfg *config.Config, logger *zap.Logger) (book.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return book.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭RabbitMQ连接失败", zap.Error(err))
		}
	}
	return messaging.NewBookEventPublisher(publisher), cleanup, nil
}

func provideRouter(cfg *config.Config, logger *zap.Logger, health *handler.HealthHandler, books *handler.BookHandler) *gin.Engine {
	return router.New(router.Options{
		Mode:          cfg.Server.Mode,
		EnableSwagger: cfg.Server.EnableSwagger,
	}, logger, health, books)
}

func provideHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// provideGRPCServer grpc_port为0时返回nil
func provideGRPCServer(cfg *config.Config, pinger *orm.Pinger, logger *zap.Logger) *grpcserver.Server {
	if cfg.Server.GRPCPort == 0 {
		return nil
	}
	return grpcserver.NewServer(pinger, cfg.Server.HealthInterval, logger)
}
