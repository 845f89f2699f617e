package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	_ "github.com/xiebiao/bookcatalog/docs"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// version 构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

// @title        图书目录 API
// @version      1.0
// @description  图书目录服务：增删改查、按作者/书名/可借状态/价格查询
// @BasePath     /
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("服务异常退出", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 指标与追踪
	metrics.InitMetrics()
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(ctx, tracing.Options{
			ServiceName:    cfg.Tracing.ServiceName,
			ServiceVersion: version,
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Tracing.Insecure,
			SampleRatio:    cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				zlog.Warn("关闭Tracer失败", zap.Error(err))
			}
		}()
	}

	// 4. 依赖注入
	app, cleanup, err := InitializeApp(cfg, zlog)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	zlog.Info("服务启动",
		zap.String("version", version),
		zap.String("mode", cfg.Server.Mode),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("events", cfg.MQ.Enabled),
	)
	return app.Run(ctx)
}

// Run 启动HTTP(和可选的gRPC)服务器，ctx取消后优雅关闭
// 端口全部监听成功后才开始服务，任何一个失败都不会留下半启动的服务器
func (a *App) Run(ctx context.Context) error {
	httpLis, grpcLis, err := a.listen()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("HTTP服务监听", zap.String("addr", httpLis.Addr().String()))
		if err := a.http.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP服务异常: %w", err)
		}
	}()

	if a.grpc != nil {
		go a.grpc.Watch(ctx)
		go func() {
			a.logger.Info("gRPC健康检查服务监听", zap.String("addr", grpcLis.Addr().String()))
			if err := a.grpc.Serve(grpcLis); err != nil {
				errCh <- fmt.Errorf("gRPC服务异常: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("收到关闭信号，开始优雅关闭")
	case runErr = <-errCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if a.grpc != nil {
		a.grpc.GracefulStop()
	}
	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP服务关闭超时", zap.Error(err))
	}

	a.logger.Info("服务已关闭")
	return runErr
}

// listen 监听HTTP和gRPC端口，gRPC失败时关闭已打开的HTTP监听
func (a *App) listen() (httpLis, grpcLis net.Listener, err error) {
	httpLis, err = net.Listen("tcp", a.http.Addr)
	if err != nil {
		return nil, nil, fmt.Errorf("监听HTTP端口失败: %w", err)
	}
	if a.grpc == nil {
		return httpLis, nil, nil
	}

	grpcLis, err = net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Server.GRPCPort))
	if err != nil {
		httpLis.Close()
		return nil, nil, fmt.Errorf("监听gRPC端口失败: %w", err)
	}
	return httpLis, grpcLis, nil
}
