// Package grpc gRPC运维入口：标准健康检查服务和反射
// 目录接口只走HTTP，这里不注册业务服务
package grpc

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中目录服务的名字，空字符串表示整个进程
const ServiceName = "bookcatalog.Catalog"

// pingTimeout 单次数据库检查超时
const pingTimeout = 2 * time.Second

// Pinger 数据库存活检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server gRPC健康检查服务器
// 后台按固定间隔Ping数据库，把结果同步到grpc.health.v1.Health
type Server struct {
	server   *grpc.Server
	health   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *zap.Logger
}

// NewServer 创建服务器，初始状态为NOT_SERVING，第一次检查后才会变为SERVING
func NewServer(pinger Pinger, interval time.Duration, logger *zap.Logger) *Server {
	s := &Server{
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
		logger:   logger,
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Serve 阻塞直到Stop或监听出错
func (s *Server) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// Watch 周期检查数据库，ctx取消时返回
func (s *Server) Watch(ctx context.Context) {
	s.Check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check 执行一次检查并更新状态
func (s *Server) Check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn("数据库健康检查失败", zap.Error(err))
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

// GracefulStop 先把状态置为NOT_SERVING，再等待进行中的调用结束
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
