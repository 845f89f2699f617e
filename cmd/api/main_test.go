package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	grpcserver "github.com/xiebiao/bookcatalog/internal/interface/grpc"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// freeAddr 取一个当前空闲的本地端口
func freeAddr(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())
	return addr
}

func TestApp_Run(t *testing.T) {
	t.Run("gRPC端口被占用时不启动HTTP", func(t *testing.T) {
		busy, err := net.Listen("tcp", ":0")
		require.NoError(t, err)
		defer busy.Close()

		httpAddr := freeAddr(t)
		cfg := &config.Config{Server: config.ServerConfig{
			GRPCPort:        busy.Addr().(*net.TCPAddr).Port,
			ShutdownTimeout: time.Second,
		}}
		app := newApp(cfg, zap.NewNop(),
			&http.Server{Addr: httpAddr, Handler: http.NotFoundHandler()},
			grpcserver.NewServer(okPinger{}, time.Second, zap.NewNop()))

		err = app.Run(context.Background())
		require.ErrorContains(t, err, "监听gRPC端口失败")

		lis, err := net.Listen("tcp", httpAddr)
		require.NoError(t, err, "HTTP端口应已释放")
		lis.Close()
	})

	t.Run("ctx取消后优雅关闭", func(t *testing.T) {
		cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: time.Second}}
		app := newApp(cfg, zap.NewNop(), &http.Server{Addr: freeAddr(t), Handler: http.NotFoundHandler()}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- app.Run(ctx) }()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Run没有返回")
		}
	})
}
