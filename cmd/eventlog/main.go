// eventlog 订阅目录事件并输出到日志，用于联调和排查事件发布
//
//	go run ./cmd/eventlog -keys 'book.*'
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

func main() {
	keys := flag.String("keys", "book.#", "绑定的路由键，逗号分隔")
	queue := flag.String("queue", "", "队列名，留空使用临时队列")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	zlog, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, *queue, strings.Split(*keys, ","), zlog)
	if err != nil {
		zlog.Fatal("连接RabbitMQ失败", zap.Error(err))
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Info("开始订阅目录事件", zap.String("exchange", cfg.MQ.Exchange), zap.String("keys", *keys))
	err = consumer.Consume(ctx, func(routingKey string, body []byte) error {
		var msg messaging.BookEventMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			// 格式不对的消息重新入队也没有意义，记日志后确认掉
			zlog.Warn("无法解析的事件", zap.String("routing_key", routingKey), zap.ByteString("body", body))
			return nil
		}
		fields := []zap.Field{
			zap.String("type", msg.Type),
			zap.Uint("book_id", msg.BookID),
			zap.Time("occurred_at", msg.OccurredAt),
		}
		if msg.Book != nil {
			fields = append(fields, zap.String("title", msg.Book.Title), zap.Bool("available", msg.Book.Available))
		}
		zlog.Info("目录事件", fields...)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		zlog.Error("订阅中断", zap.Error(err))
	}
}
