package book

import (
	"context"
	"time"
)

// EventType 目录事件类型，同时用作消息路由键
type EventType string

const (
	EventCreated             EventType = "book.created"
	EventUpdated             EventType = "book.updated"
	EventAvailabilityChanged EventType = "book.availability_changed"
	EventDeleted             EventType = "book.deleted"
)

// Event 写操作成功后发布的事件
// 删除事件不携带Book快照
type Event struct {
	Type       EventType
	BookID     uint
	OccurredAt time.Time
	Book       *Book
}

// EventPublisher 事件发布端口，由infrastructure层实现
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher 不发布任何事件(未启用消息队列时使用)
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
