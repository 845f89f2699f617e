package messaging

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// Publisher mq.Publisher的最小接口
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// BookEventMessage 发到消息队列的事件体
type BookEventMessage struct {
	Type       string       `json:"type"`
	BookID     uint         `json:"book_id"`
	OccurredAt time.Time    `json:"occurred_at"`
	Book       *BookPayload `json:"book,omitempty"`
}

// BookPayload 事件中的图书快照
type BookPayload struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      *string   `json:"isbn"`
	Price     *float64  `json:"price"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookEventPublisher 把领域事件发布到RabbitMQ，路由键即事件类型
type BookEventPublisher struct {
	publisher Publisher
}

// NewBookEventPublisher 创建事件发布器
func NewBookEventPublisher(p Publisher) *BookEventPublisher {
	return &BookEventPublisher{publisher: p}
}

// Publish 实现book.EventPublisher
func (p *BookEventPublisher) Publish(ctx context.Context, e book.Event) error {
	return p.publisher.Publish(ctx, string(e.Type), toMessage(e))
}

func toMessage(e book.Event) BookEventMessage {
	msg := BookEventMessage{
		Type:       string(e.Type),
		BookID:     e.BookID,
		OccurredAt: e.OccurredAt,
	}
	if e.Book != nil {
		msg.Book = &BookPayload{
			ID:        e.Book.ID(),
			Title:     e.Book.Title,
			Author:    e.Book.Author,
			ISBN:      e.Book.ISBN,
			Price:     e.Book.Price,
			Available: e.Book.Available,
			CreatedAt: e.Book.CreatedAt(),
			UpdatedAt: e.Book.UpdatedAt(),
		}
	}
	return msg
}
