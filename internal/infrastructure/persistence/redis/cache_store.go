package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// CacheStore 图书详情缓存(Cache-Aside)
// 先查缓存，未命中再查数据库并回填；写库成功后删除缓存而不是更新缓存
type CacheStore struct {
	client    *redis.Client
	detailTTL time.Duration
}

// NewCacheStore 创建缓存存储
func NewCacheStore(client *redis.Client, detailTTL time.Duration) *CacheStore {
	return &CacheStore{client: client, detailTTL: detailTTL}
}

// bookSnapshot 缓存中的图书JSON
// 领域实体的ID和时间戳不导出，不能直接序列化
type bookSnapshot struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      *string   `json:"isbn"`
	Price     *float64  `json:"price"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetBook 读取缓存，未命中返回nil, nil
func (c *CacheStore) GetBook(ctx context.Context, id uint) (*book.Book, error) {
	val, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("获取缓存失败: %w", err)
	}

	var s bookSnapshot
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}
	return book.Reconstitute(s.ID, s.Title, s.Author, s.ISBN, s.Price, s.Available, s.CreatedAt, s.UpdatedAt), nil
}

// SetBook 写入缓存
func (c *CacheStore) SetBook(ctx context.Context, b *book.Book) error {
	val, err := json.Marshal(bookSnapshot{
		ID:        b.ID(),
		Title:     b.Title,
		Author:    b.Author,
		ISBN:      b.ISBN,
		Price:     b.Price,
		Available: b.Available,
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	})
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}

	if err := c.client.Set(ctx, bookKey(b.ID()), val, c.detailTTL).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

// DeleteBook 删除缓存
func (c *CacheStore) DeleteBook(ctx context.Context, id uint) error {
	if err := c.client.Del(ctx, bookKey(id)).Err(); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

func bookKey(id uint) string {
	return fmt.Sprintf("catalog:book:%d", id)
}
