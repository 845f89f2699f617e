package redis

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/orm"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// cachedBookRepository 带详情缓存的图书仓储装饰器
// 1. 只缓存事务外的FindByID，其余查询直接透传
// 2. 事务内的FindByID直接查库，读改写不能基于缓存里的旧值
// 3. Save、DeleteByID成功后删除对应缓存，事务提交后再删一次
// 4. Redis故障不影响请求：出错就走数据库，连续失败后熔断直接跳过缓存
type cachedBookRepository struct {
	book.Repository
	store   *CacheStore
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewCachedBookRepository 包装inner仓储
func NewCachedBookRepository(inner book.Repository, store *CacheStore, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) book.Repository {
	return &cachedBookRepository{
		Repository: inner,
		store:      store,
		breaker:    breaker,
		logger:     logger,
	}
}

func (r *cachedBookRepository) FindByID(ctx context.Context, id uint) (*book.Book, bool, error) {
	if orm.InTx(ctx) {
		metrics.RecordCache("bypass")
		return r.Repository.FindByID(ctx, id)
	}

	// 1. 查缓存
	var cached *book.Book
	err := r.breaker.Execute(func() error {
		var err error
		cached, err = r.store.GetBook(ctx, id)
		return err
	})

	cacheOK := false
	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		metrics.RecordCache("bypass")
	case err != nil:
		metrics.RecordCache("error")
		r.logger.Warn("读取图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	case cached != nil:
		metrics.RecordCache("hit")
		return cached, true, nil
	default:
		metrics.RecordCache("miss")
		cacheOK = true
	}

	// 2. 查数据库
	b, found, err := r.Repository.FindByID(ctx, id)
	if err != nil || !found {
		return b, found, err
	}

	// 3. 回填，只在缓存可用时进行
	if cacheOK {
		if err := r.breaker.Execute(func() error { return r.store.SetBook(ctx, b) }); err != nil {
			r.logger.Warn("回填图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
		}
	}
	return b, true, nil
}

func (r *cachedBookRepository) Save(ctx context.Context, b *book.Book) (*book.Book, error) {
	saved, err := r.Repository.Save(ctx, b)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			r.invalidate(ctx, b.ID())
		}
		return nil, err
	}
	r.invalidate(ctx, saved.ID())
	return saved, nil
}

func (r *cachedBookRepository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.Repository.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// invalidate 立即删除缓存；在事务中时提交后再删一次，
// 清掉提交前被并发读者回填的旧值
func (r *cachedBookRepository) invalidate(ctx context.Context, id uint) {
	r.deleteCache(ctx, id)
	if orm.InTx(ctx) {
		orm.AfterCommit(ctx, func() { r.deleteCache(ctx, id) })
	}
}

// deleteCache 删除失败只记日志，旧数据最多存活一个TTL
func (r *cachedBookRepository) deleteCache(ctx context.Context, id uint) {
	err := r.breaker.Execute(func() error { return r.store.DeleteBook(ctx, id) })
	if err != nil {
		r.logger.Warn("删除图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
}
