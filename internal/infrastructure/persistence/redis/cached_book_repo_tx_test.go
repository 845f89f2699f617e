package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/orm"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
)

// sqlStack sqlite上的真实仓储加缓存装饰器
type sqlStack struct {
	mr     *miniredis.Miniredis
	store  *CacheStore
	plain  book.Repository
	cached book.Repository
	tx     *orm.TxManager
}

func newSQLStack(t *testing.T) *sqlStack {
	t.Helper()
	db, cleanup, err := orm.NewDB(&config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		},
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewCacheStore(client, time.Minute)
	breaker := circuitbreaker.New("redis-sql-"+t.Name(), circuitbreaker.Config{
		MaxRequests:         1,
		Timeout:             time.Hour,
		ConsecutiveFailures: 3,
	})
	plain := orm.NewBookRepository(db)
	return &sqlStack{
		mr:     mr,
		store:  store,
		plain:  plain,
		cached: NewCachedBookRepository(plain, store, breaker, zap.NewNop()),
		tx:     orm.NewTxManager(db),
	}
}

func TestCachedBookRepository_Transactions(t *testing.T) {
	ctx := context.Background()

	t.Run("事务内读改写不使用旧缓存", func(t *testing.T) {
		s := newSQLStack(t)
		svc := book.NewService(s.cached, s.tx, nil, zap.NewNop())

		created, err := svc.SaveBook(ctx, book.NewBook("Dune", "Frank Herbert", nil, nil))
		require.NoError(t, err)
		stale := created.Clone()

		// 整体替换提交新书名
		err = s.tx.Transaction(ctx, func(ctx context.Context) error {
			b, _, err := s.cached.FindByID(ctx, created.ID())
			if err != nil {
				return err
			}
			b.Title = "Dune Messiah"
			_, err = s.cached.Save(ctx, b)
			return err
		})
		require.NoError(t, err)

		// 缓存里残留替换前的快照
		require.NoError(t, s.store.SetBook(ctx, stale))

		_, found, err := svc.UpdateBookAvailability(ctx, created.ID(), false)
		require.NoError(t, err)
		require.True(t, found)

		got, _, err := s.plain.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", got.Title, "不能把旧缓存写回数据库")
		assert.False(t, got.Available)
	})

	t.Run("提交后清掉并发回填的旧值", func(t *testing.T) {
		s := newSQLStack(t)
		created, err := s.cached.Save(ctx, book.NewBook("Dune", "Frank Herbert", nil, nil))
		require.NoError(t, err)
		key := bookKey(created.ID())

		err = s.tx.Transaction(ctx, func(ctx context.Context) error {
			b := created.Clone()
			b.Title = "Dune Messiah"
			if _, err := s.cached.Save(ctx, b); err != nil {
				return err
			}
			// 提交前另一个请求读到旧行并回填
			require.NoError(t, s.store.SetBook(context.Background(), created))
			assert.True(t, s.mr.Exists(key))
			return nil
		})
		require.NoError(t, err)
		assert.False(t, s.mr.Exists(key))

		got, found, err := s.cached.FindByID(ctx, created.ID())
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Dune Messiah", got.Title)
	})

	t.Run("行已删除时清掉缓存并返回不存在", func(t *testing.T) {
		s := newSQLStack(t)
		created, err := s.cached.Save(ctx, book.NewBook("Dune", "Frank Herbert", nil, nil))
		require.NoError(t, err)
		require.NoError(t, s.store.SetBook(ctx, created))
		require.NoError(t, s.plain.DeleteByID(ctx, created.ID()))

		_, err = s.cached.Save(ctx, created)
		require.ErrorIs(t, err, book.ErrBookNotFound)
		assert.False(t, s.mr.Exists(bookKey(created.ID())))

		exists, err := s.plain.ExistsByID(ctx, created.ID())
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
