package book

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// mockRepository 仓储测试替身
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Save(ctx context.Context, b *Book) (*Book, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Book), args.Error(1)
}

func (m *mockRepository) FindAll(ctx context.Context) ([]*Book, error) {
	args := m.Called(ctx)
	return books(args.Get(0)), args.Error(1)
}

func (m *mockRepository) FindByID(ctx context.Context, id uint) (*Book, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*Book), args.Bool(1), args.Error(2)
}

func (m *mockRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) DeleteByID(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) FindByISBN(ctx context.Context, isbn string) (*Book, bool, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*Book), args.Bool(1), args.Error(2)
}

func (m *mockRepository) FindByAuthorIgnoreCase(ctx context.Context, author string) ([]*Book, error) {
	args := m.Called(ctx, author)
	return books(args.Get(0)), args.Error(1)
}

func (m *mockRepository) FindAvailable(ctx context.Context) ([]*Book, error) {
	args := m.Called(ctx)
	return books(args.Get(0)), args.Error(1)
}

func (m *mockRepository) FindByTitleContainingIgnoreCase(ctx context.Context, keyword string) ([]*Book, error) {
	args := m.Called(ctx, keyword)
	return books(args.Get(0)), args.Error(1)
}

func (m *mockRepository) FindByAuthorAndAvailability(ctx context.Context, author string, available bool) ([]*Book, error) {
	args := m.Called(ctx, author, available)
	return books(args.Get(0)), args.Error(1)
}

func (m *mockRepository) FindInPriceRange(ctx context.Context, min, max float64) ([]*Book, error) {
	args := m.Called(ctx, min, max)
	return books(args.Get(0)), args.Error(1)
}

func books(v interface{}) []*Book {
	if v == nil {
		return nil
	}
	return v.([]*Book)
}

// mockPublisher 记录发布的事件
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e Event) error {
	return m.Called(ctx, e).Error(0)
}

// countingTx 记录事务调用次数
type countingTx struct {
	calls int
}

func (t *countingTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}
