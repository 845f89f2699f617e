package book

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// mockBookService 领域服务测试替身
type mockBookService struct {
	mock.Mock
}

func (m *mockBookService) SaveBook(ctx context.Context, b *book.Book) (*book.Book, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

func (m *mockBookService) GetAllBooks(ctx context.Context) ([]*book.Book, error) {
	args := m.Called(ctx)
	return list(args.Get(0)), args.Error(1)
}

func (m *mockBookService) GetBookByID(ctx context.Context, id uint) (*book.Book, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*book.Book), args.Bool(1), args.Error(2)
}

func (m *mockBookService) GetBookByISBN(ctx context.Context, isbn string) (*book.Book, bool, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*book.Book), args.Bool(1), args.Error(2)
}

func (m *mockBookService) GetBooksByAuthor(ctx context.Context, author string) ([]*book.Book, error) {
	args := m.Called(ctx, author)
	return list(args.Get(0)), args.Error(1)
}

func (m *mockBookService) GetBooksByAuthorAndAvailability(ctx context.Context, author string, available bool) ([]*book.Book, error) {
	args := m.Called(ctx, author, available)
	return list(args.Get(0)), args.Error(1)
}

func (m *mockBookService) GetAvailableBooks(ctx context.Context) ([]*book.Book, error) {
	args := m.Called(ctx)
	return list(args.Get(0)), args.Error(1)
}

func (m *mockBookService) SearchBooksByTitle(ctx context.Context, keyword string) ([]*book.Book, error) {
	args := m.Called(ctx, keyword)
	return list(args.Get(0)), args.Error(1)
}

func (m *mockBookService) UpdateBookAvailability(ctx context.Context, id uint, available bool) (*book.Book, bool, error) {
	args := m.Called(ctx, id, available)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*book.Book), args.Bool(1), args.Error(2)
}

func (m *mockBookService) DeleteBook(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookService) GetAffordableBooks(ctx context.Context, maxPrice float64) ([]*book.Book, error) {
	args := m.Called(ctx, maxPrice)
	return list(args.Get(0)), args.Error(1)
}

func list(v interface{}) []*book.Book {
	if v == nil {
		return nil
	}
	return v.([]*book.Book)
}

// inlineTx 直接执行fn，记录调用次数
type inlineTx struct {
	calls int
}

func (t *inlineTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}
