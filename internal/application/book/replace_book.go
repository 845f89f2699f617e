package book

import (
	"context"
	"errors"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// ReplaceBookUseCase 整体替换图书(PUT)
// 1. 先按ID查询，不存在(或保存前被删除)返回found=false
// 2. 用请求覆盖书名、作者、ISBN、价格、可借状态，ID和创建时间保留
// 3. 查询和保存在同一事务内
type ReplaceBookUseCase struct {
	bookService book.Service
	tx          book.Transactor
}

// NewReplaceBookUseCase 创建替换用例
func NewReplaceBookUseCase(bookService book.Service, tx book.Transactor) *ReplaceBookUseCase {
	return &ReplaceBookUseCase{
		bookService: bookService,
		tx:          tx,
	}
}

// ReplaceBookRequest 替换请求
type ReplaceBookRequest struct {
	Title     string
	Author    string
	ISBN      *string
	Price     *float64
	Available bool
}

// Execute 执行替换
func (uc *ReplaceBookUseCase) Execute(ctx context.Context, id uint, req ReplaceBookRequest) (*book.Book, bool, error) {
	var replaced *book.Book
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		existing, found, err := uc.bookService.GetBookByID(ctx, id)
		if err != nil || !found {
			return err
		}

		existing.Title = req.Title
		existing.Author = req.Author
		existing.ISBN = req.ISBN
		existing.Price = req.Price
		existing.SetAvailability(req.Available)

		replaced, err = uc.bookService.SaveBook(ctx, existing)
		if errors.Is(err, book.ErrBookNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if replaced == nil {
		return nil, false, nil
	}
	return replaced, true, nil
}
