package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// SearchBooksUseCase 组合查询
// 作者优先于书名；作者和可借状态同时给出时走联合查询；都没有时返回全部
type SearchBooksUseCase struct {
	bookService book.Service
}

// NewSearchBooksUseCase 创建查询用例
func NewSearchBooksUseCase(bookService book.Service) *SearchBooksUseCase {
	return &SearchBooksUseCase{bookService: bookService}
}

// SearchBooksRequest 查询条件，空字符串和nil表示未提供
type SearchBooksRequest struct {
	Author    string
	Title     string
	Available *bool
}

// Execute 执行查询
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) ([]*book.Book, error) {
	switch {
	case req.Author != "" && req.Available != nil:
		// 注意：联合查询的作者匹配区分大小写，单独按作者查询不区分
		return uc.bookService.GetBooksByAuthorAndAvailability(ctx, req.Author, *req.Available)
	case req.Author != "":
		return uc.bookService.GetBooksByAuthor(ctx, req.Author)
	case req.Title != "":
		return uc.bookService.SearchBooksByTitle(ctx, req.Title)
	default:
		return uc.bookService.GetAllBooks(ctx)
	}
}
