package dto

import (
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// BookRequest 新建(POST)和替换(PUT)共用的请求体
// title、author必须出现，允许空字符串；available缺省为true
type BookRequest struct {
	Title     *string  `json:"title" binding:"required" example:"Dune"`
	Author    *string  `json:"author" binding:"required" example:"Frank Herbert"`
	ISBN      *string  `json:"isbn" example:"9780441013593"`
	Price     *float64 `json:"price" example:"9.99"`
	Available *bool    `json:"available" example:"true"`
}

// AvailableOrDefault 未传available时视为可借
func (r *BookRequest) AvailableOrDefault() bool {
	if r.Available == nil {
		return true
	}
	return *r.Available
}

// ToEntity 转为未持久化的图书
func (r *BookRequest) ToEntity() *book.Book {
	b := book.NewBook(*r.Title, *r.Author, r.ISBN, r.Price)
	b.SetAvailability(r.AvailableOrDefault())
	return b
}

// BookIDUri 路径中的图书ID
type BookIDUri struct {
	ID uint `uri:"id"`
}

// ISBNUri 路径中的ISBN
type ISBNUri struct {
	ISBN string `uri:"isbn" binding:"required"`
}

// AvailabilityQuery 修改可借状态
type AvailabilityQuery struct {
	Available *bool `form:"available" binding:"required" example:"false"`
}

// SearchQuery 组合查询条件，都可省略
type SearchQuery struct {
	Author    string `form:"author" example:"Frank Herbert"`
	Title     string `form:"title" example:"dune"`
	Available *bool  `form:"available" example:"true"`
}

// AffordableQuery 价格上限查询
type AffordableQuery struct {
	MaxPrice *float64 `form:"max_price" binding:"required" example:"20"`
}

// BookResponse 图书响应
// isbn、price为空时输出null，时间为RFC 3339
type BookResponse struct {
	ID        uint      `json:"id" example:"1"`
	Title     string    `json:"title" example:"Dune"`
	Author    string    `json:"author" example:"Frank Herbert"`
	ISBN      *string   `json:"isbn" example:"9780441013593"`
	Price     *float64  `json:"price" example:"9.99"`
	Available bool      `json:"available" example:"true"`
	CreatedAt time.Time `json:"created_at" example:"2024-05-01T12:00:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-05-01T12:00:00Z"`
}

// ToBookResponse 实体转响应
func ToBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:        b.ID(),
		Title:     b.Title,
		Author:    b.Author,
		ISBN:      b.ISBN,
		Price:     b.Price,
		Available: b.Available,
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

// ToBookResponses 列表转换，空列表输出[]而不是null
func ToBookResponses(books []*book.Book) []*BookResponse {
	list := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		list = append(list, ToBookResponse(b))
	}
	return list
}
