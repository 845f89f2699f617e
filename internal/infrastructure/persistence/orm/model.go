package orm

import (
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// BookModel GORM图书模型
// 说明:
// 1. ISBN可为空，非空时唯一(多个NULL不冲突)
// 2. available不加default:true，GORM插入时跳过零值，否则写不进false
//    默认可借由book.NewBook负责
// 3. 时间戳由仓储在写入前显式赋值，关闭GORM自动维护
// 4. 没有DeletedAt，删除即物理删除
type BookModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"size:200;not null;comment:书名"`
	Author    string    `gorm:"size:100;not null;index;comment:作者"`
	ISBN      *string   `gorm:"column:isbn;size:20;uniqueIndex;comment:ISBN号"`
	Price     *float64  `gorm:"type:decimal(10,2);index;comment:价格"`
	Available bool      `gorm:"not null;index;comment:是否可借"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;comment:创建时间"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false;comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(m *BookModel) *book.Book {
	return book.Reconstitute(m.ID, m.Title, m.Author, m.ISBN, m.Price, m.Available, m.CreatedAt, m.UpdatedAt)
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
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

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
