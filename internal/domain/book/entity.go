package book

import (
	"time"
)

// Book 图书实体，目录中唯一的实体
// 说明:
// 1. id、createdAt由存储层分配，业务代码只能读取
// 2. ISBN、Price可为空(nil)，ISBN非空时在存储层唯一
// 3. 不做任何业务校验，空书名、负价格都原样保存
type Book struct {
	id        uint
	Title     string
	Author    string
	ISBN      *string
	Price     *float64
	Available bool
	createdAt time.Time
	updatedAt time.Time
}

// NewBook 创建一本未持久化的新书，默认可借
func NewBook(title, author string, isbn *string, price *float64) *Book {
	return &Book{
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Price:     price,
		Available: true,
	}
}

// Reconstitute 由存储层根据已持久化的数据重建实体
func Reconstitute(id uint, title, author string, isbn *string, price *float64, available bool, createdAt, updatedAt time.Time) *Book {
	return &Book{
		id:        id,
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Price:     price,
		Available: available,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Book) ID() uint             { return b.id }
func (b *Book) CreatedAt() time.Time { return b.createdAt }
func (b *Book) UpdatedAt() time.Time { return b.updatedAt }

// IsPersisted 是否已分配ID
func (b *Book) IsPersisted() bool {
	return b.id != 0
}

// MarkAvailable 标记为可借
func (b *Book) MarkAvailable() {
	b.Available = true
}

// MarkUnavailable 标记为不可借
func (b *Book) MarkUnavailable() {
	b.Available = false
}

// SetAvailability 按参数设置可借状态
func (b *Book) SetAvailability(available bool) {
	if available {
		b.MarkAvailable()
		return
	}
	b.MarkUnavailable()
}

// Touch 写库前刷新更新时间
// 首次写入同时确定创建时间；更新时间永远不早于创建时间
func (b *Book) Touch(now time.Time) {
	if b.createdAt.IsZero() {
		b.createdAt = now
	}
	if now.Before(b.createdAt) {
		now = b.createdAt
	}
	b.updatedAt = now
}

// AssignID 插入成功后回填自增ID，只允许赋值一次
func (b *Book) AssignID(id uint) {
	if b.id == 0 {
		b.id = id
	}
}

// Clone 深拷贝，仓储写入前用它隔离调用方的实体
func (b *Book) Clone() *Book {
	c := *b
	if b.ISBN != nil {
		isbn := *b.ISBN
		c.ISBN = &isbn
	}
	if b.Price != nil {
		price := *b.Price
		c.Price = &price
	}
	return &c
}
