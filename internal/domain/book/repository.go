package book

import (
	"context"
)

// Repository 图书仓储接口
// 由domain层定义，infrastructure层实现(GORM、Redis缓存装饰器)
// 约定:
// 1. 查不到不是错误，单条查询用第二个返回值表示是否存在
// 2. 存储故障包装成AppError原样向上抛
type Repository interface {
	// Save 新书插入并分配ID，已有ID则整行更新(不改created_at)
	// 返回新的实体，不修改入参；更新的行已被删除时返回ErrBookNotFound
	Save(ctx context.Context, book *Book) (*Book, error)

	// FindAll 全部图书，顺序不作保证
	FindAll(ctx context.Context) ([]*Book, error)

	// FindByID 根据ID查找
	FindByID(ctx context.Context, id uint) (*Book, bool, error)

	// ExistsByID 只判断是否存在，不加载整行
	ExistsByID(ctx context.Context, id uint) (bool, error)

	// DeleteByID 物理删除
	DeleteByID(ctx context.Context, id uint) error

	// FindByISBN ISBN唯一，最多一条
	FindByISBN(ctx context.Context, isbn string) (*Book, bool, error)

	// FindByAuthorIgnoreCase 作者全名匹配，忽略大小写
	FindByAuthorIgnoreCase(ctx context.Context, author string) ([]*Book, error)

	// FindAvailable 可借的图书
	FindAvailable(ctx context.Context) ([]*Book, error)

	// FindByTitleContainingIgnoreCase 书名包含关键词，忽略大小写
	FindByTitleContainingIgnoreCase(ctx context.Context, keyword string) ([]*Book, error)

	// FindByAuthorAndAvailability 作者精确相等(大小写敏感与否取决于数据库排序规则)且可借状态相等
	FindByAuthorAndAvailability(ctx context.Context, author string, available bool) ([]*Book, error)

	// FindInPriceRange 价格在[min, max]闭区间内，价格为空的图书不会命中
	FindInPriceRange(ctx context.Context, min, max float64) ([]*Book, error)
}

// Transactor 事务边界
// fn中通过ctx拿到的仓储操作都在同一个事务里
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
