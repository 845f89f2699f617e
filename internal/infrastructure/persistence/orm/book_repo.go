package orm

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookRepository 图书仓储的GORM实现
// 1. 负责领域实体与BookModel之间的转换
// 2. 查不到返回found=false，存储故障包装成AppError
// 3. 所有方法通过getDB(ctx)参与TxManager开启的事务
type bookRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{
		db: db,
		now: func() time.Time {
			// MySQL datetime(3)只保留毫秒，统一截断避免返回值和库里不一致
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
}

// Save 插入或整行更新
// 1. 在副本上刷新时间戳并写入，失败时调用方的实体保持原样
// 2. 更新时不写created_at；行已不存在返回book.ErrBookNotFound
// 3. 价格先按decimal(10,2)取整，返回值与库中一致
func (r *bookRepository) Save(ctx context.Context, b *book.Book) (*book.Book, error) {
	pending := b.Clone()
	pending.Touch(r.now())
	pending.Price = roundPrice(pending.Price)
	model := toBookModel(pending)

	if !pending.IsPersisted() {
		if err := r.getDB(ctx).Create(model).Error; err != nil {
			return nil, r.writeError(err, "创建图书失败")
		}
		pending.AssignID(model.ID)
		return pending, nil
	}

	// Select显式列出字段，零值(available=false、isbn=NULL)也会写入
	result := r.getDB(ctx).Model(&BookModel{ID: model.ID}).
		Select("title", "author", "isbn", "price", "available", "updated_at").
		Updates(model)
	if result.Error != nil {
		return nil, r.writeError(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		// MySQL对值没有变化的行也返回0，需要再确认行是否还在
		exists, err := r.ExistsByID(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, book.ErrBookNotFound
		}
	}
	return pending, nil
}

// FindAll 全部图书
func (r *bookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := r.getDB(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	return toBookEntities(models), nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, bool, error) {
	var model BookModel
	err := r.getDB(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), true, nil
}

// ExistsByID 判断图书是否存在
func (r *bookRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&BookModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询图书失败")
	}
	return count > 0, nil
}

// DeleteByID 物理删除，行不存在时什么也不做
func (r *bookRepository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.getDB(ctx).Delete(&BookModel{}, id).Error; err != nil {
		return apperrors.Wrap(err, "删除图书失败")
	}
	return nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, bool, error) {
	var model BookModel
	err := r.getDB(ctx).Where("isbn = ?", isbn).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), true, nil
}

// FindByAuthorIgnoreCase 作者全名匹配，忽略大小写
func (r *bookRepository) FindByAuthorIgnoreCase(ctx context.Context, author string) ([]*book.Book, error) {
	return r.find(ctx, "按作者查询图书失败", "LOWER(author) = LOWER(?)", author)
}

// FindAvailable 可借图书
func (r *bookRepository) FindAvailable(ctx context.Context) ([]*book.Book, error) {
	return r.find(ctx, "查询可借图书失败", "available = ?", true)
}

// FindByTitleContainingIgnoreCase 书名包含关键词，忽略大小写
// 关键词中的 % _ 按字面匹配；空关键词匹配全部
func (r *bookRepository) FindByTitleContainingIgnoreCase(ctx context.Context, keyword string) ([]*book.Book, error) {
	pattern := "%" + escapeLike(keyword) + "%"
	return r.find(ctx, "按书名搜索图书失败", "LOWER(title) LIKE LOWER(?) ESCAPE '"+likeEscape+"'", pattern)
}

// FindByAuthorAndAvailability 作者精确相等且可借状态相等
// 注意:与FindByAuthorIgnoreCase不同，这里不做大小写折叠；
// MySQL默认的 *_ci 排序规则下比较仍然不区分大小写
func (r *bookRepository) FindByAuthorAndAvailability(ctx context.Context, author string, available bool) ([]*book.Book, error) {
	return r.find(ctx, "按作者查询图书失败", "author = ? AND available = ?", author, available)
}

// FindInPriceRange 价格在[min, max]闭区间内
func (r *bookRepository) FindInPriceRange(ctx context.Context, min, max float64) ([]*book.Book, error) {
	return r.find(ctx, "按价格查询图书失败", "price BETWEEN ? AND ?", min, max)
}

// find 单表条件查询，按ID排序保证结果稳定
func (r *bookRepository) find(ctx context.Context, failMsg string, query string, args ...interface{}) ([]*book.Book, error) {
	var models []BookModel
	if err := r.getDB(ctx).Where(query, args...).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, failMsg)
	}
	return toBookEntities(models), nil
}

// writeError ISBN冲突转换为业务错误，其余按存储故障处理
func (r *bookRepository) writeError(err error, msg string) error {
	if isDuplicateError(err) {
		return book.ErrISBNDuplicate.WithErr(err)
	}
	return apperrors.Wrap(err, msg)
}

// roundPrice 按price列的精度保留两位小数
func roundPrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := math.Round(*p*100) / 100
	return &v
}

// getDB 从context获取事务DB，没有则使用默认DB
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).WithContext(ctx)
}
