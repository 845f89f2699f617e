package book

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "book-service"

// Service 图书目录服务
// 说明:
// 1. 每个操作直接委托给仓储，除默认可借和"价格下限为0"外没有业务规则
// 2. 不存在用found=false或deleted=false表示，不作为错误
// 3. 写操作成功后发布目录事件，发布失败只记日志
type Service interface {
	// SaveBook 新建或整行更新，不做任何校验
	SaveBook(ctx context.Context, book *Book) (*Book, error)

	// GetAllBooks 全部图书
	GetAllBooks(ctx context.Context) ([]*Book, error)

	// GetBookByID 根据ID获取
	GetBookByID(ctx context.Context, id uint) (*Book, bool, error)

	// GetBookByISBN 根据ISBN获取
	GetBookByISBN(ctx context.Context, isbn string) (*Book, bool, error)

	// GetBooksByAuthor 作者匹配，忽略大小写
	GetBooksByAuthor(ctx context.Context, author string) ([]*Book, error)

	// GetBooksByAuthorAndAvailability 作者精确匹配且可借状态相等
	GetBooksByAuthorAndAvailability(ctx context.Context, author string, available bool) ([]*Book, error)

	// GetAvailableBooks 可借图书
	GetAvailableBooks(ctx context.Context) ([]*Book, error)

	// SearchBooksByTitle 书名包含关键词，忽略大小写
	SearchBooksByTitle(ctx context.Context, keyword string) ([]*Book, error)

	// UpdateBookAvailability 修改可借状态，图书不存在时返回found=false
	UpdateBookAvailability(ctx context.Context, id uint, available bool) (*Book, bool, error)

	// DeleteBook 删除图书，不存在时返回false且不做任何修改
	DeleteBook(ctx context.Context, id uint) (bool, error)

	// GetAffordableBooks 价格在[0, maxPrice]内的图书
	GetAffordableBooks(ctx context.Context, maxPrice float64) ([]*Book, error)
}

type service struct {
	repo      Repository
	tx        Transactor
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService 创建图书目录服务
// tx为nil时不开启事务，publisher为nil时不发布事件
func NewService(repo Repository, tx Transactor, publisher EventPublisher, logger *zap.Logger) Service {
	if tx == nil {
		tx = noTx{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *service) SaveBook(ctx context.Context, book *Book) (*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SaveBook")
	defer span.End()

	isNew := !book.IsPersisted()
	saved, err := s.repo.Save(ctx, book)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("book.id", int64(saved.ID())), attribute.Bool("book.new", isNew))

	if isNew {
		metrics.RecordBookMutation("create")
		s.publish(ctx, EventCreated, saved.ID(), saved)
	} else {
		metrics.RecordBookMutation("update")
		s.publish(ctx, EventUpdated, saved.ID(), saved)
	}
	return saved, nil
}

func (s *service) GetAllBooks(ctx context.Context) ([]*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetAllBooks")
	defer span.End()

	books, err := s.repo.FindAll(ctx)
	tracing.RecordError(span, err)
	return books, err
}

func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, bool, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetBookByID")
	defer span.End()
	span.SetAttributes(attribute.Int64("book.id", int64(id)))

	book, found, err := s.repo.FindByID(ctx, id)
	tracing.RecordError(span, err)
	return book, found, err
}

func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, bool, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetBookByISBN")
	defer span.End()
	span.SetAttributes(attribute.String("book.isbn", isbn))

	book, found, err := s.repo.FindByISBN(ctx, isbn)
	tracing.RecordError(span, err)
	return book, found, err
}

func (s *service) GetBooksByAuthor(ctx context.Context, author string) ([]*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetBooksByAuthor")
	defer span.End()
	span.SetAttributes(attribute.String("book.author", author))

	books, err := s.repo.FindByAuthorIgnoreCase(ctx, author)
	tracing.RecordError(span, err)
	return books, err
}

func (s *service) GetBooksByAuthorAndAvailability(ctx context.Context, author string, available bool) ([]*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetBooksByAuthorAndAvailability")
	defer span.End()
	span.SetAttributes(attribute.String("book.author", author), attribute.Bool("book.available", available))

	books, err := s.repo.FindByAuthorAndAvailability(ctx, author, available)
	tracing.RecordError(span, err)
	return books, err
}

func (s *service) GetAvailableBooks(ctx context.Context) ([]*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetAvailableBooks")
	defer span.End()

	books, err := s.repo.FindAvailable(ctx)
	tracing.RecordError(span, err)
	return books, err
}

func (s *service) SearchBooksByTitle(ctx context.Context, keyword string) ([]*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SearchBooksByTitle")
	defer span.End()
	span.SetAttributes(attribute.String("book.title_keyword", keyword))

	books, err := s.repo.FindByTitleContainingIgnoreCase(ctx, keyword)
	tracing.RecordError(span, err)
	return books, err
}

func (s *service) UpdateBookAvailability(ctx context.Context, id uint, available bool) (*Book, bool, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateBookAvailability")
	defer span.End()
	span.SetAttributes(attribute.Int64("book.id", int64(id)), attribute.Bool("book.available", available))

	var updated *Book
	// 查询和写入在同一事务内
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		book, found, err := s.repo.FindByID(ctx, id)
		if err != nil || !found {
			return err
		}

		book.SetAvailability(available)
		updated, err = s.repo.Save(ctx, book)
		if errors.Is(err, ErrBookNotFound) {
			// 查询之后被并发删除
			return nil
		}
		return err
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, false, err
	}
	if updated == nil {
		return nil, false, nil
	}

	metrics.RecordBookMutation("availability")
	s.publish(ctx, EventAvailabilityChanged, updated.ID(), updated)
	return updated, true, nil
}

func (s *service) DeleteBook(ctx context.Context, id uint) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteBook")
	defer span.End()
	span.SetAttributes(attribute.Int64("book.id", int64(id)))

	deleted := false
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByID(ctx, id)
		if err != nil || !exists {
			return err
		}
		if err := s.repo.DeleteByID(ctx, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		tracing.RecordError(span, err)
		return false, err
	}
	if !deleted {
		return false, nil
	}

	metrics.RecordBookMutation("delete")
	s.publish(ctx, EventDeleted, id, nil)
	return true, nil
}

func (s *service) GetAffordableBooks(ctx context.Context, maxPrice float64) ([]*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetAffordableBooks")
	defer span.End()
	span.SetAttributes(attribute.Float64("book.max_price", maxPrice))

	books, err := s.repo.FindInPriceRange(ctx, 0, maxPrice)
	tracing.RecordError(span, err)
	return books, err
}

// publish 发布失败不影响请求结果
func (s *service) publish(ctx context.Context, typ EventType, id uint, book *Book) {
	event := Event{Type: typ, BookID: id, OccurredAt: s.now(), Book: book}
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.RecordEvent(string(typ), false)
		s.logger.Warn("发布目录事件失败",
			zap.String("type", string(typ)),
			zap.Uint("book_id", id),
			zap.Error(err),
		)
		return
	}
	metrics.RecordEvent(string(typ), true)
}

// noTx 不开启事务，直接执行
type noTx struct{}

func (noTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
