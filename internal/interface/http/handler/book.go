package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// BookHandler 图书HTTP处理器
// 只做参数绑定和响应转换，查询和写入交给领域服务与用例
type BookHandler struct {
	bookService    book.Service
	replaceUseCase *appbook.ReplaceBookUseCase
	searchUseCase  *appbook.SearchBooksUseCase
	logger         *zap.Logger
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	bookService book.Service,
	replaceUseCase *appbook.ReplaceBookUseCase,
	searchUseCase *appbook.SearchBooksUseCase,
	logger *zap.Logger,
) *BookHandler {
	return &BookHandler{
		bookService:    bookService,
		replaceUseCase: replaceUseCase,
		searchUseCase:  searchUseCase,
		logger:         logger,
	}
}

// ListBooks 全部图书
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Success      200 {array}  dto.BookResponse
// @Failure      500 {object} response.ErrorBody
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.bookService.GetAllBooks(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, dto.ToBookResponses(books))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id  path     int true "图书ID"
// @Success      200 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "ID格式错误"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	b, found, err := h.bookService.GetBookByID(c.Request.Context(), id)
	h.respondOne(c, b, found, err)
}

// GetBookByISBN 按ISBN查询
// @Summary      按ISBN查询
// @Tags         图书
// @Produce      json
// @Param        isbn path     string true "ISBN"
// @Success      200  {object} dto.BookResponse
// @Failure      404  {object} response.ErrorBody "图书不存在"
// @Router       /api/books/isbn/{isbn} [get]
func (h *BookHandler) GetBookByISBN(c *gin.Context) {
	var uri dto.ISBNUri
	if err := c.ShouldBindUri(&uri); err != nil {
		h.bindError(c, err)
		return
	}

	b, found, err := h.bookService.GetBookByISBN(c.Request.Context(), uri.ISBN)
	h.respondOne(c, b, found, err)
}

// CreateBook 新建图书
// @Summary      新建图书
// @Description  available缺省为true；不校验字段内容
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body     dto.BookRequest true "图书信息"
// @Success      201     {object} dto.BookResponse
// @Failure      400     {object} response.ErrorBody "参数错误"
// @Failure      409     {object} response.ErrorBody "ISBN已存在"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	saved, err := h.bookService.SaveBook(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, dto.ToBookResponse(saved))
}

// ReplaceBook 整体替换图书
// @Summary      替换图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path     int             true "图书ID"
// @Param        request body     dto.BookRequest true "图书信息"
// @Success      200     {object} dto.BookResponse
// @Failure      400     {object} response.ErrorBody "参数错误"
// @Failure      404     {object} response.ErrorBody "图书不存在"
// @Failure      409     {object} response.ErrorBody "ISBN已存在"
// @Router       /api/books/{id} [put]
func (h *BookHandler) ReplaceBook(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	b, found, err := h.replaceUseCase.Execute(c.Request.Context(), id, appbook.ReplaceBookRequest{
		Title:     *req.Title,
		Author:    *req.Author,
		ISBN:      req.ISBN,
		Price:     req.Price,
		Available: req.AvailableOrDefault(),
	})
	h.respondOne(c, b, found, err)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Param        id  path int true "图书ID"
// @Success      204
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	deleted, err := h.bookService.DeleteBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if !deleted {
		response.Error(c, h.logger, apperrors.ErrBookNotFound)
		return
	}
	response.NoContent(c)
}

// SearchBooks 组合查询
// @Summary      查询图书
// @Description  author优先于title；author与available同时给出时按两者联合查询(作者区分大小写)；都没有时返回全部
// @Tags         图书
// @Produce      json
// @Param        author    query    string false "作者(忽略大小写)"
// @Param        title     query    string false "书名关键词(忽略大小写)"
// @Param        available query    bool   false "可借状态，需与author一起使用"
// @Success      200       {array}  dto.BookResponse
// @Failure      400       {object} response.ErrorBody "参数错误"
// @Router       /api/books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}

	books, err := h.searchUseCase.Execute(c.Request.Context(), appbook.SearchBooksRequest{
		Author:    q.Author,
		Title:     q.Title,
		Available: q.Available,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, dto.ToBookResponses(books))
}

// ListAvailableBooks 可借图书
// @Summary      可借图书
// @Tags         图书
// @Produce      json
// @Success      200 {array} dto.BookResponse
// @Router       /api/books/available [get]
func (h *BookHandler) ListAvailableBooks(c *gin.Context) {
	books, err := h.bookService.GetAvailableBooks(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, dto.ToBookResponses(books))
}

// ListAffordableBooks 价格不超过max_price的图书
// @Summary      低价图书
// @Tags         图书
// @Produce      json
// @Param        max_price query    number true "价格上限(含)"
// @Success      200       {array}  dto.BookResponse
// @Failure      400       {object} response.ErrorBody "参数错误"
// @Router       /api/books/affordable [get]
func (h *BookHandler) ListAffordableBooks(c *gin.Context) {
	var q dto.AffordableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}

	books, err := h.bookService.GetAffordableBooks(c.Request.Context(), *q.MaxPrice)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, dto.ToBookResponses(books))
}

// UpdateAvailability 修改可借状态
// @Summary      修改可借状态
// @Tags         图书
// @Produce      json
// @Param        id        path     int  true "图书ID"
// @Param        available query    bool true "是否可借"
// @Success      200       {object} dto.BookResponse
// @Failure      400       {object} response.ErrorBody "参数错误"
// @Failure      404       {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id}/availability [patch]
func (h *BookHandler) UpdateAvailability(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var q dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}

	b, found, err := h.bookService.UpdateBookAvailability(c.Request.Context(), id, *q.Available)
	h.respondOne(c, b, found, err)
}

// RegisterRoutes 注册/api/books下的路由
// 静态路径(search、available等)和:id同级，gin按字面量优先匹配
func (h *BookHandler) RegisterRoutes(r gin.IRouter) {
	books := r.Group("/api/books")
	{
		books.GET("", h.ListBooks)
		books.POST("", h.CreateBook)
		books.GET("/search", h.SearchBooks)
		books.GET("/available", h.ListAvailableBooks)
		books.GET("/affordable", h.ListAffordableBooks)
		books.GET("/isbn/:isbn", h.GetBookByISBN)
		books.GET("/:id", h.GetBook)
		books.PUT("/:id", h.ReplaceBook)
		books.DELETE("/:id", h.DeleteBook)
		books.PATCH("/:id/availability", h.UpdateAvailability)
	}
}

func (h *BookHandler) bindID(c *gin.Context) (uint, bool) {
	var uri dto.BookIDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, h.logger, apperrors.ErrInvalidParams.WithErr(err))
		return 0, false
	}
	return uri.ID, true
}

func (h *BookHandler) respondOne(c *gin.Context, b *book.Book, found bool, err error) {
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if !found {
		response.Error(c, h.logger, apperrors.ErrBookNotFound)
		return
	}
	response.OK(c, dto.ToBookResponse(b))
}

func (h *BookHandler) bindError(c *gin.Context, err error) {
	response.Error(c, h.logger, apperrors.ErrBindError.WithErr(err))
}
