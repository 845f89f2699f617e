package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 应用错误
// Code 给客户端判断错误类型，Message 可直接展示，Err 只进日志不出响应体
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使预定义错误经过WithErr包装后仍能被errors.Is识别
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithErr 复制一份错误并挂上底层原因
func (e *AppError) WithErr(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装存储层错误，隐藏驱动细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// - 4xxxx: 客户端错误
// - 5xxxx: 服务端错误

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeUnavailable   = 50300 // 依赖不可用

	// 资源错误（40400-40499）
	ErrCodeBookNotFound = 40402 // 图书不存在

	// 冲突（40000-40099，沿用业务错误号段）
	ErrCodeISBNDuplicate = 40004 // ISBN已存在

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

var (
	ErrInternal    = New(ErrCodeInternal, "系统内部错误")
	ErrUnavailable = New(ErrCodeUnavailable, "服务暂不可用")

	ErrBookNotFound = New(ErrCodeBookNotFound, "图书不存在")

	ErrISBNDuplicate = New(ErrCodeISBNDuplicate, "ISBN号已存在")

	ErrInvalidParams = New(ErrCodeInvalidParams, "图书ID格式错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithErr(err)
}

// HTTPStatus 业务错误码到HTTP状态码的映射
func HTTPStatus(code int) int {
	switch {
	case code == ErrCodeISBNDuplicate:
		return http.StatusConflict
	case code == ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40900 && code < 41000:
		return http.StatusBadRequest
	case code >= 40000 && code < 50000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
