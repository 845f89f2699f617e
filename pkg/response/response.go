package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// ErrorBody 错误响应体
// 成功响应直接返回资源本身，只有失败时才使用这个结构
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK 200 + 资源
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 + 新建的资源
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204，无响应体
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 内部错误只写日志，客户端只拿到错误码和提示
func Error(c *gin.Context, logger *zap.Logger, err error) {
	appErr := apperrors.GetAppError(err)
	status := apperrors.HTTPStatus(appErr.Code)

	if appErr.Err != nil && logger != nil {
		fields := []zap.Field{
			zap.Int("code", appErr.Code),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr.Err),
		}
		if rid, ok := c.Get(RequestIDKey); ok {
			fields = append(fields, zap.Any("request_id", rid))
		}
		if status >= http.StatusInternalServerError {
			logger.Error(appErr.Message, fields...)
		} else {
			logger.Warn(appErr.Message, fields...)
		}
	}

	c.AbortWithStatusJSON(status, ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// RequestIDKey gin上下文中请求ID的键，由请求日志中间件写入
const RequestIDKey = "request_id"
