package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// readyTimeout 就绪检查单次Ping的超时
const readyTimeout = 2 * time.Second

// Pinger 依赖存活检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler 存活与就绪探针
type HealthHandler struct {
	db     Pinger
	logger *zap.Logger
}

// NewHealthHandler 创建探针处理器
func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Ping 存活探针，进程能响应即可
// @Summary  存活检查
// @Tags     运维
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	response.OK(c, gin.H{"message": "pong", "status": "healthy"})
}

// Ready 就绪探针，数据库不可用时返回503
// @Summary  就绪检查
// @Tags     运维
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  503 {object} response.ErrorBody
// @Router   /readyz [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		response.Error(c, h.logger, apperrors.ErrUnavailable.WithErr(err))
		return
	}
	response.OK(c, gin.H{"status": "ready"})
}
