package book

import (
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	// 仓储和服务用 found=false 表示不存在，只有HTTP层把它转成这个错误
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrISBNDuplicate ISBN已存在(唯一索引冲突)
	ErrISBNDuplicate = apperrors.ErrISBNDuplicate
)
