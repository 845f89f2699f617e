package orm

import (
	"context"

	"gorm.io/gorm"
)

type (
	txKey          struct{}
	afterCommitKey struct{}
)

// TxManager 事务管理器
// fn中通过ctx调用的仓储方法都会使用同一个事务；
// fn返回error时回滚，返回nil时提交。嵌套调用时GORM使用Savepoint
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// 最外层事务提交后依次执行AfterCommit登记的回调
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	hooks, nested := ctx.Value(afterCommitKey{}).(*[]func())
	if !nested {
		hooks = &[]func(){}
		ctx = context.WithValue(ctx, afterCommitKey{}, hooks)
	}

	err := dbFrom(ctx, m.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err != nil || nested {
		return err
	}
	for _, hook := range *hooks {
		hook()
	}
	return nil
}

// InTx ctx是否携带TxManager开启的事务
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

// AfterCommit 在最外层事务提交后执行fn，回滚则丢弃；不在事务中时立即执行
func AfterCommit(ctx context.Context, fn func()) {
	hooks, ok := ctx.Value(afterCommitKey{}).(*[]func())
	if !ok || !InTx(ctx) {
		fn()
		return
	}
	*hooks = append(*hooks, fn)
}

// dbFrom 优先使用ctx中的事务DB
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
