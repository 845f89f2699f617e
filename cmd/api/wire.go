//go:build wireinject
// +build wireinject

// Wire依赖注入配置，运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/orm"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
)

// infrastructureSet 数据库、仓储、事务、事件发布
var infrastructureSet = wire.NewSet(
	orm.NewDB,
	orm.NewTxManager,
	orm.NewPinger,
	provideBookRepository,
	provideEventPublisher,
	wire.Bind(new(book.Transactor), new(*orm.TxManager)),
	wire.Bind(new(handler.Pinger), new(*orm.Pinger)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewReplaceBookUseCase,
	appbook.NewSearchBooksUseCase,
)

// interfaceSet HTTP与gRPC入口
var interfaceSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewHealthHandler,
	provideRouter,
	provideHTTPServer,
	provideGRPCServer,
)

// InitializeApp 组装整个应用
// cleanup按创建的逆序关闭消息队列、Redis和数据库连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
