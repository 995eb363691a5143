//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 运行 `wire gen ./cmd/api` 生成wire_gen.go
// 3. Provider与main.go中的手动注入共用（见providers.go）

package main

import (
	"github.com/google/wire"

	apporder "github.com/xiebiao/shop/internal/application/order"
	"github.com/xiebiao/shop/internal/domain/identifier"
	"github.com/xiebiao/shop/internal/infrastructure/config"
	"github.com/xiebiao/shop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/shop/internal/interface/http/handler"
	"github.com/xiebiao/shop/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 包含：配置加载、日志、指标、链路追踪、数据库、Redis占位、事件发布
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	provideMetrics,
	provideTracer,
	mysql.NewDB,
	provideReservation,
	provideEventPublisher,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewOrderRepository,
	mysql.NewTxManager,
	wire.Bind(new(apporder.TxManager), new(*mysql.TxManager)),
)

// identifierSet 号码发放
var identifierSet = wire.NewSet(
	provideOracle,
	provideIssuer,
	wire.Bind(new(apporder.NumberIssuer), new(*identifier.Issuer)),
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	provideOrderConfig,
	provideReserver,
	apporder.NewCreateOrderUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewAssignRefundNoUseCase,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewOrderHandler,
	router.New,
)

// InitializeApp 初始化整个应用
// Wire Injector函数的返回值：目标类型 + cleanup + error
func InitializeApp() (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		identifierSet,
		applicationSet,
		handlerSet,
		newApp,
	)
	return nil, nil, nil
}
