package main

import (
	"log"

	"go.uber.org/zap"

	apporder "github.com/xiebiao/shop/internal/application/order"
	"github.com/xiebiao/shop/internal/infrastructure/config"
	"github.com/xiebiao/shop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/shop/internal/interface/http/handler"
	"github.com/xiebiao/shop/internal/interface/http/router"
)

// @title        Shop API
// @version      1.0
// @description  订单与号码发放服务
// @host         localhost:8080
// @BasePath     /api/v1

// main 主程序入口
// 说明：手动依赖注入，与wire.go中的Provider保持一致
func main() {
	app, cleanup, err := buildApp()
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		app.log.Error("server failed", zap.Error(err))
	}
}

// buildApp 依赖注入（手动组装）
// 学习要点：依赖注入链
// Repository ← Issuer ← UseCase ← Handler ← Router
func buildApp() (*App, func(), error) {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	// 2. 日志、指标、链路追踪
	logger, syncLogger, err := provideLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	m := provideMetrics()
	shutdown, err := provideTracer(cfg)
	if err != nil {
		syncLogger()
		return nil, nil, err
	}

	// 3. 基础设施层
	db, err := mysql.NewDB(cfg, logger)
	if err != nil {
		syncLogger()
		return nil, nil, err
	}
	reservation, closeRedis, err := provideReservation(cfg, logger)
	if err != nil {
		syncLogger()
		return nil, nil, err
	}
	publisher, closeMQ, err := provideEventPublisher(cfg, logger)
	if err != nil {
		closeRedis()
		syncLogger()
		return nil, nil, err
	}
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)

	// 4. 号码发放
	oracle := provideOracle(cfg, orderRepo, reservation, logger, m)
	issuer, err := provideIssuer(cfg, oracle, logger, m)
	if err != nil {
		closeMQ()
		closeRedis()
		syncLogger()
		return nil, nil, err
	}

	// 5. 应用层
	orderCfg := provideOrderConfig(cfg)
	createOrder := apporder.NewCreateOrderUseCase(orderRepo, issuer, provideReserver(reservation), publisher, orderCfg, logger, m)
	getOrder := apporder.NewGetOrderUseCase(orderRepo)
	assignRefundNo := apporder.NewAssignRefundNoUseCase(orderRepo, issuer, txManager, publisher, orderCfg, logger, m)

	// 6. 接口层
	orderHandler := handler.NewOrderHandler(createOrder, getOrder, assignRefundNo)
	engine := router.New(cfg, logger, m, orderHandler)

	cleanup := func() {
		closeMQ()
		closeRedis()
		syncLogger()
	}
	return newApp(cfg, logger, engine, shutdown), cleanup, nil
}
