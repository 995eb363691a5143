package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	apporder "github.com/xiebiao/shop/internal/application/order"
	"github.com/xiebiao/shop/internal/domain/identifier"
	"github.com/xiebiao/shop/internal/domain/order"
	"github.com/xiebiao/shop/internal/infrastructure/config"
	"github.com/xiebiao/shop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/shop/pkg/circuitbreaker"
	"github.com/xiebiao/shop/pkg/logger"
	"github.com/xiebiao/shop/pkg/metrics"
	"github.com/xiebiao/shop/pkg/mq"
	"github.com/xiebiao/shop/pkg/tracing"
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明：
// 构造函数的参数需要从Config中提取时，编写自定义Provider
// main.go（手动注入）与wire.go（Wire注入）共用这些函数

// tracerShutdown 进程退出前导出缓冲中的Span
type tracerShutdown func(context.Context) error

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(log)
	return log, func() { _ = log.Sync() }, nil
}

func provideMetrics() *metrics.Metrics {
	return metrics.NewWithRuntime()
}

func provideTracer(cfg *config.Config) (tracerShutdown, error) {
	shutdown, err := tracing.InitTracer(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, err
	}
	return shutdown, nil
}

// provideReservation 未启用占位时返回nil，不连接Redis
func provideReservation(cfg *config.Config, log *zap.Logger) (*redis.Reservation, func(), error) {
	if !cfg.Reservation.Enabled {
		return nil, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewReservation(client, cfg.Reservation.TTL), func() { _ = client.Close() }, nil
}

// provideReserver 注意：nil指针不能直接赋给接口，否则接口值不为nil
func provideReserver(r *redis.Reservation) apporder.Reserver {
	if r == nil {
		return nil
	}
	return r
}

// provideEventPublisher 未启用mq时返回nil接口，用例跳过事件发布
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (apporder.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return nil, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log.Named("mq"))
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}

// provideOracle 唯一性查询 = 数据库 (+ Redis占位)，外层套熔断器
func provideOracle(cfg *config.Config, repo order.Repository, reservation *redis.Reservation, log *zap.Logger, m *metrics.Metrics) identifier.Oracle {
	var oracle identifier.Oracle = repo
	if reservation != nil {
		oracle = identifier.Chain{repo, reservation}
	}

	failures := cfg.Breaker.ConsecutiveFailures
	breaker := circuitbreaker.NewCircuitBreaker("identifier-oracle", circuitbreaker.Config{
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		// 调用方取消请求不是存储故障
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			m.BreakerState(name, int(to))
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return identifier.Guard(oracle, breaker, m)
}

func provideIssuer(cfg *config.Config, oracle identifier.Oracle, log *zap.Logger, m *metrics.Metrics) (*identifier.Issuer, error) {
	loc, err := cfg.Issuer.Location()
	if err != nil {
		return nil, err
	}
	return identifier.NewIssuer(oracle,
		identifier.WithClock(identifier.SystemClock{Location: loc}),
		identifier.WithMaxAttempts(cfg.Issuer.MaxAttempts),
		identifier.WithRefundMaxAttempts(cfg.Issuer.RefundMaxAttempts),
		identifier.WithLogger(log.Named("identifier")),
		identifier.WithMetrics(m),
	), nil
}

func provideOrderConfig(cfg *config.Config) apporder.Config {
	return apporder.Config{
		InsertRetries: cfg.Order.InsertRetries,
		Timeout:       cfg.Order.Timeout,
	}
}
