package identifier

import (
	"context"
	"errors"

	"github.com/xiebiao/shop/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/shop/pkg/errors"
	"github.com/xiebiao/shop/pkg/metrics"
)

// Chain 组合多个Oracle：任意一个认为已存在即视为已存在
// 用于 数据库已提交记录 + Redis中正在创建的占位 两个来源
type Chain []Oracle

// Exists 实现Oracle，按顺序查询，遇到"已存在"或错误立即返回
func (c Chain) Exists(ctx context.Context, field, candidate string) (bool, error) {
	for _, o := range c {
		exists, err := o.Exists(ctx, field, candidate)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

// guardedOracle 经过熔断器保护的Oracle
type guardedOracle struct {
	inner   Oracle
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
}

// Guard 用熔断器包装Oracle
// 熔断器打开时查询立即失败，返回 ErrStoreUnavailable
func Guard(inner Oracle, breaker *circuitbreaker.CircuitBreaker, m *metrics.Metrics) Oracle {
	return &guardedOracle{inner: inner, breaker: breaker, metrics: m}
}

func (g *guardedOracle) Exists(ctx context.Context, field, candidate string) (bool, error) {
	var exists bool
	err := g.breaker.Execute(func() error {
		var err error
		exists, err = g.inner.Exists(ctx, field, candidate)
		return err
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		g.metrics.BreakerRequest(g.breaker.Name(), "rejected")
		return false, apperrors.WithCause(ErrStoreUnavailable, err)
	case err != nil:
		g.metrics.BreakerRequest(g.breaker.Name(), "failure")
		return false, err
	}

	g.metrics.BreakerRequest(g.breaker.Name(), "success")
	return exists, nil
}
