// Package saga 实现简单的编排式Saga：按顺序执行步骤，失败时逆序补偿
//
// 下单流程中的用法：
//
//	s := saga.New("create_order", 5*time.Second, saga.WithLogger(log))
//	s.AddStep("reserve_order_no", reserve, release) // Redis SET NX 占位，失败时释放
//	s.AddStep("insert_order", insert, nil)          // 写库，唯一索引兜底
//	err := s.Execute(ctx)
//
// 写库失败（例如唯一索引冲突）时，占位会被释放，号码可以被其他请求重新使用。
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/shop/pkg/metrics"
)

// Step Saga中的一个步骤
type Step struct {
	Name       string
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作，可以为nil
}

// Saga 一次性的步骤编排，不可复用
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// Option Saga可选项
type Option func(*Saga)

// WithLogger 补偿失败时写日志
func WithLogger(l *zap.Logger) Option {
	return func(s *Saga) { s.logger = l }
}

// WithMetrics 记录执行结果与补偿次数
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Saga) { s.metrics = m }
}

// New 创建Saga，timeout<=0 表示不设整体超时
func New(name string, timeout time.Duration, opts ...Option) *Saga {
	s := &Saga{
		name:    name,
		timeout: timeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStep 添加步骤
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 顺序执行所有步骤
// 任意一步失败或超时，逆序执行已完成步骤的补偿，返回包装后的原始错误（可用errors.Is判断）
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.compensate(ctx)
			s.metrics.SagaExecuted(s.name, false)
			return fmt.Errorf("saga[%s]超时: %w", s.name, err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(ctx)
				s.metrics.SagaExecuted(s.name, false)
				return fmt.Errorf("saga[%s]步骤[%d:%s]执行失败: %w", s.name, i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	s.metrics.SagaExecuted(s.name, true)
	return nil
}

// compensate 逆序补偿
// 使用不会被取消的context，避免超时后补偿也跟着失败，同时保留trace等上下文值
func (s *Saga) compensate(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}

		s.metrics.SagaCompensated()
		if err := step.Compensate(ctx); err != nil {
			// 补偿失败只记录，继续执行后续补偿
			s.logger.Error("saga compensation failed",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
		}
	}

	s.executed = nil
}
