package identifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/shop/pkg/errors"
	"github.com/xiebiao/shop/pkg/metrics"
	"github.com/xiebiao/shop/pkg/tracing"
)

// Issuer 号码发放器
//
// 无状态、同步执行，可被多个goroutine并发使用。
// 除了唯一性查询以及日志、指标、Span之外没有任何副作用，
// 连续调用两次得到两个相互独立的号码。
type Issuer struct {
	oracle            Oracle
	clock             Clock
	random            RandomSource
	token             TokenSource
	maxAttempts       int
	refundMaxAttempts int
	logger            *zap.Logger
	metrics           *metrics.Metrics
}

// Option Issuer可选项
type Option func(*Issuer)

// WithClock 替换时钟（测试时冻结时间）
func WithClock(c Clock) Option {
	return func(i *Issuer) { i.clock = c }
}

// WithRandom 替换订单号后缀的随机源
func WithRandom(r RandomSource) Option {
	return func(i *Issuer) { i.random = r }
}

// WithTokenSource 替换退款单号的生成方式
func WithTokenSource(t TokenSource) Option {
	return func(i *Issuer) { i.token = t }
}

// WithMaxAttempts 订单号最大尝试次数
func WithMaxAttempts(n int) Option {
	return func(i *Issuer) {
		if n > 0 {
			i.maxAttempts = n
		}
	}
}

// WithRefundMaxAttempts 退款单号最大尝试次数
func WithRefundMaxAttempts(n int) Option {
	return func(i *Issuer) {
		if n > 0 {
			i.refundMaxAttempts = n
		}
	}
}

// WithLogger 诊断日志
func WithLogger(l *zap.Logger) Option {
	return func(i *Issuer) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithMetrics 发放指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Issuer) { i.metrics = m }
}

// NewIssuer 创建号码发放器
func NewIssuer(oracle Oracle, opts ...Option) *Issuer {
	i := &Issuer{
		oracle:            oracle,
		clock:             SystemClock{},
		random:            DefaultRandom,
		token:             UUIDToken,
		maxAttempts:       DefaultMaxAttempts,
		refundMaxAttempts: DefaultRefundMaxAttempts,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IssueOrderNumber 发放订单号
//
// 前缀在循环开始前只计算一次，所以同一次调用的所有候选号码共享同一秒。
// 每次尝试查询一次唯一性，最多 maxAttempts 次：
//   - 候选号码不存在：立即返回
//   - 全部碰撞：记录一条warn日志（不包含候选值），返回 ErrOrderNoExhausted
//   - 查询出错：立即返回 ErrStoreUnavailable，不当作"已存在"继续重试
func (i *Issuer) IssueOrderNumber(ctx context.Context) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "identifier.issue_order_no")
	defer span.End()

	start := time.Now()
	prefix := i.clock.Now().Format(OrderNoLayout)

	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%06d", prefix, i.random.IntN(OrderNoSuffixSpace))

		exists, err := i.oracle.Exists(ctx, FieldOrderNo, candidate)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "oracle query failed")
			return "", storeUnavailable(err)
		}

		if !exists {
			span.SetAttributes(attribute.Int("identifier.attempts", attempt))
			i.metrics.IdentifierIssued(kindOrderNo, time.Since(start).Seconds())
			return candidate, nil
		}

		i.metrics.IdentifierCollision(kindOrderNo)
		i.logger.Debug("order no collision", zap.Int("attempt", attempt))
	}

	i.logger.Warn("find order no failed", zap.Int("attempts", i.maxAttempts))
	i.metrics.IdentifierExhausted(kindOrderNo)
	span.SetAttributes(attribute.Int("identifier.attempts", i.maxAttempts))
	span.SetStatus(codes.Error, "order no exhausted")
	return "", ErrOrderNoExhausted
}

// IssueRefundToken 发放退款单号
//
// 128位随机空间下碰撞可以视为不会发生，这里仍然查询唯一性并设置一个很大的上限，
// 超过上限说明随机源或存储出了严重问题，返回 ErrRefundNoExhausted 终止流程。
func (i *Issuer) IssueRefundToken(ctx context.Context) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "identifier.issue_refund_no")
	defer span.End()

	start := time.Now()

	for attempt := 1; attempt <= i.refundMaxAttempts; attempt++ {
		token, err := i.token()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "token source failed")
			return "", apperrors.WithCause(ErrTokenSource, err)
		}

		exists, err := i.oracle.Exists(ctx, FieldRefundNo, token)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "oracle query failed")
			return "", storeUnavailable(err)
		}

		if !exists {
			span.SetAttributes(attribute.Int("identifier.attempts", attempt))
			i.metrics.IdentifierIssued(kindRefundNo, time.Since(start).Seconds())
			return token, nil
		}

		i.metrics.IdentifierCollision(kindRefundNo)
	}

	i.logger.Error("find refund no failed", zap.Int("attempts", i.refundMaxAttempts))
	i.metrics.IdentifierExhausted(kindRefundNo)
	span.SetStatus(codes.Error, "refund no exhausted")
	return "", ErrRefundNoExhausted
}

// storeUnavailable 查询错误统一归类为存储不可用，已经归类过的不重复包装
func storeUnavailable(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return apperrors.WithCause(ErrStoreUnavailable, err)
}
