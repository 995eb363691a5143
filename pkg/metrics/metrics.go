// Package metrics 提供基于Prometheus的指标收集
//
// # 指标分组
//
//   - HTTP：请求总数、耗时、进行中的请求
//   - 号码发放：发放成功数、碰撞次数、重试耗尽次数、发放耗时（按 kind 区分 order_no / refund_no）
//   - 订单：创建成功/失败数、插入时唯一索引冲突数
//   - 熔断器、Saga：状态与执行结果
//
// # 用法
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	r.GET("/metrics", gin.WrapH(m.Handler()))
//
// 所有记录方法对 nil 接收者安全，未开启指标时直接传 nil 即可。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shop"

// Metrics 应用的全部指标
type Metrics struct {
	registry *prometheus.Registry

	// ==================== HTTP指标 ====================
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// ==================== 号码发放指标 ====================
	IdentifiersIssuedTotal    *prometheus.CounterVec
	IdentifierCollisionsTotal *prometheus.CounterVec
	IdentifierExhaustedTotal  *prometheus.CounterVec
	IdentifierIssueDuration   *prometheus.HistogramVec

	// ==================== 订单指标 ====================
	OrdersCreatedTotal        prometheus.Counter
	OrdersFailedTotal         prometheus.Counter
	OrderInsertConflictsTotal *prometheus.CounterVec

	// ==================== 熔断器、Saga指标 ====================
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec
	SagaExecutionsTotal    *prometheus.CounterVec
	SagaCompensationsTotal prometheus.Counter
}

// New 在给定的Registry上注册所有指标
// 教学要点：不使用全局默认Registry，测试时每个用例可以创建独立的Registry
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求耗时（秒）",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		}, []string{"method", "path"}),

		HTTPRequestsInProgress: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		}),

		IdentifiersIssuedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifiers_issued_total",
			Help:      "成功发放的号码总数",
		}, []string{"kind"}),

		IdentifierCollisionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifier_collisions_total",
			Help:      "候选号码已存在（碰撞）的次数",
		}, []string{"kind"}),

		IdentifierExhaustedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifier_exhausted_total",
			Help:      "重试次数耗尽仍未找到可用号码的次数",
		}, []string{"kind"}),

		IdentifierIssueDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "identifier_issue_duration_seconds",
			Help:      "一次号码发放的耗时（秒，包含全部唯一性查询）",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"kind"}),

		OrdersCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "订单创建总数",
		}),

		OrdersFailedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_failed_total",
			Help:      "订单创建失败总数",
		}),

		OrderInsertConflictsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_insert_conflicts_total",
			Help:      "写入时触发唯一索引冲突的次数（检查与写入之间的竞争）",
		}, []string{"field"}),

		CircuitBreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		}, []string{"name"}),

		CircuitBreakerRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "熔断器请求总数",
		}, []string{"name", "result"}),

		SagaExecutionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_executions_total",
			Help:      "Saga执行总数",
		}, []string{"name", "result"}),

		SagaCompensationsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_compensations_total",
			Help:      "Saga补偿执行总数",
		}),
	}
}

// NewWithRuntime 创建新的Registry，额外注册Go运行时与进程指标
func NewWithRuntime() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

// Handler 暴露 /metrics 端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 返回底层Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ==================== 记录方法（nil安全） ====================

// IdentifierIssued 记录一次成功发放及其耗时
func (m *Metrics) IdentifierIssued(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.IdentifiersIssuedTotal.WithLabelValues(kind).Inc()
	m.IdentifierIssueDuration.WithLabelValues(kind).Observe(seconds)
}

// IdentifierCollision 记录一次候选号码碰撞
func (m *Metrics) IdentifierCollision(kind string) {
	if m == nil {
		return
	}
	m.IdentifierCollisionsTotal.WithLabelValues(kind).Inc()
}

// IdentifierExhausted 记录一次重试耗尽
func (m *Metrics) IdentifierExhausted(kind string) {
	if m == nil {
		return
	}
	m.IdentifierExhaustedTotal.WithLabelValues(kind).Inc()
}

// OrderCreated 记录订单创建结果
func (m *Metrics) OrderCreated(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.OrdersCreatedTotal.Inc()
		return
	}
	m.OrdersFailedTotal.Inc()
}

// InsertConflict 记录一次写入时的唯一索引冲突
func (m *Metrics) InsertConflict(field string) {
	if m == nil {
		return
	}
	m.OrderInsertConflictsTotal.WithLabelValues(field).Inc()
}

// BreakerState 记录熔断器状态
func (m *Metrics) BreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// BreakerRequest 记录熔断器请求结果（success/failure/rejected）
func (m *Metrics) BreakerRequest(name, result string) {
	if m == nil {
		return
	}
	m.CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SagaExecuted 记录Saga执行结果
func (m *Metrics) SagaExecuted(name string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.SagaExecutionsTotal.WithLabelValues(name, result).Inc()
}

// SagaCompensated 记录一次补偿
func (m *Metrics) SagaCompensated() {
	if m == nil {
		return
	}
	m.SagaCompensationsTotal.Inc()
}
