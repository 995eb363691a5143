package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 手动推进的时钟
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var errBackend = errors.New("service unavailable")

func newTestBreaker(clock *fakeClock, transitions *[]string) *CircuitBreaker {
	return NewCircuitBreaker("test", Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to State) {
			if transitions != nil {
				*transitions = append(*transitions, from.String()+"->"+to.String())
			}
		},
		Now: clock.Now,
	})
}

// TestCircuitBreaker_ClosedState 正常请求保持CLOSED
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := newTestBreaker(&fakeClock{now: time.Unix(0, 0)}, nil)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

// TestCircuitBreaker_OpenState 连续失败后熔断，且不再调用实际函数
func TestCircuitBreaker_OpenState(t *testing.T) {
	var transitions []string
	cb := newTestBreaker(&fakeClock{now: time.Unix(0, 0)}, &transitions)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errBackend }), errBackend)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断器打开时不应该调用实际函数")
	assert.Equal(t, []string{"CLOSED->OPEN"}, transitions)
}

// TestCircuitBreaker_HalfOpenRecovery 超时后半开，探测成功则关闭
func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	var transitions []string
	cb := newTestBreaker(clock, &transitions)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBackend })
	}
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

// TestCircuitBreaker_HalfOpenFailure 半开状态下失败立即重新打开
func TestCircuitBreaker_HalfOpenFailure(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	cb := newTestBreaker(clock, nil)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBackend })
	}
	clock.Advance(31 * time.Second)

	_ = cb.Execute(func() error { return errBackend })
	assert.Equal(t, StateOpen, cb.State())
}

// TestCircuitBreaker_IntervalReset 统计窗口过期后计数清零
func TestCircuitBreaker_IntervalReset(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	cb := newTestBreaker(clock, nil)

	_ = cb.Execute(func() error { return errBackend })
	_ = cb.Execute(func() error { return errBackend })
	clock.Advance(11 * time.Second)
	_ = cb.Execute(func() error { return errBackend })

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

// TestCircuitBreaker_IgnoredErrors 调用方取消不计入失败
func TestCircuitBreaker_IgnoredErrors(t *testing.T) {
	cb := newTestBreaker(&fakeClock{now: time.Unix(0, 0)}, nil)

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return context.Canceled }), context.Canceled)
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(0), cb.Counts().TotalFailures)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "CLOSED", StateClosed.String())
	assert.Equal(t, "OPEN", StateOpen.String())
	assert.Equal(t, "HALF_OPEN", StateHalfOpen.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}
