package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/shop/internal/domain/identifier"
	apperrors "github.com/xiebiao/shop/pkg/errors"
)

func newTestReservation(t *testing.T, ttl time.Duration) (*Reservation, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReservation(client, ttl), mr
}

func TestReservation_ReserveRelease(t *testing.T) {
	r, mr := newTestReservation(t, 30*time.Second)
	ctx := context.Background()
	const no = "20240101120000000003"

	ok, err := r.Reserve(ctx, identifier.FieldOrderNo, no)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("ident:no:"+no))
	assert.Equal(t, 30*time.Second, mr.TTL("ident:no:"+no))

	ok, err = r.Reserve(ctx, identifier.FieldOrderNo, no)
	require.NoError(t, err)
	assert.False(t, ok, "同一号码不能被占位两次")

	exists, err := r.Exists(ctx, identifier.FieldOrderNo, no)
	require.NoError(t, err)
	assert.True(t, exists)

	// 字段之间相互隔离
	exists, err = r.Exists(ctx, identifier.FieldRefundNo, no)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, r.Release(ctx, identifier.FieldOrderNo, no))
	exists, err = r.Exists(ctx, identifier.FieldOrderNo, no)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReservation_Expires(t *testing.T) {
	r, mr := newTestReservation(t, time.Second)
	ctx := context.Background()

	ok, err := r.Reserve(ctx, identifier.FieldOrderNo, "20240101120000000003")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	ok, err = r.Reserve(ctx, identifier.FieldOrderNo, "20240101120000000003")
	require.NoError(t, err)
	assert.True(t, ok, "过期后可重新占位")
}

func TestReservation_Unavailable(t *testing.T) {
	r, mr := newTestReservation(t, time.Second)
	mr.Close()

	_, err := r.Exists(context.Background(), identifier.FieldOrderNo, "20240101120000000003")
	assert.ErrorIs(t, err, identifier.ErrStoreUnavailable)

	_, err = r.Reserve(context.Background(), identifier.FieldOrderNo, "20240101120000000003")
	assert.ErrorIs(t, err, apperrors.ErrRedisError)
}

func TestReservation_AsOracle(t *testing.T) {
	r, _ := newTestReservation(t, time.Minute)
	ctx := context.Background()

	ok, err := r.Reserve(ctx, identifier.FieldOrderNo, "20240101120000000001")
	require.NoError(t, err)
	require.True(t, ok)

	seq := []int{1, 2}
	issuer := identifier.NewIssuer(r,
		identifier.WithClock(identifier.FixedClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))),
		identifier.WithRandom(identifier.RandomFunc(func(n int) int {
			v := seq[0]
			seq = seq[1:]
			return v
		})),
	)

	no, err := issuer.IssueOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20240101120000000002", no)
}
