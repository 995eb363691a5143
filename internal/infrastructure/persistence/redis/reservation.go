package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/shop/internal/domain/identifier"
	apperrors "github.com/xiebiao/shop/pkg/errors"
)

// Reservation 号码占位
// 设计说明：
// 1. 发放号码后、写库之前先在Redis中占位，缩小"检查→写入"之间的竞争窗口
// 2. 占位带TTL，进程崩溃后自动释放
// 3. Key设计：ident:{field}:{candidate}
// 4. 占位只是优化，唯一性仍然由数据库唯一索引保证
type Reservation struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReservation 创建号码占位存储
func NewReservation(client *redis.Client, ttl time.Duration) *Reservation {
	return &Reservation{client: client, ttl: ttl}
}

func reservationKey(field, candidate string) string {
	return fmt.Sprintf("ident:%s:%s", field, candidate)
}

// Reserve 占位
// 返回false表示该号码已被其他请求占用
// 学习要点：SET NX EX 是原子操作，不需要先EXISTS再SET
func (r *Reservation) Reserve(ctx context.Context, field, candidate string) (bool, error) {
	ok, err := r.client.SetNX(ctx, reservationKey(field, candidate), 1, r.ttl).Result()
	if err != nil {
		return false, apperrors.WithCause(apperrors.ErrRedisError, err)
	}
	return ok, nil
}

// Release 释放占位（写库成功或失败后调用）
func (r *Reservation) Release(ctx context.Context, field, candidate string) error {
	if err := r.client.Del(ctx, reservationKey(field, candidate)).Err(); err != nil {
		return apperrors.WithCause(apperrors.ErrRedisError, err)
	}
	return nil
}

// Exists 号码是否正被占用，实现identifier.Oracle
func (r *Reservation) Exists(ctx context.Context, field, candidate string) (bool, error) {
	n, err := r.client.Exists(ctx, reservationKey(field, candidate)).Result()
	if err != nil {
		return false, apperrors.WithCause(identifier.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}
