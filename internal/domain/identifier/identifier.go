// Package identifier 负责为新记录发放唯一、可读的业务号码
//
// 两种号码：
//   - 订单号：YYYYMMDDHHmmss + 6位随机数字，共20位，按秒有序
//   - 退款单号：128位随机值（UUIDv4）的32位小写十六进制
//
// 发放流程是"生成候选 → 查询是否已存在 → 不存在则返回"的有界重试。
// 查询只能减少冲突，不能消除冲突：检查与写入之间存在竞争窗口，
// 最终由数据库唯一索引兜底，调用方需要在写入冲突时重新发放号码。
package identifier

import (
	"context"
	"encoding/hex"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/xiebiao/shop/pkg/errors"
)

const (
	// FieldOrderNo 订单号所在字段
	FieldOrderNo = "no"
	// FieldRefundNo 退款单号所在字段
	FieldRefundNo = "refund_no"

	// OrderNoLayout 订单号前缀的时间格式（字典序即时间序）
	OrderNoLayout = "20060102150405"
	// OrderNoSuffixSpace 随机后缀取值范围 [0, 1000000)
	OrderNoSuffixSpace = 1_000_000
	// OrderNoLength 订单号总长度：14位时间 + 6位随机数
	OrderNoLength = len(OrderNoLayout) + 6
	// RefundNoLength 退款单号长度：128位 = 32个十六进制字符
	RefundNoLength = 32

	// DefaultMaxAttempts 订单号最大尝试次数
	DefaultMaxAttempts = 10
	// DefaultRefundMaxAttempts 退款单号最大尝试次数
	// 128位随机空间下第二次尝试已经几乎不可能出现，这个上限只是防止真正的死循环
	DefaultRefundMaxAttempts = 10_000
)

const (
	kindOrderNo  = "order_no"
	kindRefundNo = "refund_no"
)

var (
	// ErrOrderNoExhausted 所有候选订单号都已存在，调用方必须放弃本次创建
	ErrOrderNoExhausted = apperrors.New(apperrors.ErrCodeOrderNoExhausted, "订单号生成失败")

	// ErrRefundNoExhausted 退款单号超过最大尝试次数（正常情况下不可达）
	ErrRefundNoExhausted = apperrors.New(apperrors.ErrCodeRefundNoExhausted, "退款单号生成失败")

	// ErrStoreUnavailable 唯一性查询失败（数据库/缓存不可用），与"号码已存在"区分
	ErrStoreUnavailable = apperrors.New(apperrors.ErrCodeStoreUnavailable, "存储服务暂不可用")

	// ErrTokenSource 随机源不可用
	ErrTokenSource = apperrors.New(apperrors.ErrCodeIdentifierInternal, "随机数生成失败")
)

// Oracle 唯一性查询
// 只读，不持有状态；必须反映所有已提交的记录，允许与正在进行的写入竞争
type Oracle interface {
	Exists(ctx context.Context, field, candidate string) (bool, error)
}

// OracleFunc 函数适配器
type OracleFunc func(ctx context.Context, field, candidate string) (bool, error)

// Exists 实现Oracle
func (f OracleFunc) Exists(ctx context.Context, field, candidate string) (bool, error) {
	return f(ctx, field, candidate)
}

// Clock 当前时间
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟，按指定时区输出
type SystemClock struct {
	Location *time.Location
}

// Now 实现Clock
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock 固定时间（测试用）
type FixedClock time.Time

// Now 实现Clock
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// RandomSource 均匀分布的随机整数，返回 [0, n)；必须可并发调用
type RandomSource interface {
	IntN(n int) int
}

// RandomFunc 函数适配器
type RandomFunc func(n int) int

// IntN 实现RandomSource
func (f RandomFunc) IntN(n int) int {
	return f(n)
}

// DefaultRandom math/rand/v2 的全局源，并发安全，无需Seed
var DefaultRandom RandomSource = RandomFunc(rand.IntN)

// TokenSource 生成退款单号，必须来自密码学安全的随机源
type TokenSource func() (string, error)

// UUIDToken UUIDv4（crypto/rand）渲染为32位小写十六进制，不含连字符
func UUIDToken() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(u[:]), nil
}

// IsOrderNo 校验订单号格式：20位纯数字，前14位是合法时间
func IsOrderNo(no string) bool {
	if len(no) != OrderNoLength {
		return false
	}
	for i := 0; i < len(no); i++ {
		if no[i] < '0' || no[i] > '9' {
			return false
		}
	}
	_, err := time.Parse(OrderNoLayout, no[:len(OrderNoLayout)])
	return err == nil
}

// IsRefundNo 校验退款单号格式：32位小写十六进制
func IsRefundNo(no string) bool {
	if len(no) != RefundNoLength {
		return false
	}
	for i := 0; i < len(no); i++ {
		c := no[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
