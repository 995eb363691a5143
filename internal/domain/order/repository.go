package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 唯一性由存储层的唯一索引保证，冲突必须以可识别的错误返回，不能静默吞掉
type Repository interface {
	// Create 创建订单(包含订单明细)
	// 订单号重复时返回 ErrOrderNoConflict
	Create(ctx context.Context, order *Order) error

	// FindByNo 根据订单号查找订单
	FindByNo(ctx context.Context, no string) (*Order, error)

	// LockByNo 根据订单号查找并加行锁(SELECT ... FOR UPDATE)，必须在事务中调用
	LockByNo(ctx context.Context, no string) (*Order, error)

	// AssignRefundNo 为尚未发放退款单号的订单写入退款单号
	// 退款单号重复时返回 ErrRefundNoConflict；订单已有退款单号时返回 ErrRefundNoAssigned
	AssignRefundNo(ctx context.Context, id uint, refundNo string) error

	// Exists 唯一性查询：field 为 "no" 或 "refund_no"
	// 满足 identifier.Oracle 接口
	Exists(ctx context.Context, field, value string) (bool, error)
}
