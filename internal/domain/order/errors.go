package order

import (
	apperrors "github.com/xiebiao/shop/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrOrderNoConflict 写入时订单号触发唯一索引冲突（检查与写入之间被其他请求抢先）
	// 可重试：重新发放订单号后再次写入
	ErrOrderNoConflict = apperrors.New(apperrors.ErrCodeOrderNoConflict, "订单号冲突，请重试")

	// ErrRefundNoConflict 写入时退款单号触发唯一索引冲突，可重试
	ErrRefundNoConflict = apperrors.New(apperrors.ErrCodeRefundNoConflict, "退款单号冲突，请重试")

	// ErrOrderNoAssigned 订单号已写入，不可修改
	ErrOrderNoAssigned = apperrors.New(apperrors.ErrCodeBusinessError, "订单号已生成")

	// ErrRefundNoAssigned 订单已有退款单号
	ErrRefundNoAssigned = apperrors.New(apperrors.ErrCodeRefundNoAssigned, "订单已生成退款单号")

	// ErrInvalidStatus 状态值非法
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidStatus, "订单状态不合法")

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidAmount 购买数量不合法
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidPrice 单价不合法
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数")
)
