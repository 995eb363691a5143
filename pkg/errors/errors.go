package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsServerError 5xxxx错误码属于服务端错误
func (e *AppError) IsServerError() bool {
	return e.Code >= 50000
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithCause 基于预定义错误派生一个携带内部原因的新错误
// 派生出的错误仍然满足 errors.Is(err, sentinel)
//
//	return apperrors.WithCause(ErrStoreUnavailable, err)
func WithCause(sentinel *AppError, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、号码耗尽）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal           = 50000 // 内部错误
	ErrCodeDatabaseError      = 50001 // 数据库错误
	ErrCodeRedisError         = 50002 // Redis错误
	ErrCodeOrderNoExhausted   = 50010 // 订单号生成失败（重试耗尽）
	ErrCodeRefundNoExhausted  = 50011 // 退款单号生成失败（超过上限）
	ErrCodeStoreUnavailable   = ErrCodeDatabaseError
	ErrCodeIdentifierInternal = 50012 // 随机源不可用

	// 资源错误（40400-40499）
	ErrCodeNotFound      = 40400 // 资源不存在(通用)
	ErrCodeOrderNotFound = 40403 // 订单不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError    = 40000 // 业务错误(通用)
	ErrCodeDuplicateEntry   = 40009 // 重复记录(通用)
	ErrCodeOrderNoConflict  = 40010 // 订单号唯一索引冲突
	ErrCodeRefundNoConflict = 40011 // 退款单号唯一索引冲突
	ErrCodeRefundNoAssigned = 40012 // 订单已有退款单号
	ErrCodeInvalidStatus    = 40013 // 状态值非法

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 资源不存在
	ErrNotFound      = New(ErrCodeNotFound, "资源不存在")
	ErrOrderNotFound = New(ErrCodeOrderNotFound, "订单不存在")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
// 注意：通过WithCause派生的错误，返回的Err字段会被替换为完整的错误链，便于日志记录
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err == nil && err != error(appErr) {
			return &AppError{Code: appErr.Code, Message: appErr.Message, Err: err}
		}
		return appErr
	}
	return Wrap(err, "系统内部错误")
}
