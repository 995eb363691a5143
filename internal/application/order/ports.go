package order

import (
	"context"
)

// NumberIssuer 号码发放(由identifier.Issuer实现)
type NumberIssuer interface {
	IssueOrderNumber(ctx context.Context) (string, error)
	IssueRefundToken(ctx context.Context) (string, error)
}

// Reserver 号码占位(由redis.Reservation实现)
// Reserve返回false表示号码已被其他请求占用
type Reserver interface {
	Reserve(ctx context.Context, field, candidate string) (bool, error)
	Release(ctx context.Context, field, candidate string) error
}

// TxManager 事务管理(由mysql.TxManager实现)
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 订单事件发布(由mq.Publisher实现)
// 为nil时不发布；发布失败只记录日志，不影响主流程
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}
