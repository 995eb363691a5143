package order

import "time"

// 订单事件的routing key
const (
	EventOrderCreated          = "order.created"
	EventOrderRefundNoAssigned = "order.refund_no_assigned"
)

// CreatedEvent 订单创建成功
type CreatedEvent struct {
	No          string    `json:"no"`
	UserID      uint      `json:"user_id"`
	TotalAmount string    `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// RefundNoAssignedEvent 订单已发放退款单号
type RefundNoAssignedEvent struct {
	No       string `json:"no"`
	RefundNo string `json:"refund_no"`
}

// NewCreatedEvent 由已写库的订单构造事件
func NewCreatedEvent(o *Order) CreatedEvent {
	return CreatedEvent{
		No:          o.No,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		CreatedAt:   o.CreatedAt,
	}
}
