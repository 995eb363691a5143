package order

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/shop/internal/domain/order"
)

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	UserID  uint
	Address order.Address
	Remark  string
	Items   []CreateOrderItem
}

// CreateOrderItem 订单明细项
type CreateOrderItem struct {
	ProductID    uint
	ProductSkuID uint
	Amount       int
	Price        decimal.Decimal
}

// OrderResponse 订单详情
// 说明：状态同时返回原始值和展示文案，前端不需要维护状态表
type OrderResponse struct {
	ID                uint                `json:"id"`
	No                string              `json:"no"`
	UserID            uint                `json:"user_id"`
	Address           order.Address       `json:"address"`
	TotalAmount       string              `json:"total_amount"`
	Remark            string              `json:"remark"`
	PaidAt            string              `json:"paid_at,omitempty"`
	RefundStatus      string              `json:"refund_status"`
	RefundStatusLabel string              `json:"refund_status_label"`
	RefundNo          string              `json:"refund_no,omitempty"`
	ShipStatus        string              `json:"ship_status"`
	ShipStatusLabel   string              `json:"ship_status_label"`
	ShipData          *order.ShipData     `json:"ship_data,omitempty"`
	Closed            bool                `json:"closed"`
	Reviewed          bool                `json:"reviewed"`
	Items             []OrderItemResponse `json:"items"`
	CreatedAt         string              `json:"created_at"`
}

// OrderItemResponse 订单明细
type OrderItemResponse struct {
	ProductID    uint   `json:"product_id"`
	ProductSkuID uint   `json:"product_sku_id"`
	Amount       int    `json:"amount"`
	Price        string `json:"price"`
}

// StatusLabelsResponse 状态文案表
type StatusLabelsResponse struct {
	RefundStatuses []order.StatusLabel `json:"refund_statuses"`
	ShipStatuses   []order.StatusLabel `json:"ship_statuses"`
}

const timeLayout = "2006-01-02 15:04:05"

// toOrderResponse 领域实体 → 应用层DTO
func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:    item.ProductID,
			ProductSkuID: item.ProductSkuID,
			Amount:       item.Amount,
			Price:        item.Price.StringFixed(2),
		}
	}

	resp := &OrderResponse{
		ID:                o.ID,
		No:                o.No,
		UserID:            o.UserID,
		Address:           o.Address,
		TotalAmount:       o.TotalAmount.StringFixed(2),
		Remark:            o.Remark,
		RefundStatus:      o.RefundStatus.String(),
		RefundStatusLabel: o.RefundStatus.Label(),
		RefundNo:          o.RefundNo,
		ShipStatus:        o.ShipStatus.String(),
		ShipStatusLabel:   o.ShipStatus.Label(),
		ShipData:          o.ShipData,
		Closed:            o.Closed,
		Reviewed:          o.Reviewed,
		Items:             items,
		CreatedAt:         o.CreatedAt.Format(timeLayout),
	}
	if o.PaidAt != nil {
		resp.PaidAt = o.PaidAt.Format(timeLayout)
	}
	return resp
}
