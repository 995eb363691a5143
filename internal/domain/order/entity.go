package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address 收货地址快照
// 教学要点：下单时复制一份地址，用户之后修改地址簿不影响历史订单
type Address struct {
	Province     string `json:"province"`
	City         string `json:"city"`
	District     string `json:"district"`
	Address      string `json:"address"`
	Zip          string `json:"zip"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
}

// ShipData 物流信息
type ShipData struct {
	ExpressCompany string `json:"express_company"`
	ExpressNo      string `json:"express_no"`
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. No是业务主键，由identifier.Issuer发放，写入后不可修改
// 2. RefundNo在需要退款时才发放，未发放时为空字符串
// 3. 金额使用decimal，避免浮点误差
type Order struct {
	ID            uint
	No            string
	UserID        uint
	Address       Address
	TotalAmount   decimal.Decimal
	Remark        string
	PaidAt        *time.Time
	PaymentMethod string
	PaymentNo     string
	RefundStatus  RefundStatus
	RefundNo      string
	Closed        bool
	Reviewed      bool
	ShipStatus    ShipStatus
	ShipData      *ShipData
	Extra         map[string]any
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem 订单明细项
// Price记录下单时的单价快照
type OrderItem struct {
	ID           uint
	OrderID      uint
	ProductID    uint
	ProductSkuID uint
	Amount       int
	Price        decimal.Decimal
}

// NewOrder 创建新订单(工厂方法)
// 教学要点:
// 1. 订单号不在这里生成：调用方先发放号码，再调用AssignNo，最后持久化
// 2. 初始状态：未退款、未发货、未关闭、未评价
// 3. 总金额由明细计算，不信任外部传入的金额
func NewOrder(userID uint, address Address, remark string, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrderItems
	}
	for _, item := range items {
		if item.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
		if item.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
	}

	now := time.Now()
	o := &Order{
		UserID:       userID,
		Address:      address,
		Remark:       remark,
		RefundStatus: RefundStatusPending,
		ShipStatus:   ShipStatusPending,
		Items:        items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	o.TotalAmount = o.CalculateTotal()
	return o, nil
}

// AssignNo 写入订单号
// 订单号一旦写入不可修改；写库因唯一索引冲突失败时，调用方应通过ResetNo清空后重新发放
func (o *Order) AssignNo(no string) error {
	if o.No != "" {
		return ErrOrderNoAssigned
	}
	o.No = no
	return nil
}

// ResetNo 清空尚未持久化的订单号（仅用于写入冲突后的重试）
func (o *Order) ResetNo() {
	if o.ID == 0 {
		o.No = ""
	}
}

// AssignRefundNo 写入退款单号，每个订单只能发放一次
func (o *Order) AssignRefundNo(refundNo string) error {
	if o.RefundNo != "" {
		return ErrRefundNoAssigned
	}
	o.RefundNo = refundNo
	o.UpdatedAt = time.Now()
	return nil
}

// CalculateTotal 计算订单总金额 = Σ 单价 × 数量
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Amount))))
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
