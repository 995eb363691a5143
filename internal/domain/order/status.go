package order

// RefundStatus 退款状态
// 设计说明：使用string类型，数据库中直接存储可读的状态值
type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "pending"    // 未退款
	RefundStatusApplied    RefundStatus = "applied"    // 已申请退款
	RefundStatusProcessing RefundStatus = "processing" // 退款中
	RefundStatusSuccess    RefundStatus = "success"    // 退款成功
	RefundStatusFailed     RefundStatus = "failed"     // 退款失败
)

// ShipStatus 物流状态
type ShipStatus string

const (
	ShipStatusPending   ShipStatus = "pending"   // 未发货
	ShipStatusDelivered ShipStatus = "delivered" // 已发货
	ShipStatusReceived  ShipStatus = "received"  // 已收货
)

// 状态 → 展示文案
// 教学要点：查找表在包初始化时构建一次，之后只读，多个goroutine并发读取是安全的
var (
	refundStatusLabels = map[RefundStatus]string{
		RefundStatusPending:    "未退款",
		RefundStatusApplied:    "已申请退款",
		RefundStatusProcessing: "退款中",
		RefundStatusSuccess:    "退款成功",
		RefundStatusFailed:     "退款失败",
	}

	shipStatusLabels = map[ShipStatus]string{
		ShipStatusPending:   "未发货",
		ShipStatusDelivered: "已发货",
		ShipStatusReceived:  "已收货",
	}

	// 固定的展示顺序（map遍历无序）
	refundStatusOrder = []RefundStatus{
		RefundStatusPending,
		RefundStatusApplied,
		RefundStatusProcessing,
		RefundStatusSuccess,
		RefundStatusFailed,
	}

	shipStatusOrder = []ShipStatus{
		ShipStatusPending,
		ShipStatusDelivered,
		ShipStatusReceived,
	}
)

// Valid 是否为已定义的状态
func (s RefundStatus) Valid() bool {
	_, ok := refundStatusLabels[s]
	return ok
}

// Label 展示文案
func (s RefundStatus) Label() string {
	if label, ok := refundStatusLabels[s]; ok {
		return label
	}
	return "未知状态"
}

// String 实现Stringer接口(方便日志输出)
func (s RefundStatus) String() string {
	return string(s)
}

// ParseRefundStatus 解析退款状态
func ParseRefundStatus(s string) (RefundStatus, error) {
	status := RefundStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Valid 是否为已定义的状态
func (s ShipStatus) Valid() bool {
	_, ok := shipStatusLabels[s]
	return ok
}

// Label 展示文案
func (s ShipStatus) Label() string {
	if label, ok := shipStatusLabels[s]; ok {
		return label
	}
	return "未知状态"
}

// String 实现Stringer接口
func (s ShipStatus) String() string {
	return string(s)
}

// ParseShipStatus 解析物流状态
func ParseShipStatus(s string) (ShipStatus, error) {
	status := ShipStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// StatusLabel 状态值与文案
type StatusLabel struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RefundStatusLabels 全部退款状态（固定顺序）
func RefundStatusLabels() []StatusLabel {
	labels := make([]StatusLabel, 0, len(refundStatusOrder))
	for _, s := range refundStatusOrder {
		labels = append(labels, StatusLabel{Value: string(s), Label: s.Label()})
	}
	return labels
}

// ShipStatusLabels 全部物流状态（固定顺序）
func ShipStatusLabels() []StatusLabel {
	labels := make([]StatusLabel, 0, len(shipStatusOrder))
	for _, s := range shipStatusOrder {
		labels = append(labels, StatusLabel{Value: string(s), Label: s.Label()})
	}
	return labels
}

func init() {
	// 顺序表与文案表必须一一对应，新增状态时漏改任何一处都会在启动时暴露
	if len(refundStatusOrder) != len(refundStatusLabels) || len(shipStatusOrder) != len(shipStatusLabels) {
		panic("order: status label tables out of sync")
	}
}
