package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/shop/internal/domain/identifier"
	"github.com/xiebiao/shop/internal/domain/order"
	apperrors "github.com/xiebiao/shop/pkg/errors"
)

// 允许做唯一性查询的列（白名单，列名不能来自外部输入）
var uniqueColumns = map[string]struct{}{
	identifier.FieldOrderNo:  {},
	identifier.FieldRefundNo: {},
}

// orderRepository 订单仓储实现(MySQL)
// 教学要点:
// 1. Order和OrderItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单
// 教学要点:
// 1. GORM会自动保存关联的Items(通过foreignKey)
// 2. 订单号唯一索引冲突返回 order.ErrOrderNoConflict，调用方重新发放号码后重试
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.WithCause(order.ErrOrderNoConflict, err)
		}
		return apperrors.WithCause(apperrors.ErrDatabaseError, err)
	}

	// 回填自增ID
	o.ID = model.ID
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByNo 根据订单号查找订单
func (r *orderRepository) FindByNo(ctx context.Context, no string) (*order.Order, error) {
	return r.findByNo(dbFrom(ctx, r.db), no)
}

// LockByNo 根据订单号查找并加排他锁
// 教学要点:FOR UPDATE只在事务内有意义，事务提交或回滚后锁释放
func (r *orderRepository) LockByNo(ctx context.Context, no string) (*order.Order, error) {
	return r.findByNo(dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), no)
}

func (r *orderRepository) findByNo(db *gorm.DB, no string) (*order.Order, error) {
	var model OrderModel

	// Preload("Items")会执行:
	// 1. SELECT * FROM orders WHERE no = ?
	// 2. SELECT * FROM order_items WHERE order_id = ?
	err := db.Preload("Items").Where("`no` = ?", no).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.WithCause(apperrors.ErrDatabaseError, err)
	}

	return toOrderEntity(&model), nil
}

// AssignRefundNo 条件更新：只有refund_no仍为NULL时才写入
// 教学要点:
// 1. WHERE refund_no IS NULL 让"检查+写入"成为一条原子语句，防止重复发放
// 2. RowsAffected == 0 时区分"订单不存在"与"已经有退款单号"
func (r *orderRepository) AssignRefundNo(ctx context.Context, id uint, refundNo string) error {
	db := dbFrom(ctx, r.db)

	result := db.Model(&OrderModel{}).
		Where("id = ? AND refund_no IS NULL", id).
		Update("refund_no", refundNo)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return apperrors.WithCause(order.ErrRefundNoConflict, result.Error)
		}
		return apperrors.WithCause(apperrors.ErrDatabaseError, result.Error)
	}

	if result.RowsAffected == 0 {
		var n int64
		if err := db.Model(&OrderModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return apperrors.WithCause(apperrors.ErrDatabaseError, err)
		}
		if n == 0 {
			return order.ErrOrderNotFound
		}
		return order.ErrRefundNoAssigned
	}

	return nil
}

// Exists 唯一性查询，实现identifier.Oracle
// 只读已提交的数据；与正在进行的写入之间的竞争由唯一索引兜底
func (r *orderRepository) Exists(ctx context.Context, field, value string) (bool, error) {
	if _, ok := uniqueColumns[field]; !ok {
		return false, fmt.Errorf("不支持唯一性查询的字段: %s", field)
	}

	var n int64
	err := dbFrom(ctx, r.db).Model(&OrderModel{}).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		Count(&n).Error
	if err != nil {
		return false, apperrors.WithCause(identifier.ErrStoreUnavailable, err)
	}

	return n > 0, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toOrderModel 领域实体 → GORM模型
func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:           item.ID,
			OrderID:      item.OrderID,
			ProductID:    item.ProductID,
			ProductSkuID: item.ProductSkuID,
			Amount:       item.Amount,
			Price:        item.Price,
		}
	}

	var refundNo *string
	if o.RefundNo != "" {
		refundNo = &o.RefundNo
	}

	return &OrderModel{
		ID:            o.ID,
		No:            o.No,
		UserID:        o.UserID,
		Address:       o.Address,
		TotalAmount:   o.TotalAmount,
		Remark:        o.Remark,
		PaidAt:        o.PaidAt,
		PaymentMethod: o.PaymentMethod,
		PaymentNo:     o.PaymentNo,
		RefundStatus:  string(o.RefundStatus),
		RefundNo:      refundNo,
		Closed:        o.Closed,
		Reviewed:      o.Reviewed,
		ShipStatus:    string(o.ShipStatus),
		ShipData:      o.ShipData,
		Extra:         o.Extra,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = order.OrderItem{
			ID:           item.ID,
			OrderID:      item.OrderID,
			ProductID:    item.ProductID,
			ProductSkuID: item.ProductSkuID,
			Amount:       item.Amount,
			Price:        item.Price,
		}
	}

	var refundNo string
	if model.RefundNo != nil {
		refundNo = *model.RefundNo
	}

	return &order.Order{
		ID:            model.ID,
		No:            model.No,
		UserID:        model.UserID,
		Address:       model.Address,
		TotalAmount:   model.TotalAmount,
		Remark:        model.Remark,
		PaidAt:        model.PaidAt,
		PaymentMethod: model.PaymentMethod,
		PaymentNo:     model.PaymentNo,
		RefundStatus:  order.RefundStatus(model.RefundStatus),
		RefundNo:      refundNo,
		Closed:        model.Closed,
		Reviewed:      model.Reviewed,
		ShipStatus:    order.ShipStatus(model.ShipStatus),
		ShipData:      model.ShipData,
		Extra:         model.Extra,
		Items:         items,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
