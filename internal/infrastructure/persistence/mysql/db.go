package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/shop/internal/domain/order"
	"github.com/xiebiao/shop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 按配置自动迁移表结构（唯一索引由迁移创建，是号码唯一性的最终保证）
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if cfg.Database.AutoMigrate {
		if err := autoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&OrderModel{},
		&OrderItemModel{},
	)
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多关系
// 2. no 与 refund_no 都有唯一索引，检查与写入之间的竞争最终由索引拦截
// 3. refund_no 未发放时为NULL：MySQL唯一索引允许多个NULL，但不允许多个空字符串
// 4. address / ship_data / extra 以JSON存储
type OrderModel struct {
	ID            uint             `gorm:"primaryKey"`
	No            string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID        uint             `gorm:"index;not null;comment:买家用户ID"`
	Address       order.Address    `gorm:"serializer:json;type:json;comment:收货地址快照"`
	TotalAmount   decimal.Decimal  `gorm:"type:decimal(10,2);not null;comment:订单总金额"`
	Remark        string           `gorm:"type:text;comment:备注"`
	PaidAt        *time.Time       `gorm:"comment:支付时间"`
	PaymentMethod string           `gorm:"size:32;comment:支付方式"`
	PaymentNo     string           `gorm:"size:64;comment:支付平台订单号"`
	RefundStatus  string           `gorm:"size:16;not null;default:pending;comment:退款状态"`
	RefundNo      *string          `gorm:"uniqueIndex;size:32;comment:退款单号"`
	Closed        bool             `gorm:"not null;default:false;comment:订单是否已关闭"`
	Reviewed      bool             `gorm:"not null;default:false;comment:订单是否已评价"`
	ShipStatus    string           `gorm:"size:16;not null;default:pending;comment:物流状态"`
	ShipData      *order.ShipData  `gorm:"serializer:json;type:json;comment:物流数据"`
	Extra         map[string]any   `gorm:"serializer:json;type:json;comment:其他额外数据"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt     time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 记录下单时的价格快照(Price字段)
type OrderItemModel struct {
	ID           uint            `gorm:"primaryKey"`
	OrderID      uint            `gorm:"index;not null;comment:订单ID"`
	ProductID    uint            `gorm:"index;not null;comment:商品ID"`
	ProductSkuID uint            `gorm:"index;not null;comment:商品SKU ID"`
	Amount       int             `gorm:"not null;comment:购买数量"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:下单时单价"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
