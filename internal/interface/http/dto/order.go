package dto

import (
	"github.com/shopspring/decimal"
)

// CreateOrderRequest HTTP下单请求
// validator tag说明:
// - required: 必填字段
// - dive: 对切片中的每个元素执行校验
type CreateOrderRequest struct {
	UserID  uint               `json:"user_id" binding:"required" example:"1"`
	Address AddressRequest     `json:"address"`
	Remark  string             `json:"remark" binding:"max=500" example:"工作日送货"`
	Items   []OrderItemRequest `json:"items" binding:"required,min=1,max=100,dive"`
}

// AddressRequest 收货地址
type AddressRequest struct {
	Province     string `json:"province" binding:"required,max=32" example:"上海市"`
	City         string `json:"city" binding:"required,max=32" example:"上海市"`
	District     string `json:"district" binding:"max=32" example:"浦东新区"`
	Address      string `json:"address" binding:"required,max=255" example:"世纪大道100号"`
	Zip          string `json:"zip" binding:"max=16" example:"200120"`
	ContactName  string `json:"contact_name" binding:"required,max=32" example:"张三"`
	ContactPhone string `json:"contact_phone" binding:"required,max=20" example:"13800138000"`
}

// OrderItemRequest 订单明细项
// 价格支持字符串或数字，字符串可以避免JSON数字精度问题
type OrderItemRequest struct {
	ProductID    uint            `json:"product_id" binding:"required" example:"1"`
	ProductSkuID uint            `json:"product_sku_id" binding:"required" example:"11"`
	Amount       int             `json:"amount" binding:"required,min=1,max=999" example:"2"`
	Price        decimal.Decimal `json:"price" swaggertype:"string" example:"19.90"`
}
