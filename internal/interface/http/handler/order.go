package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/shop/internal/application/order"
	"github.com/xiebiao/shop/internal/domain/identifier"
	"github.com/xiebiao/shop/internal/domain/order"
	"github.com/xiebiao/shop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/shop/pkg/errors"
	"github.com/xiebiao/shop/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createOrderUseCase    *apporder.CreateOrderUseCase
	getOrderUseCase       *apporder.GetOrderUseCase
	assignRefundNoUseCase *apporder.AssignRefundNoUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
	assignRefundNoUseCase *apporder.AssignRefundNoUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase:    createOrderUseCase,
		getOrderUseCase:       getOrderUseCase,
		assignRefundNoUseCase: assignRefundNoUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  计算总金额、发放订单号并写库；订单号冲突时自动重新发放
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateOrderRequest true "订单信息"
// @Success      200 {object} response.Response{data=apporder.OrderResponse} "下单成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "订单号冲突（重试耗尽）"
// @Failure      500 {object} response.Response "订单号生成失败"
// @Failure      503 {object} response.Response "存储服务暂不可用"
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{
			ProductID:    item.ProductID,
			ProductSkuID: item.ProductSkuID,
			Amount:       item.Amount,
			Price:        item.Price,
		}
	}

	result, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID: req.UserID,
		Address: order.Address{
			Province:     req.Address.Province,
			City:         req.Address.City,
			District:     req.Address.District,
			Address:      req.Address.Address,
			Zip:          req.Address.Zip,
			ContactName:  req.Address.ContactName,
			ContactPhone: req.Address.ContactPhone,
		},
		Remark: req.Remark,
		Items:  items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetOrder 查询订单详情
// @Summary      查询订单
// @Tags         订单模块
// @Produce      json
// @Param        no path string true "订单号" example(20240101120000000003)
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      400 {object} response.Response "订单号格式错误"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{no} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	no := c.Param("no")
	if !identifier.IsOrderNo(no) {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单号格式错误")
		return
	}

	result, err := h.getOrderUseCase.Execute(c.Request.Context(), no)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AssignRefundNo 发放退款单号
// @Summary      发放退款单号
// @Description  每个订单只发放一次，已有退款单号时返回409
// @Tags         订单模块
// @Produce      json
// @Param        no path string true "订单号"
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "订单已生成退款单号"
// @Router       /orders/{no}/refund-no [post]
func (h *OrderHandler) AssignRefundNo(c *gin.Context) {
	no := c.Param("no")
	if !identifier.IsOrderNo(no) {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "订单号格式错误")
		return
	}

	result, err := h.assignRefundNoUseCase.Execute(c.Request.Context(), no)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// StatusLabels 状态文案表
// @Summary      退款/物流状态文案
// @Tags         订单模块
// @Produce      json
// @Success      200 {object} response.Response{data=apporder.StatusLabelsResponse}
// @Router       /order-statuses [get]
func (h *OrderHandler) StatusLabels(c *gin.Context) {
	response.Success(c, apporder.StatusLabels())
}
