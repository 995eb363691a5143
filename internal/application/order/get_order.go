package order

import (
	"context"

	"github.com/xiebiao/shop/internal/domain/order"
)

// GetOrderUseCase 查询订单详情
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建查询用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// Execute 根据订单号查询
func (uc *GetOrderUseCase) Execute(ctx context.Context, no string) (*OrderResponse, error) {
	o, err := uc.orderRepo.FindByNo(ctx, no)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// StatusLabels 退款/物流状态文案表
func StatusLabels() *StatusLabelsResponse {
	return &StatusLabelsResponse{
		RefundStatuses: order.RefundStatusLabels(),
		ShipStatuses:   order.ShipStatusLabels(),
	}
}
