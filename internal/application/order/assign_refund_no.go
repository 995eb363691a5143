package order

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/shop/internal/domain/identifier"
	"github.com/xiebiao/shop/internal/domain/order"
	"github.com/xiebiao/shop/pkg/metrics"
	"github.com/xiebiao/shop/pkg/tracing"
)

// AssignRefundNoUseCase 为订单发放退款单号
// 教学要点:
// 1. SELECT ... FOR UPDATE 锁定订单行，同一订单的并发请求串行执行
// 2. 每个订单只发放一次，已有退款单号直接返回 ErrRefundNoAssigned
// 3. 退款单号唯一索引冲突时重新发放（128位随机空间下几乎不会发生）
type AssignRefundNoUseCase struct {
	orderRepo order.Repository
	issuer    NumberIssuer
	txManager TxManager
	publisher EventPublisher
	retries   int
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewAssignRefundNoUseCase 创建发放退款单号用例
func NewAssignRefundNoUseCase(
	orderRepo order.Repository,
	issuer NumberIssuer,
	txManager TxManager,
	publisher EventPublisher,
	cfg Config,
	logger *zap.Logger,
	m *metrics.Metrics,
) *AssignRefundNoUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignRefundNoUseCase{
		orderRepo: orderRepo,
		issuer:    issuer,
		txManager: txManager,
		publisher: publisher,
		retries:   cfg.InsertRetries,
		logger:    logger,
		metrics:   m,
	}
}

// Execute 执行
func (uc *AssignRefundNoUseCase) Execute(ctx context.Context, orderNo string) (*OrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "order.assign_refund_no")
	defer span.End()

	var result *order.Order
	for attempt := 1; ; attempt++ {
		err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
			o, err := uc.orderRepo.LockByNo(txCtx, orderNo)
			if err != nil {
				return err
			}
			if o.RefundNo != "" {
				return order.ErrRefundNoAssigned
			}

			refundNo, err := uc.issuer.IssueRefundToken(txCtx)
			if err != nil {
				return err
			}
			if err := o.AssignRefundNo(refundNo); err != nil {
				return err
			}
			if err := uc.orderRepo.AssignRefundNo(txCtx, o.ID, refundNo); err != nil {
				return err
			}

			result = o
			return nil
		})
		if err == nil {
			break
		}

		if !errors.Is(err, order.ErrRefundNoConflict) || attempt > uc.retries {
			span.RecordError(err)
			span.SetStatus(codes.Error, "assign refund no failed")
			return nil, err
		}

		uc.metrics.InsertConflict(identifier.FieldRefundNo)
		uc.logger.Warn("refund no conflict, retrying",
			zap.String("order_no", orderNo),
			zap.Int("attempt", attempt),
		)
	}

	uc.logger.Info("refund no assigned", zap.String("order_no", orderNo))
	publishEvent(ctx, uc.publisher, uc.logger, order.EventOrderRefundNoAssigned, order.RefundNoAssignedEvent{
		No:       result.No,
		RefundNo: result.RefundNo,
	})
	return toOrderResponse(result), nil
}
