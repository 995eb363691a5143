package order

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/shop/internal/domain/identifier"
	"github.com/xiebiao/shop/internal/domain/order"
	"github.com/xiebiao/shop/pkg/metrics"
	"github.com/xiebiao/shop/pkg/saga"
	"github.com/xiebiao/shop/pkg/tracing"
)

// Config 订单用例配置
type Config struct {
	// InsertRetries 唯一索引冲突后的重试次数（不含第一次）
	InsertRetries int
	// Timeout 单次占位+写库的整体超时，<=0表示不限制
	Timeout time.Duration
}

// CreateOrderUseCase 创建订单用例
// 教学要点:发放订单号只能"尽量"避免重复
//
// 竞争窗口:
//  1. 请求A发放号码X → 查询不存在
//  2. 请求B发放号码X → 查询也不存在(A还没写库)
//  3. A写库成功,B写库触发唯一索引冲突
//
// 处理方式:
//  1. (可选)发放后先在Redis中占位,B在占位时就会发现冲突
//  2. 数据库唯一索引兜底,冲突时重新发放号码,有限次重试
type CreateOrderUseCase struct {
	orderRepo order.Repository
	issuer    NumberIssuer
	reserver  Reserver       // 为nil时不占位
	publisher EventPublisher // 为nil时不发布事件
	cfg       Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	issuer NumberIssuer,
	reserver Reserver,
	publisher EventPublisher,
	cfg Config,
	logger *zap.Logger,
	m *metrics.Metrics,
) *CreateOrderUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateOrderUseCase{
		orderRepo: orderRepo,
		issuer:    issuer,
		reserver:  reserver,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
	}
}

// Execute 执行下单用例
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "order.create")
	defer span.End()

	o, err := uc.newOrder(req)
	if err != nil {
		return nil, err
	}

	attempts := uc.cfg.InsertRetries + 1
	for attempt := 1; ; attempt++ {
		err = uc.issueAndPersist(ctx, o)
		if err == nil {
			break
		}

		if !errors.Is(err, order.ErrOrderNoConflict) || attempt >= attempts {
			uc.metrics.OrderCreated(false)
			span.RecordError(err)
			span.SetStatus(codes.Error, "create order failed")
			return nil, err
		}

		uc.metrics.InsertConflict(identifier.FieldOrderNo)
		uc.logger.Warn("order no conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Uint("user_id", req.UserID),
		)
	}

	uc.metrics.OrderCreated(true)
	span.SetAttributes(attribute.String("order.no", o.No))
	uc.logger.Info("order created",
		zap.String("no", o.No),
		zap.Uint("user_id", o.UserID),
		zap.String("total_amount", o.TotalAmount.StringFixed(2)),
	)
	publishEvent(ctx, uc.publisher, uc.logger, order.EventOrderCreated, order.NewCreatedEvent(o))

	return toOrderResponse(o), nil
}

func (uc *CreateOrderUseCase) newOrder(req CreateOrderRequest) (*order.Order, error) {
	items := make([]order.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.OrderItem{
			ProductID:    item.ProductID,
			ProductSkuID: item.ProductSkuID,
			Amount:       item.Amount,
			Price:        item.Price,
		}
	}
	return order.NewOrder(req.UserID, req.Address, req.Remark, items)
}

// issueAndPersist 发放号码并写库
// 写库失败时订单号被清空，下一次重试重新发放
func (uc *CreateOrderUseCase) issueAndPersist(ctx context.Context, o *order.Order) error {
	no, err := uc.issuer.IssueOrderNumber(ctx)
	if err != nil {
		return err
	}
	if err := o.AssignNo(no); err != nil {
		return err
	}

	s := saga.New("create_order", uc.cfg.Timeout,
		saga.WithLogger(uc.logger),
		saga.WithMetrics(uc.metrics),
	)

	if uc.reserver != nil {
		s.AddStep("reserve_order_no",
			func(ctx context.Context) error {
				ok, err := uc.reserver.Reserve(ctx, identifier.FieldOrderNo, no)
				if err != nil {
					return err
				}
				if !ok {
					// 号码已被其他请求占位，按冲突处理
					return order.ErrOrderNoConflict
				}
				return nil
			},
			func(ctx context.Context) error {
				return uc.reserver.Release(ctx, identifier.FieldOrderNo, no)
			},
		)
	}

	s.AddStep("insert_order", func(ctx context.Context) error {
		return uc.orderRepo.Create(ctx, o)
	}, nil)

	if err := s.Execute(ctx); err != nil {
		o.ResetNo()
		return err
	}

	// 写库成功后号码已经对唯一性查询可见，占位可以提前释放
	if uc.reserver != nil {
		if err := uc.reserver.Release(context.WithoutCancel(ctx), identifier.FieldOrderNo, no); err != nil {
			uc.logger.Warn("release order no reservation failed", zap.Error(err))
		}
	}

	return nil
}

// publishEvent 尽力发布事件：订单已经落库，消息丢失由下游对账兜底
func publishEvent(ctx context.Context, p EventPublisher, logger *zap.Logger, routingKey string, event any) {
	if p == nil {
		return
	}
	if err := p.Publish(context.WithoutCancel(ctx), routingKey, event); err != nil {
		logger.Warn("publish order event failed",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
