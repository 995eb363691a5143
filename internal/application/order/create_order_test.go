package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/shop/internal/domain/identifier"
	"github.com/xiebiao/shop/internal/domain/order"
	apperrors "github.com/xiebiao/shop/pkg/errors"
	"github.com/xiebiao/shop/pkg/metrics"
)

func sampleRequest() CreateOrderRequest {
	return CreateOrderRequest{
		UserID:  7,
		Address: order.Address{Province: "上海市", City: "上海市", ContactName: "张三"},
		Remark:  "工作日送货",
		Items: []CreateOrderItem{
			{ProductID: 1, ProductSkuID: 11, Amount: 2, Price: decimal.RequireFromString("19.90")},
			{ProductID: 2, ProductSkuID: 21, Amount: 1, Price: decimal.RequireFromString("0.20")},
		},
	}
}

func TestCreateOrder_Success(t *testing.T) {
	repo := newMemoryRepo()
	issuer := &scriptedIssuer{orderNos: []string{"20240101120000000001"}}
	uc := NewCreateOrderUseCase(repo, issuer, nil, nil, Config{InsertRetries: 3}, nil, nil)

	resp, err := uc.Execute(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "20240101120000000001", resp.No)
	assert.Equal(t, "40.00", resp.TotalAmount)
	assert.Equal(t, "pending", resp.RefundStatus)
	assert.Equal(t, "未退款", resp.RefundStatusLabel)
	assert.Equal(t, "未发货", resp.ShipStatusLabel)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "19.90", resp.Items[0].Price)
	assert.Equal(t, 1, repo.creates)
}

func TestCreateOrder_InvalidItems(t *testing.T) {
	issuer := &scriptedIssuer{orderNos: []string{"20240101120000000001"}}
	uc := NewCreateOrderUseCase(newMemoryRepo(), issuer, nil, nil, Config{}, nil, nil)

	req := sampleRequest()
	req.Items = nil

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, order.ErrInvalidOrderItems)
	assert.Zero(t, issuer.calls, "参数错误时不发放号码")
}

func TestCreateOrder_RetriesOnConflict(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	repo := newMemoryRepo()
	require.NoError(t, repo.Create(context.Background(), &order.Order{No: "20240101120000000001"}))

	// 发放器认为"…01"可用，但写库时已被其他请求提交
	issuer := &scriptedIssuer{orderNos: []string{"20240101120000000001", "20240101120000000002"}}
	uc := NewCreateOrderUseCase(repo, issuer, nil, nil, Config{InsertRetries: 3}, nil, m)

	resp, err := uc.Execute(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "20240101120000000002", resp.No)
	assert.Equal(t, 2, issuer.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderInsertConflictsTotal.WithLabelValues(identifier.FieldOrderNo)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreatedTotal))
}

func TestCreateOrder_RetriesExhausted(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	repo := newMemoryRepo()
	require.NoError(t, repo.Create(context.Background(), &order.Order{No: "20240101120000000001"}))

	issuer := &scriptedIssuer{orderNos: []string{"20240101120000000001"}}
	uc := NewCreateOrderUseCase(repo, issuer, nil, nil, Config{InsertRetries: 3}, nil, m)

	_, err := uc.Execute(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, order.ErrOrderNoConflict)
	assert.Equal(t, 4, issuer.calls, "首次 + 3次重试")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersFailedTotal))
}

func TestCreateOrder_IssuerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"号码耗尽", identifier.ErrOrderNoExhausted},
		{"存储不可用", apperrors.WithCause(identifier.ErrStoreUnavailable, errors.New("i/o timeout"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepo()
			issuer := &scriptedIssuer{err: tt.err}
			uc := NewCreateOrderUseCase(repo, issuer, nil, nil, Config{InsertRetries: 3}, nil, nil)

			_, err := uc.Execute(context.Background(), sampleRequest())
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, issuer.calls, "发放失败不重试")
			assert.Zero(t, repo.creates)
		})
	}
}

func TestCreateOrder_Reservation(t *testing.T) {
	repo := newMemoryRepo()
	reserver := newMemoryReserver()
	_, err := reserver.Reserve(context.Background(), identifier.FieldOrderNo, "20240101120000000001")
	require.NoError(t, err)

	issuer := &scriptedIssuer{orderNos: []string{"20240101120000000001", "20240101120000000002"}}
	uc := NewCreateOrderUseCase(repo, issuer, reserver, nil, Config{InsertRetries: 3, Timeout: time.Second}, nil, nil)

	resp, err := uc.Execute(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "20240101120000000002", resp.No, "已被占位的号码视为冲突")
	assert.Equal(t, 1, repo.creates, "占位失败时不写库")
	assert.True(t, reserver.reserved["no:20240101120000000001"], "其他请求的占位不受影响")
	assert.False(t, reserver.reserved["no:20240101120000000002"], "写库成功后释放占位")
}

func TestCreateOrder_ReservationCompensated(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = apperrors.WithCause(apperrors.ErrDatabaseError, errors.New("deadlock"))
	reserver := newMemoryReserver()

	issuer := &scriptedIssuer{orderNos: []string{"20240101120000000001"}}
	uc := NewCreateOrderUseCase(repo, issuer, reserver, nil, Config{InsertRetries: 3}, nil, nil)

	_, err := uc.Execute(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
	assert.Equal(t, 1, issuer.calls, "非冲突错误不重试")
	assert.Equal(t, []string{"no:20240101120000000001"}, reserver.released, "写库失败时补偿释放占位")
	assert.Empty(t, reserver.reserved)
}

func TestCreateOrder_PublishesEvent(t *testing.T) {
	publisher := &recordingPublisher{}
	issuer := &scriptedIssuer{orderNos: []string{"20240101120000000001"}}
	uc := NewCreateOrderUseCase(newMemoryRepo(), issuer, nil, publisher, Config{}, nil, nil)

	_, err := uc.Execute(context.Background(), sampleRequest())
	require.NoError(t, err)

	require.Equal(t, []string{order.EventOrderCreated}, publisher.keys)
	event, ok := publisher.events[0].(order.CreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "20240101120000000001", event.No)
	assert.Equal(t, uint(7), event.UserID)
	assert.Equal(t, "40.00", event.TotalAmount)
}

func TestCreateOrder_PublishFailureIgnored(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("channel/connection is not open")}
	issuer := &scriptedIssuer{orderNos: []string{"20240101120000000001"}}
	uc := NewCreateOrderUseCase(newMemoryRepo(), issuer, nil, publisher, Config{}, nil, nil)

	resp, err := uc.Execute(context.Background(), sampleRequest())
	require.NoError(t, err, "事件发布失败不影响下单")
	assert.Equal(t, "20240101120000000001", resp.No)
}

func TestCreateOrder_NoEventOnFailure(t *testing.T) {
	publisher := &recordingPublisher{}
	issuer := &scriptedIssuer{err: identifier.ErrOrderNoExhausted}
	uc := NewCreateOrderUseCase(newMemoryRepo(), issuer, nil, publisher, Config{}, nil, nil)

	_, err := uc.Execute(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Empty(t, publisher.keys)
}
