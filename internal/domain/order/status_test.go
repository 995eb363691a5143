package order

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundStatus_Label(t *testing.T) {
	tests := []struct {
		status RefundStatus
		want   string
	}{
		{RefundStatusPending, "未退款"},
		{RefundStatusApplied, "已申请退款"},
		{RefundStatusProcessing, "退款中"},
		{RefundStatusSuccess, "退款成功"},
		{RefundStatusFailed, "退款失败"},
		{RefundStatus("unknown"), "未知状态"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Label())
		})
	}
}

func TestShipStatus_Label(t *testing.T) {
	assert.Equal(t, "未发货", ShipStatusPending.Label())
	assert.Equal(t, "已发货", ShipStatusDelivered.Label())
	assert.Equal(t, "已收货", ShipStatusReceived.Label())
	assert.Equal(t, "未知状态", ShipStatus("lost").Label())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseRefundStatus("processing")
	require.NoError(t, err)
	assert.Equal(t, RefundStatusProcessing, s)

	_, err = ParseRefundStatus("PROCESSING")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	ship, err := ParseShipStatus("delivered")
	require.NoError(t, err)
	assert.Equal(t, ShipStatusDelivered, ship)

	_, err = ParseShipStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusLabels_Order(t *testing.T) {
	refund := RefundStatusLabels()
	require.Len(t, refund, 5)
	assert.Equal(t, StatusLabel{Value: "pending", Label: "未退款"}, refund[0])
	assert.Equal(t, StatusLabel{Value: "failed", Label: "退款失败"}, refund[4])

	ship := ShipStatusLabels()
	require.Len(t, ship, 3)
	assert.Equal(t, "received", ship[2].Value)

	// 返回副本，调用方修改不影响查找表
	refund[0].Label = "changed"
	assert.Equal(t, "未退款", RefundStatusPending.Label())
}

func TestStatusLabels_ConcurrentRead(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = RefundStatusSuccess.Label()
				_ = ShipStatusLabels()
			}
		}()
	}
	wg.Wait()
}
