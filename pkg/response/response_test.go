package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/xiebiao/shop/pkg/errors"
	"github.com/xiebiao/shop/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{0, http.StatusOK},
		{apperrors.ErrCodeOrderNotFound, http.StatusNotFound},
		{apperrors.ErrCodeInvalidParams, http.StatusBadRequest},
		{apperrors.ErrCodeBindError, http.StatusBadRequest},
		{apperrors.ErrCodeRefundNoAssigned, http.StatusConflict},
		{apperrors.ErrCodeOrderNoConflict, http.StatusConflict},
		{apperrors.ErrCodeStoreUnavailable, http.StatusServiceUnavailable},
		{apperrors.ErrCodeOrderNoExhausted, http.StatusInternalServerError},
		{apperrors.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.code), "code=%d", tt.code)
	}
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"no": "20240101120000000001"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"no":"20240101120000000001"}}`, w.Body.String())
}

func TestError_HidesCause(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	c.Request = req.WithContext(logger.WithLogger(req.Context(), zap.New(core)))

	Error(c, apperrors.WithCause(apperrors.ErrDatabaseError, errors.New("dial tcp 10.0.0.3:3306: i/o timeout")))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.ErrCodeDatabaseError, resp.Code)
	assert.Equal(t, "数据库错误", resp.Message)

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "i/o timeout")
}

func TestError_PlainError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
