package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCause(t *testing.T) {
	sentinel := New(ErrCodeStoreUnavailable, "存储不可用")
	cause := errors.New("dial tcp: connection refused")

	err := WithCause(sentinel, cause)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsAppError(err))

	appErr := GetAppError(err)
	assert.Equal(t, ErrCodeStoreUnavailable, appErr.Code)
	assert.Equal(t, "存储不可用", appErr.Message)
	require.NotNil(t, appErr.Err)
	assert.Contains(t, appErr.Err.Error(), "connection refused")
}

func TestGetAppError(t *testing.T) {
	t.Run("预定义错误原样返回", func(t *testing.T) {
		assert.Same(t, ErrOrderNotFound, GetAppError(ErrOrderNotFound))
	})

	t.Run("被fmt包装的AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("查询失败: %w", Wrap(errors.New("boom"), "数据库错误"))
		appErr := GetAppError(wrapped)
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.True(t, appErr.IsServerError())
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.EqualError(t, appErr, "[50000] 系统内部错误: boom")
	})
}
