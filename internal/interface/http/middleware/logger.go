package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/shop/pkg/logger"
	"github.com/xiebiao/shop/pkg/tracing"
)

// RequestIDHeader 请求ID头
const RequestIDHeader = "X-Request-ID"

// slowRequestThreshold 慢请求阈值
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
//
// 教学要点：
// 1. 记录每个请求的基本信息（方法、路径、耗时、状态码）
// 2. 上游传入X-Request-ID时沿用，否则生成新的
// 3. 带request_id的子Logger放入context，后续日志自动携带
//
// DON'T：
// - 记录敏感信息（手机号、地址）
// - 记录完整的请求体
func Logger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := c.Request.Context()
		log := base.With(zap.String("request_id", requestID))
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			log = log.With(zap.String("trace_id", traceID))
		}
		c.Request = c.Request.WithContext(logger.WithLogger(ctx, log))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("http request", fields...)
		case latency > slowRequestThreshold:
			log.Warn("slow http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}
