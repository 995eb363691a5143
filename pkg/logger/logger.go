// Package logger 基于zap构建结构化日志
//
// 设计说明：
// 1. 开发环境使用console编码（彩色、易读），生产环境使用json编码（便于采集）
// 2. 日志级别、输出位置来自配置文件的 log 段
// 3. 通过 context 传递带有 request_id 的子Logger
package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// New 根据配置创建zap.Logger
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if strings.EqualFold(cfg.Format, "console") {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableCaller = !cfg.EnableCaller
	if cfg.Output != "" {
		zc.OutputPaths = []string{cfg.Output}
	}

	return zc.Build()
}

// Nop 返回不输出任何内容的Logger（测试用）
func Nop() *zap.Logger {
	return zap.NewNop()
}

type loggerKey struct{}

// WithLogger 将Logger放入context
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext 从context取出Logger，没有则返回fallback
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}
