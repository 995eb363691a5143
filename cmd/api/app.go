package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/shop/internal/infrastructure/config"
)

// App 组装完成的应用
type App struct {
	cfg      *config.Config
	log      *zap.Logger
	engine   *gin.Engine
	shutdown tracerShutdown
}

func newApp(cfg *config.Config, log *zap.Logger, engine *gin.Engine, shutdown tracerShutdown) *App {
	return &App{cfg: cfg, log: log, engine: engine, shutdown: shutdown}
}

// Run 启动HTTP服务，收到SIGINT/SIGTERM后优雅退出
// 教学要点：Shutdown会等待正在处理的请求完成（最多ShutdownTimeout）
func (a *App) Run() error {
	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      a.engine,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server started",
			zap.String("addr", srv.Addr),
			zap.String("mode", a.cfg.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := a.shutdown(ctx); err != nil {
		a.log.Warn("tracer shutdown failed", zap.Error(err))
	}

	a.log.Info("server exited")
	return nil
}
