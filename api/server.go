package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ScreenWatch/api/config"
	"ScreenWatch/api/controllers"
	"ScreenWatch/api/logx"
	"ScreenWatch/api/middlewares"

	"go.uber.org/zap"
)

var server = controllers.Server{}

func Run() {
	cfg := config.Load()

	if err := logx.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		logx.L().Warnf("logger init failed, keeping defaults: %v", err)
	}
	defer func() { _ = logx.Sync() }()
	log := logx.GetScope("server")

	server.Initialize(cfg)

	janitor, err := middlewares.StartLimiterJanitor(cfg.Limiter.JanitorSpec, cfg.Limiter.MaxIdle)
	if err != nil {
		log.Warn("rate limiter janitor not started", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if janitor != nil {
		<-janitor.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
