package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"duty-calendar/internal/config"
	"duty-calendar/internal/logger"
	"duty-calendar/internal/render"
	"duty-calendar/internal/schedule"
	"duty-calendar/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config failed: %v", err)
	}

	zl, err := logger.New(cfg.Log, "api")
	if err != nil {
		log.Fatalf("Logger failed: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := store.Open(ctx, cfg.Source, cfg.Database)
	if err != nil {
		zl.Fatal("open record source", zap.String("kind", cfg.Source.Kind), zap.Error(err))
	}
	defer source.Close()

	srv := newServer(cfg,
		schedule.NewEngine(source, cfg.Calendar, zl),
		render.New(cfg.Render, zl),
		zl,
	)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	zl.Info("calendar server started", zap.Int("port", cfg.Server.Port), zap.String("source", cfg.Source.Kind))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("server failed", zap.Error(err))
	}
	zl.Info("calendar server stopped")
}
