package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iscout/scorekeeper/internal/config"
	"github.com/iscout/scorekeeper/internal/handler"
	"github.com/iscout/scorekeeper/internal/logger"
	"github.com/iscout/scorekeeper/internal/service"
	"github.com/iscout/scorekeeper/internal/session"
	"github.com/iscout/scorekeeper/internal/storage"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	store, err := storage.OpenSQLite(cfg.Storage.Path, appLogger)
	if err != nil {
		log.Fatalf("storage initialization failed: %v", err)
	}
	defer store.Close()

	keeper := storage.NewKeeper(store, appLogger)
	settingsSvc := service.NewSettingsService(keeper, appLogger)
	matchSvc := service.NewMatchService(keeper, session.Options{
		ExtraTimeSeconds: cfg.Match.ExtraTimeSeconds,
	}, appLogger)
	historySvc := service.NewHistoryService(keeper, time.Local, appLogger)

	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.Register(engine, store, settingsSvc, matchSvc, historySvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutting down")

	// Stop the live session's clock before the listener goes away.
	if err := matchSvc.CloseSession(); err != nil && !errors.Is(err, service.ErrNoSession) {
		appLogger.Warn().Err(err).Msg("session teardown failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
