package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"legalrag-backend/bootstrap"
	"legalrag-backend/handlers"
	"legalrag-backend/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close()
	logger := app.Logger

	if err := repository.CheckReady(ctx, app.Weaviate); err != nil {
		logger.Warn("Vector store not ready at startup", zap.Error(err))
	}

	if cfg.Log.Format != "console" {
		gin.SetMode(gin.ReleaseMode)
	}

	routerCfg := handlers.RouterConfig{
		Documents: handlers.NewDocumentHandler(app.Ingestion, cfg.MaxDocumentBytes(), logger.Named("http")),
		Queries:   handlers.NewQueryHandler(app.Queries, logger.Named("http")),
		Admin:     handlers.NewAdminHandler(app.Schema, logger.Named("http")),
		Gatherer:  app.Registry,
		Logger:    logger.Named("auth"),
	}
	switch {
	case cfg.Server.RequireAuth && app.Users != nil:
		routerCfg.Users = app.Users
	case cfg.Server.RequireAuth:
		logger.Fatal("REQUIRE_AUTH is set but no DATABASE_URL is configured for API users")
	default:
		logger.Warn("API authentication disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handlers.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
