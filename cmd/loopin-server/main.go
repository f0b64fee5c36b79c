// Package main provides the HTTP API server for Loopin.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loopinhq/loopin-go/internal/config"
	"github.com/loopinhq/loopin-go/internal/db"
	"github.com/loopinhq/loopin-go/internal/llm"
	"github.com/loopinhq/loopin-go/internal/metrics"
	"github.com/loopinhq/loopin-go/internal/server"
	"github.com/loopinhq/loopin-go/internal/service"
)

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all data from database on startup (testing only)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = cleanup() }()
	slog.SetDefault(logger)

	logger.Info("starting loopin-server", "port", cfg.Port, "llm_provider", cfg.LLMProvider, "llm_model", cfg.LLMModel)

	mc := metrics.NewCollector()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger, mc)
	if err != nil {
		cancel()
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := dbClient.InitSchema(ctx); err != nil {
		cancel()
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	if *wipeDB || os.Getenv("LOOPIN_WIPE_DB") == "true" {
		if err := dbClient.WipeData(ctx); err != nil {
			cancel()
			logger.Error("failed to wipe database", "error", err)
			os.Exit(1)
		}
	}
	cancel()

	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	model, err := llm.NewModel(cfg, mc)
	if err != nil {
		logger.Error("failed to create LLM model", "error", err)
		os.Exit(1)
	}

	// Transcription needs an OpenAI key even when chat runs on another
	// provider; the voice endpoint reports unavailable without one.
	var transcriber server.Transcriber
	if t, err := llm.NewTranscriber(cfg, mc); err != nil {
		logger.Warn("transcription disabled", "error", err)
	} else {
		transcriber = t
	}

	srv := server.New(server.Deps{
		Chat:        service.NewChatService(dbClient, model, logger),
		Plans:       service.NewPlanService(dbClient, model, logger),
		Scores:      service.NewScoreService(dbClient, model, logger),
		Projects:    service.NewProjectService(dbClient, logger),
		Transcriber: transcriber,
		Metrics:     mc,
		Logger:      logger,
	})

	httpServer := srv.HTTPServer(cfg.Port)

	go func() {
		logger.Info("API available", "url", "http://localhost:"+cfg.Port+"/api/v1")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
