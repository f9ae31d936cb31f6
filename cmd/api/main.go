package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docqa/internal/app"
	"docqa/internal/config"
	"docqa/internal/http"
	"docqa/internal/service"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API builds a question/answer knowledge base from uploaded documents and answers questions against it.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: docqa API
//   description: |
//     Upload txt, pdf, or md documents to extract FAQ pairs, then ask questions.
//     Greetings and arithmetic are handled without the knowledge base.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()

	// Fail fast on a misconfigured embedding model
	if err := a.ValidateEmbedder(ctx); err != nil {
		log.Fatalf("%v", err)
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)

	router := http.NewRouter(&http.Deps{
		QAService:        a.QA,
		KnowledgeService: a.Knowledge,
		UploadMaxBytes:   cfg.UploadMaxBytes,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	// Sessions do not outlive the process; drop the active collection.
	if err := a.Knowledge.Reset(shutdownCtx); err != nil && !errors.Is(err, service.ErrNotFound) {
		slog.Error("Failed to reset knowledge base", "error", err)
	}
}
