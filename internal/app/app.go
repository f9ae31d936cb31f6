// Package app wires configuration into the running components shared by the
// API server and the command line tool.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"docqa/internal/config"
	"docqa/internal/indexer"
	"docqa/internal/knowledge"
	"docqa/internal/llm"
	"docqa/internal/prompts"
	"docqa/internal/rag"
	"docqa/internal/service"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// App holds the wired components.
type App struct {
	Config    *config.Config
	DB        *sql.DB
	Vectors   vectorstore.VectorStore
	Completer *llm.Client
	Embedder  *llm.EmbeddingsClient
	Prompts   *prompts.Set
	Pipeline  *indexer.Pipeline
	Engine    rag.Engine
	QA        service.QAService
	Knowledge service.KnowledgeService

	closers []func() error
}

// New opens storage, connects the vector backend, and builds the pipeline and services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config

	var err error
	a.Prompts, err = prompts.Load(cfg.PromptsFile)
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	a.DB, err = storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.closers = append(a.closers, a.DB.Close)

	if err := storage.Migrate(a.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.InfoContext(ctx, "Database initialized", "path", cfg.DBPath)

	switch cfg.VectorBackend {
	case config.VectorBackendQdrant:
		qdrant, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			return fmt.Errorf("failed to create Qdrant client: %w", err)
		}
		a.closers = append(a.closers, qdrant.Close)
		a.Vectors = qdrant
		slog.InfoContext(ctx, "Vector backend ready", "backend", cfg.VectorBackend, "url", cfg.QdrantURL)
	default:
		a.Vectors = vectorstore.NewMemoryStore()
		slog.InfoContext(ctx, "Vector backend ready", "backend", config.VectorBackendMemory)
	}

	a.Completer = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, cfg.LLMTemperature, cfg.LLMTimeout)
	a.Embedder = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.VectorSize, cfg.EmbeddingTimeout)

	extractor := indexer.NewExtractor(a.Completer, a.Prompts, cfg.LLMTimeout)
	a.Pipeline, err = indexer.NewPipeline(extractor,
		indexer.WithWindow(cfg.WindowSize, cfg.OverlapSize),
		indexer.WithConcurrency(cfg.ExtractConcurrency),
	)
	if err != nil {
		return fmt.Errorf("failed to create indexing pipeline: %w", err)
	}

	a.Engine = rag.NewEngine(a.Completer,
		rag.WithTopK(cfg.RetrievalTopK),
		rag.WithTimeout(cfg.LLMTimeout),
		rag.WithPrompts(a.Prompts),
	)

	a.QA = service.NewQAService(a.Engine)
	a.Knowledge = service.NewKnowledgeService(
		a.Pipeline,
		a.OpenStore,
		storage.NewSessionRepo(a.DB),
		a.Engine,
		a.Vectors,
	)

	return nil
}

// OpenStore opens the knowledge store of a session.
func (a *App) OpenStore(ctx context.Context, sessionID, collection string) (service.KnowledgeStore, error) {
	store, err := knowledge.Open(ctx, knowledge.Config{
		SessionID:  sessionID,
		Collection: collection,
		VectorSize: a.Config.VectorSize,
		Dedup:      a.Config.Dedup == config.DedupExact,
	}, a.Embedder, a.Vectors, storage.NewFAQRepo(a.DB))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ValidateEmbedder checks that the embedding service returns vectors of the configured size.
func (a *App) ValidateEmbedder(ctx context.Context) error {
	vecs, err := a.Embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		return fmt.Errorf("failed to validate embedding client: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) != a.Config.VectorSize {
		got := 0
		if len(vecs) > 0 {
			got = len(vecs[0])
		}
		return fmt.Errorf("embedding vector size mismatch: expected %d, got %d", a.Config.VectorSize, got)
	}
	return nil
}

// Close releases the database and vector backend in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
