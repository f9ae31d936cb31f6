package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingester.go -package=mocks docqa/internal/service Ingester
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_knowledge_store.go -package=mocks docqa/internal/service KnowledgeStore
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_knowledge_setter.go -package=mocks docqa/internal/service KnowledgeSetter
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_pinger.go -package=mocks docqa/internal/service Pinger
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_knowledge_service.go -package=mocks -mock_names=KnowledgeService=MockKnowledgeService docqa/internal/service KnowledgeService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docqa/internal/contextutil"
	"docqa/internal/indexer"
	"docqa/internal/knowledge"
	"docqa/internal/rag"
	"docqa/internal/storage"
)

// Ingester extracts pairs from text and adds them to a store. indexer.Pipeline implements it.
type Ingester interface {
	Ingest(ctx context.Context, text string, store indexer.PairStore) ([]knowledge.Pair, *indexer.IngestStats, error)
}

// KnowledgeStore is a session's pair store. knowledge.Store implements it.
type KnowledgeStore interface {
	rag.KnowledgeBase
	Add(ctx context.Context, pairs []knowledge.Pair) ([]knowledge.Pair, error)
	Pairs(ctx context.Context) ([]knowledge.Pair, error)
	Close(ctx context.Context) error
}

// StoreOpener opens the pair store backing a session's collection.
type StoreOpener func(ctx context.Context, sessionID, collection string) (KnowledgeStore, error)

// KnowledgeSetter receives the current knowledge base. rag.Engine implements it.
type KnowledgeSetter interface {
	SetKnowledge(kb rag.KnowledgeBase)
}

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IngestRequest is one uploaded document after text extraction.
type IngestRequest struct {
	Filename string
	Kind     string
	Text     string
}

// IngestResult describes a completed upload.
type IngestResult struct {
	SessionID  string               `json:"session_id"`
	NewSession bool                 `json:"new_session"`
	Filename   string               `json:"filename"`
	Kind       string               `json:"kind"`
	TotalPairs int                  `json:"total_pairs"`
	Stats      *indexer.IngestStats `json:"stats"`
}

// Status describes the current knowledge base.
type Status struct {
	Ready      bool                `json:"ready"`
	SessionID  string              `json:"session_id,omitempty"`
	Collection string              `json:"collection,omitempty"`
	PairCount  int                 `json:"pair_count"`
	CreatedAt  *time.Time          `json:"created_at,omitempty"`
	Documents  []*storage.Document `json:"documents,omitempty"`
}

// KnowledgeService manages the session-scoped knowledge base.
type KnowledgeService interface {
	// Ingest extracts pairs from a document and adds them to the current
	// session, creating the session on the first successful extraction.
	Ingest(ctx context.Context, req IngestRequest) (IngestResult, error)
	// Status reports readiness and size of the current session.
	Status(ctx context.Context) (Status, error)
	// FAQs lists the stored pairs of the current session.
	FAQs(ctx context.Context) ([]knowledge.Pair, error)
	// Reset destroys the current session and its store.
	Reset(ctx context.Context) error
	// Health checks the vector backend.
	Health(ctx context.Context) error
}

// knowledgeService implements KnowledgeService.
type knowledgeService struct {
	ingester Ingester
	open     StoreOpener
	sessions storage.SessionStore
	setter   KnowledgeSetter
	backend  Pinger
	newID    func() string

	ingestMu sync.Mutex // serializes uploads and resets

	mu      sync.RWMutex
	session *storage.Session
	store   KnowledgeStore
}

// NewKnowledgeService creates a new KnowledgeService.
func NewKnowledgeService(ingester Ingester, open StoreOpener, sessions storage.SessionStore, setter KnowledgeSetter, backend Pinger) KnowledgeService {
	return &knowledgeService{
		ingester: ingester,
		open:     open,
		sessions: sessions,
		setter:   setter,
		backend:  backend,
		newID:    func() string { return uuid.New().String() },
	}
}

// CollectionName returns the vector collection of a session.
func CollectionName(sessionID string) string {
	return "faq_" + strings.ReplaceAll(sessionID, "-", "")
}

// current returns the active session and store, if any.
func (s *knowledgeService) current() (*storage.Session, KnowledgeStore) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.store
}

// Ingest processes one document.
func (s *knowledgeService) Ingest(ctx context.Context, req IngestRequest) (IngestResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Text) == "" {
		logger.WarnContext(ctx, "document has no text", "filename", req.Filename)
		return IngestResult{}, &ValidationError{
			Field:   "file",
			Message: "document contains no text",
		}
	}

	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	_, existing := s.current()
	target := &sessionTarget{svc: s}

	logger.InfoContext(ctx, "ingesting document", "filename", req.Filename, "kind", req.Kind, "bytes", len(req.Text))
	_, stats, err := s.ingester.Ingest(ctx, req.Text, target)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return IngestResult{}, WrapError(err, "ingest cancelled")
		}
		logger.ErrorContext(ctx, "failed to ingest document", "filename", req.Filename, "error", err)
		return IngestResult{}, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	if stats.PairsExtracted == 0 {
		logger.WarnContext(ctx, "no pairs extracted", "filename", req.Filename, "windows", stats.Windows, "windows_failed", stats.WindowsFailed)
		return IngestResult{}, WrapError(ErrNoPairs, req.Filename)
	}

	session, store := s.current()
	if session == nil {
		return IngestResult{}, fmt.Errorf("%w: no session after ingest", ErrExternalService)
	}

	doc := &storage.Document{
		SessionID:   session.ID,
		Filename:    req.Filename,
		Kind:        req.Kind,
		Runes:       stats.DocumentRunes,
		Windows:     stats.Windows,
		PairsStored: stats.PairsStored,
	}
	if err := s.sessions.AddDocument(ctx, doc); err != nil {
		// The pairs are already searchable; the document row is bookkeeping.
		logger.WarnContext(ctx, "failed to record document", "session_id", session.ID, "error", err)
	}

	logger.InfoContext(ctx, "document ingested",
		"session_id", session.ID,
		"filename", req.Filename,
		"windows", stats.Windows,
		"pairs_stored", stats.PairsStored,
		"total_pairs", store.Len(),
	)

	return IngestResult{
		SessionID:  session.ID,
		NewSession: existing == nil,
		Filename:   req.Filename,
		Kind:       req.Kind,
		TotalPairs: store.Len(),
		Stats:      stats,
	}, nil
}

// sessionTarget is the PairStore handed to the ingester. It creates the
// session on the first non-empty Add.
type sessionTarget struct {
	svc *knowledgeService
}

func (t *sessionTarget) Add(ctx context.Context, pairs []knowledge.Pair) ([]knowledge.Pair, error) {
	store, err := t.svc.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	return store.Add(ctx, pairs)
}

// ensureSession returns the current store, creating a session if none exists.
// Callers hold ingestMu.
func (s *knowledgeService) ensureSession(ctx context.Context) (KnowledgeStore, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if _, store := s.current(); store != nil {
		return store, nil
	}

	id := s.newID()
	session := &storage.Session{ID: id, Collection: CollectionName(id)}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, WrapError(err, "failed to create session")
	}

	store, err := s.open(ctx, session.ID, session.Collection)
	if err != nil {
		if delErr := s.sessions.Delete(ctx, session.ID); delErr != nil {
			logger.WarnContext(ctx, "failed to remove session after open failure", "session_id", session.ID, "error", delErr)
		}
		return nil, WrapError(err, "failed to open knowledge store")
	}

	if created, err := s.sessions.Get(ctx, session.ID); err == nil {
		session = created
	}

	s.mu.Lock()
	s.session = session
	s.store = store
	s.mu.Unlock()
	s.setter.SetKnowledge(store)

	logger.InfoContext(ctx, "session created", "session_id", session.ID, "collection", session.Collection)
	return store, nil
}

// Status reports the current session.
func (s *knowledgeService) Status(ctx context.Context) (Status, error) {
	session, store := s.current()
	if session == nil {
		return Status{}, nil
	}

	docs, err := s.sessions.ListDocuments(ctx, session.ID)
	if err != nil {
		return Status{}, WrapError(err, "failed to list documents")
	}

	createdAt := session.CreatedAt
	return Status{
		Ready:      store.Len() > 0,
		SessionID:  session.ID,
		Collection: session.Collection,
		PairCount:  store.Len(),
		CreatedAt:  &createdAt,
		Documents:  docs,
	}, nil
}

// FAQs lists the current session's pairs.
func (s *knowledgeService) FAQs(ctx context.Context) ([]knowledge.Pair, error) {
	_, store := s.current()
	if store == nil {
		return []knowledge.Pair{}, nil
	}

	pairs, err := store.Pairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	return pairs, nil
}

// Reset destroys the current session. It returns ErrNotFound when there is none.
func (s *knowledgeService) Reset(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	session, store := s.current()
	if session == nil {
		return WrapError(ErrNotFound, "no active session")
	}

	s.setter.SetKnowledge(nil)
	s.mu.Lock()
	s.session = nil
	s.store = nil
	s.mu.Unlock()

	var errs []error
	if err := store.Close(ctx); err != nil {
		errs = append(errs, WrapError(err, "failed to drop collection"))
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		errs = append(errs, WrapError(err, "failed to delete session"))
	}
	if err := errors.Join(errs...); err != nil {
		logger.ErrorContext(ctx, "session reset incomplete", "session_id", session.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	logger.InfoContext(ctx, "session reset", "session_id", session.ID)
	return nil
}

// Health pings the vector backend.
func (s *knowledgeService) Health(ctx context.Context) error {
	if err := s.backend.Ping(ctx); err != nil {
		return fmt.Errorf("%w: vector backend: %v", ErrExternalService, err)
	}
	return nil
}
