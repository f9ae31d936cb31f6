//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks docqa/internal/knowledge Embedder

// Package knowledge stores question/answer pairs in a vector index keyed by
// the embedding of each question.
package knowledge

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"docqa/internal/contextutil"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Config identifies the backing collection of a Store.
type Config struct {
	SessionID  string
	Collection string
	VectorSize int
	// Dedup suppresses pairs whose normalized question is already stored.
	Dedup bool
}

// Store is a session-scoped knowledge base. Add is serialized; Search may run concurrently.
type Store struct {
	cfg      Config
	embedder Embedder
	vectors  vectorstore.VectorStore
	faqs     storage.FAQStore

	mu     sync.Mutex // serializes writers
	nextID uint64
	size   atomic.Int64
}

// Open creates the backing collection and returns a Store over it.
func Open(ctx context.Context, cfg Config, embedder Embedder, vectors vectorstore.VectorStore, faqs storage.FAQStore) (*Store, error) {
	if err := vectors.EnsureCollection(ctx, cfg.Collection, cfg.VectorSize); err != nil {
		return nil, fmt.Errorf("%w: failed to ensure collection %s: %v", ErrUnavailable, cfg.Collection, err)
	}

	s := &Store{
		cfg:      cfg,
		embedder: embedder,
		vectors:  vectors,
		faqs:     faqs,
	}

	existing, err := faqs.ListBySession(ctx, cfg.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list stored pairs: %v", ErrUnavailable, err)
	}
	for _, rec := range existing {
		s.nextID = max(s.nextID, rec.ID+1)
	}
	s.size.Store(int64(len(existing)))

	return s, nil
}

// SessionID returns the session the store belongs to.
func (s *Store) SessionID() string {
	return s.cfg.SessionID
}

// Collection returns the name of the backing vector collection.
func (s *Store) Collection() string {
	return s.cfg.Collection
}

// Len returns the number of stored pairs.
func (s *Store) Len() int {
	return int(s.size.Load())
}

// Add assigns the next sequential ID to each pair, embeds its question, and
// stores it. It returns the stored pairs; with Dedup on, duplicates are skipped.
func (s *Store) Add(ctx context.Context, pairs []Pair) ([]Pair, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(pairs) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = NormalizeQuestion(p.Question)
	}

	accepted := make([]int, 0, len(pairs))
	if s.cfg.Dedup {
		existing, err := s.faqs.ExistingKeys(ctx, s.cfg.SessionID, keys)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to check duplicates: %v", ErrUnavailable, err)
		}
		seen := make(map[string]bool, len(keys))
		for i, key := range keys {
			if existing[key] || seen[key] {
				continue
			}
			seen[key] = true
			accepted = append(accepted, i)
		}
	} else {
		for i := range pairs {
			accepted = append(accepted, i)
		}
	}

	if len(accepted) == 0 {
		logger.InfoContext(ctx, "all pairs were duplicates", "session_id", s.cfg.SessionID, "pairs", len(pairs))
		return []Pair{}, nil
	}

	questions := make([]string, len(accepted))
	for i, idx := range accepted {
		questions[i] = pairs[idx].Question
	}

	vectors, err := s.embedder.EmbedTexts(ctx, questions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to embed questions: %v", ErrUnavailable, err)
	}
	if len(vectors) != len(questions) {
		return nil, fmt.Errorf("%w: embedding count mismatch: expected %d, got %d", ErrUnavailable, len(questions), len(vectors))
	}

	stored := make([]Pair, len(accepted))
	points := make([]vectorstore.Point, len(accepted))
	records := make([]*storage.FAQRecord, len(accepted))
	ids := make([]uint64, len(accepted))
	for i, idx := range accepted {
		id := s.nextID + uint64(i)
		ids[i] = id

		pair := pairs[idx]
		pair.ID = strconv.FormatUint(id, 10)
		stored[i] = pair

		points[i] = vectorstore.Point{
			ID:  id,
			Vec: vectors[i],
			Meta: map[string]any{
				"session_id": s.cfg.SessionID,
				"question":   pair.Question,
			},
		}
		records[i] = &storage.FAQRecord{
			SessionID:   s.cfg.SessionID,
			ID:          id,
			Question:    pair.Question,
			Answer:      pair.Answer,
			QuestionKey: keys[idx],
		}
	}

	if err := s.vectors.Upsert(ctx, s.cfg.Collection, points); err != nil {
		return nil, fmt.Errorf("%w: failed to upsert vectors: %v", ErrUnavailable, err)
	}

	if err := s.faqs.InsertBatch(ctx, records); err != nil {
		// Keep the index consistent with the pair table.
		if delErr := s.vectors.Delete(ctx, s.cfg.Collection, ids); delErr != nil {
			logger.WarnContext(ctx, "failed to remove vectors after insert failure", "collection", s.cfg.Collection, "error", delErr)
		}
		return nil, fmt.Errorf("%w: failed to store pairs: %v", ErrUnavailable, err)
	}

	s.nextID += uint64(len(accepted))
	s.size.Add(int64(len(accepted)))

	logger.InfoContext(ctx, "added pairs",
		"session_id", s.cfg.SessionID,
		"stored", len(stored),
		"duplicates", len(pairs)-len(stored),
		"total", s.Len(),
	)
	return stored, nil
}

// Search returns up to topK pairs ordered by descending similarity of their
// question to query. An empty store returns no results without calling any backend.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]ScoredPair, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if s.Len() == 0 || topK <= 0 {
		return []ScoredPair{}, nil
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to embed query: %v", ErrUnavailable, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned for query", ErrUnavailable)
	}

	hits, err := s.vectors.Search(ctx, s.cfg.Collection, vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search vectors: %v", ErrUnavailable, err)
	}
	if len(hits) == 0 {
		return []ScoredPair{}, nil
	}

	ids := make([]uint64, len(hits))
	for i, hit := range hits {
		ids[i] = hit.PointID
	}
	records, err := s.faqs.GetByIDs(ctx, s.cfg.SessionID, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load pairs: %v", ErrUnavailable, err)
	}

	results := make([]ScoredPair, 0, len(hits))
	for _, hit := range hits {
		rec, ok := records[hit.PointID]
		if !ok {
			logger.WarnContext(ctx, "vector hit without stored pair", "collection", s.cfg.Collection, "point_id", hit.PointID)
			continue
		}
		results = append(results, ScoredPair{
			Pair: Pair{
				ID:       strconv.FormatUint(rec.ID, 10),
				Question: rec.Question,
				Answer:   rec.Answer,
			},
			RelevanceScore: relevance(hit.Score),
		})
		if len(results) == topK {
			break
		}
	}

	logger.DebugContext(ctx, "knowledge search", "session_id", s.cfg.SessionID, "top_k", topK, "results", len(results))
	return results, nil
}

// Pairs returns every stored pair in ID order.
func (s *Store) Pairs(ctx context.Context) ([]Pair, error) {
	records, err := s.faqs.ListBySession(ctx, s.cfg.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list pairs: %v", ErrUnavailable, err)
	}

	pairs := make([]Pair, len(records))
	for i, rec := range records {
		pairs[i] = Pair{
			ID:       strconv.FormatUint(rec.ID, 10),
			Question: rec.Question,
			Answer:   rec.Answer,
		}
	}
	return pairs, nil
}

// IndexedCount returns the number of points in the backing collection.
func (s *Store) IndexedCount(ctx context.Context) (int, error) {
	info, err := s.vectors.GetCollectionInfo(ctx, s.cfg.Collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return info.PointsCount, nil
}

// Close drops the backing collection. The pair rows are removed with the session.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.vectors.DropCollection(ctx, s.cfg.Collection); err != nil {
		return fmt.Errorf("%w: failed to drop collection: %v", ErrUnavailable, err)
	}
	s.size.Store(0)
	return nil
}

// relevance maps cosine similarity in [-1, 1] to [0, 1].
func relevance(cosine float32) float64 {
	score := (float64(cosine) + 1) / 2
	return min(max(score, 0), 1)
}
