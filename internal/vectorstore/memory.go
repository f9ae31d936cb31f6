package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"docqa/internal/contextutil"
)

// MemoryStore implements VectorStore in process with brute-force cosine similarity.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	vectorSize int
	order      []uint64 // insertion order, used to break score ties
	points     map[uint64]memoryPoint
}

type memoryPoint struct {
	vec  []float32
	norm float64
	meta map[string]any
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// EnsureCollection creates the collection if needed and validates its vector size.
func (s *MemoryStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	if vectorSize <= 0 {
		return fmt.Errorf("invalid vector size %d", vectorSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[collection]; ok {
		if c.vectorSize != vectorSize {
			return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, c.vectorSize)
		}
		return nil
	}

	s.collections[collection] = &memoryCollection{
		vectorSize: vectorSize,
		points:     make(map[uint64]memoryPoint),
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "created memory collection", "collection", collection, "vector_size", vectorSize)
	return nil
}

// Upsert inserts or updates points in the collection.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}

	for _, p := range points {
		if len(p.Vec) != c.vectorSize {
			return fmt.Errorf("point %d has vector size %d, expected %d", p.ID, len(p.Vec), c.vectorSize)
		}
	}

	for _, p := range points {
		if _, exists := c.points[p.ID]; !exists {
			c.order = append(c.order, p.ID)
		}
		vec := make([]float32, len(p.Vec))
		copy(vec, p.Vec)
		c.points[p.ID] = memoryPoint{vec: vec, norm: norm(vec), meta: p.Meta}
	}
	return nil
}

// Search returns the k points with the highest cosine similarity to query.
func (s *MemoryStore) Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	if len(query) != c.vectorSize {
		return nil, fmt.Errorf("query has vector size %d, expected %d", len(query), c.vectorSize)
	}

	queryNorm := norm(query)
	results := make([]SearchResult, 0, len(c.order))
	for _, id := range c.order {
		p := c.points[id]
		results = append(results, SearchResult{
			PointID: id,
			Score:   cosine(query, queryNorm, p.vec, p.norm),
			Meta:    p.meta,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Delete removes points by their IDs.
func (s *MemoryStore) Delete(ctx context.Context, collection string, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}

	removed := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		if _, exists := c.points[id]; exists {
			delete(c.points, id)
			removed[id] = true
		}
	}

	order := c.order[:0]
	for _, id := range c.order {
		if !removed[id] {
			order = append(order, id)
		}
	}
	c.order = order
	return nil
}

// DropCollection deletes a collection. Dropping a missing collection is not an error.
func (s *MemoryStore) DropCollection(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, collection)
	return nil
}

// GetCollectionInfo returns information about a collection including point count.
func (s *MemoryStore) GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	return &CollectionInfo{
		VectorSize:  c.vectorSize,
		PointsCount: len(c.points),
		Status:      "green",
	}, nil
}

func norm(v []float32) float64 {
	sum := 0.0
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine returns 0 when either vector has zero length.
func cosine(a []float32, normA float64, b []float32, normB float64) float32 {
	if normA == 0 || normB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	sim := dot / (normA * normB)
	// Rounding can push the ratio slightly outside [-1, 1].
	return float32(math.Max(-1, math.Min(1, sim)))
}
