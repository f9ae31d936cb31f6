package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docqa/internal/vectorstore VectorStore

import (
	"context"
	"errors"
)

// ErrCollectionNotFound is returned when an operation targets a collection that does not exist.
var ErrCollectionNotFound = errors.New("collection not found")

// Point represents a vector point with metadata.
type Point struct {
	ID   uint64
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
// Score is the cosine similarity in [-1, 1].
type SearchResult struct {
	PointID uint64
	Score   float32
	Meta    map[string]any
}

// CollectionInfo contains information about a collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// EnsureCollection creates the collection if needed and validates its vector size.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the k points most similar to query, best first.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []uint64) error

	// DropCollection deletes the collection and all of its points.
	DropCollection(ctx context.Context, collection string) error

	// GetCollectionInfo returns the vector size and point count of a collection.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
