package knowledge

import "errors"

// ErrUnavailable is returned when the embedding service, vector index, or pair
// storage behind a Store fails.
var ErrUnavailable = errors.New("knowledge store unavailable")

// Pair is one question/answer pair. ID is assigned by the Store.
type Pair struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ScoredPair is a search hit. RelevanceScore is in [0, 1], higher is more similar.
type ScoredPair struct {
	Pair
	RelevanceScore float64 `json:"relevance_score"`
}
