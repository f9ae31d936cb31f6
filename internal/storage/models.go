package storage

import "time"

// Session is one knowledge base lifetime: created by the first successful upload,
// removed on reset.
type Session struct {
	ID         string // UUID
	Collection string // Vector collection backing the session
	CreatedAt  time.Time
}

// Document records one uploaded file ingested into a session.
type Document struct {
	ID          int64
	SessionID   string
	Filename    string
	Kind        string // txt, pdf, md
	Runes       int    // Document length in runes
	Windows     int    // Windows extracted
	PairsStored int    // Pairs added to the store
	CreatedAt   time.Time
}

// FAQRecord is the stored text of a question/answer pair.
// ID matches the vector point ID.
type FAQRecord struct {
	SessionID   string
	ID          uint64
	Question    string
	Answer      string
	QuestionKey string // Normalized question used for duplicate detection
	CreatedAt   time.Time
}
