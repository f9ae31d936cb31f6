package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_session_store.go -package=mocks docqa/internal/storage SessionStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// SessionStore defines the interface for session and document storage operations.
type SessionStore interface {
	// Create inserts a new session. session.ID and session.Collection must be set.
	Create(ctx context.Context, session *Session) error
	// Get gets a session by ID. Returns nil and ErrNotFound if not found.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes a session together with its documents and pairs.
	Delete(ctx context.Context, id string) error
	// AddDocument records an ingested document and sets doc.ID.
	AddDocument(ctx context.Context, doc *Document) error
	// ListDocuments returns the documents of a session in upload order.
	ListDocuments(ctx context.Context, sessionID string) ([]*Document, error)
}

// SessionRepo provides methods for session operations.
// It implements the SessionStore interface.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new session.
func (r *SessionRepo) Create(ctx context.Context, session *Session) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (id, collection, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		session.ID, session.Collection,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get gets a session by ID. Returns nil and ErrNotFound if not found.
func (r *SessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	var session Session
	var createdAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, collection, created_at FROM sessions WHERE id = ?",
		id,
	).Scan(&session.ID, &session.Collection, &createdAtStr)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session. Documents and pairs are removed by cascade.
// Deleting a missing session returns ErrNotFound.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddDocument records an ingested document and sets doc.ID.
func (r *SessionRepo) AddDocument(ctx context.Context, doc *Document) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (session_id, filename, kind, runes, windows, pairs_stored, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		doc.SessionID, doc.Filename, doc.Kind, doc.Runes, doc.Windows, doc.PairsStored,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get document ID: %w", err)
	}
	doc.ID = id
	return nil
}

// ListDocuments returns the documents of a session in upload order.
// Returns an empty slice if none exist (not an error).
func (r *SessionRepo) ListDocuments(ctx context.Context, sessionID string) ([]*Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, filename, kind, runes, windows, pairs_stored, created_at
		 FROM documents WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := []*Document{}
	for rows.Next() {
		var doc Document
		var createdAtStr string
		if err := rows.Scan(&doc.ID, &doc.SessionID, &doc.Filename, &doc.Kind, &doc.Runes, &doc.Windows, &doc.PairsStored, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if doc.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}
