package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_faq_store.go -package=mocks docqa/internal/storage FAQStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// FAQStore defines the interface for question/answer text storage.
type FAQStore interface {
	// InsertBatch inserts records in one transaction. Every record's ID must be set.
	InsertBatch(ctx context.Context, records []*FAQRecord) error
	// GetByIDs returns the records of a session with the given IDs, keyed by ID.
	// Missing IDs are absent from the map.
	GetByIDs(ctx context.Context, sessionID string, ids []uint64) (map[uint64]*FAQRecord, error)
	// ListBySession returns all records of a session ordered by ID.
	ListBySession(ctx context.Context, sessionID string) ([]*FAQRecord, error)
	// ExistingKeys returns which of keys are already stored for a session.
	ExistingKeys(ctx context.Context, sessionID string, keys []string) (map[string]bool, error)
	// DeleteByIDs removes records of a session by ID.
	DeleteByIDs(ctx context.Context, sessionID string, ids []uint64) error
}

// FAQRepo provides methods for pair text operations.
// It implements the FAQStore interface.
type FAQRepo struct {
	db *sql.DB
}

// NewFAQRepo creates a new FAQRepo.
func NewFAQRepo(db *sql.DB) *FAQRepo {
	return &FAQRepo{db: db}
}

// InsertBatch inserts records in one transaction.
func (r *FAQRepo) InsertBatch(ctx context.Context, records []*FAQRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO faqs (session_id, id, question, answer, question_key, created_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.SessionID, int64(rec.ID), rec.Question, rec.Answer, rec.QuestionKey); err != nil {
			return fmt.Errorf("failed to insert faq %d: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit faqs: %w", err)
	}
	return nil
}

// GetByIDs returns the records of a session with the given IDs, keyed by ID.
func (r *FAQRepo) GetByIDs(ctx context.Context, sessionID string, ids []uint64) (map[uint64]*FAQRecord, error) {
	result := make(map[uint64]*FAQRecord, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, sessionID)
	for _, id := range ids {
		args = append(args, int64(id))
	}

	query := fmt.Sprintf(
		"SELECT session_id, id, question, answer, question_key, created_at FROM faqs WHERE session_id = ? AND id IN (%s)",
		placeholders(len(ids)),
	)
	records, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		result[rec.ID] = rec
	}
	return result, nil
}

// ListBySession returns all records of a session ordered by ID.
// Returns an empty slice if none exist (not an error).
func (r *FAQRepo) ListBySession(ctx context.Context, sessionID string) ([]*FAQRecord, error) {
	return r.query(ctx,
		"SELECT session_id, id, question, answer, question_key, created_at FROM faqs WHERE session_id = ? ORDER BY id",
		sessionID,
	)
}

// ExistingKeys returns which of keys are already stored for a session.
func (r *FAQRepo) ExistingKeys(ctx context.Context, sessionID string, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(keys) == 0 {
		return existing, nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, sessionID)
	for _, key := range keys {
		args = append(args, key)
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("SELECT DISTINCT question_key FROM faqs WHERE session_id = ? AND question_key IN (%s)", placeholders(len(keys))),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query question keys: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan question key: %w", err)
		}
		existing[key] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return existing, nil
}

// DeleteByIDs removes records of a session by ID.
func (r *FAQRepo) DeleteByIDs(ctx context.Context, sessionID string, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, sessionID)
	for _, id := range ids {
		args = append(args, int64(id))
	}

	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM faqs WHERE session_id = ? AND id IN (%s)", placeholders(len(ids))),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to delete faqs: %w", err)
	}
	return nil
}

func (r *FAQRepo) query(ctx context.Context, query string, args ...any) ([]*FAQRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []*FAQRecord{}
	for rows.Next() {
		var rec FAQRecord
		var id int64
		var createdAtStr string
		if err := rows.Scan(&rec.SessionID, &id, &rec.Question, &rec.Answer, &rec.QuestionKey, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		rec.ID = uint64(id)
		if rec.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// placeholders returns n comma-separated "?" markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
