package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// newTestDB opens a migrated database in a temp directory.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	tests := []struct {
		name         string
		path         string
		wantErr      bool
		wantMaxConns int
	}{
		{
			name:         "valid path",
			path:         dbPath,
			wantMaxConns: 25,
		},
		{
			name:         "in-memory database",
			path:         ":memory:",
			wantMaxConns: 1,
		},
		{
			name:         "shared in-memory uri",
			path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
			wantMaxConns: 1,
		},
		{
			name:    "invalid path",
			path:    "/invalid/path/to/db.db",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := New(tt.path)

			if tt.wantErr {
				if err == nil {
					t.Errorf("New() expected error, got nil")
				}
				if db != nil {
					_ = db.Close()
				}
				return
			}

			if err != nil {
				t.Errorf("New() unexpected error: %v", err)
				return
			}

			if db == nil {
				t.Fatal("New() returned nil database")
			}

			// Verify connection pool settings
			if db.Stats().MaxOpenConnections != tt.wantMaxConns {
				t.Errorf("New() MaxOpenConnections = %v, want %v", db.Stats().MaxOpenConnections, tt.wantMaxConns)
			}

			_ = db.Close()
		})
	}
}

func TestNew_EnablesForeignKeys(t *testing.T) {
	db := newTestDB(t)

	// Every pooled connection must have foreign keys on, so check several at once.
	conns := make([]*sql.Conn, 0, 3)
	for range 3 {
		conn, err := db.Conn(t.Context())
		if err != nil {
			t.Fatalf("Conn() error = %v", err)
		}
		conns = append(conns, conn)
	}
	defer func() {
		for _, conn := range conns {
			_ = conn.Close()
		}
	}()

	for i, conn := range conns {
		var fkEnabled int
		if err := conn.QueryRowContext(t.Context(), "PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
			t.Fatalf("Failed to check foreign keys: %v", err)
		}
		if fkEnabled != 1 {
			t.Errorf("connection %d: foreign keys disabled", i)
		}
	}
}

func TestIsMemory(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: ":memory:", want: true},
		{path: "file:docqa?mode=memory&cache=shared", want: true},
		{path: "./data/docqa.db", want: false},
		{path: "file:./data/docqa.db", want: false},
	}

	for _, tt := range tests {
		if got := IsMemory(tt.path); got != tt.want {
			t.Errorf("IsMemory(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWithParams(t *testing.T) {
	if got := withParams("test.db"); got != "test.db?_foreign_keys=on&_busy_timeout=5000" {
		t.Errorf("withParams() = %q", got)
	}
	if got := withParams("file:x?mode=memory"); got != "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000" {
		t.Errorf("withParams() = %q", got)
	}
}

func TestMigrate(t *testing.T) {
	db := newTestDB(t)

	// Run migrations again to check idempotency
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() second run error = %v", err)
	}

	// Verify tables exist
	tables := []string{"sessions", "documents", "faqs"}
	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("Migrate() table %s not created", table)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_faqs_question_key'").Scan(&count); err != nil {
		t.Fatalf("Failed to check index: %v", err)
	}
	if count != 1 {
		t.Error("Migrate() question key index not created")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "sqlite format", value: "2026-03-01 08:30:00", want: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)},
		{name: "rfc3339", value: "2026-03-01T08:30:00Z", want: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)},
		{name: "garbage", value: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Error("parseTimestamp() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTimestamp() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
