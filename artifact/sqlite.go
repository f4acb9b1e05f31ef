package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSource keeps artifacts as blobs in a small registry table. Payloads
// are stored exactly as imported, so compressed names stay compressed.
type SQLiteSource struct {
	db *sql.DB
}

// Record describes one stored artifact.
type Record struct {
	Name      string
	Size      int
	CreatedAt time.Time
}

func OpenSQLite(path string) (*SQLiteSource, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open artifact registry: %w", err)
	}

	query := `
    CREATE TABLE IF NOT EXISTS artifacts (
        name TEXT PRIMARY KEY,
        payload BLOB NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("create artifact table: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Read(ctx context.Context, name string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM artifacts WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return Decompress(name, payload)
}

// Put stores or replaces an artifact.
func (s *SQLiteSource) Put(ctx context.Context, name string, payload []byte) error {
	if name == "" {
		return errors.New("artifact name required")
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO artifacts (name, payload, created_at)
        VALUES (?, ?, ?)`, name, payload, time.Now().UTC())
	return err
}

// List returns the stored artifacts ordered by name.
func (s *SQLiteSource) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, length(payload), created_at
        FROM artifacts
        ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Name, &r.Size, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
