package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"headerdoc/internal/extractor"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ EntryStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT NOT NULL,
			file TEXT NOT NULL,
			name TEXT,
			kind TEXT,
			declaration TEXT,
			description TEXT,
			line INTEGER,
			definition INTEGER,
			resolution TEXT,
			doc JSON,
			PRIMARY KEY (file, line)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_name ON entries(name);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveDocument syncs the snapshot of one file: stale rows are removed and
// current entries inserted in a single transaction.
func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *extractor.Document) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE file = ?`, doc.Path); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, file, name, kind, declaration, description, line, definition, resolution, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range doc.Entries() {
		docJSON, _ := json.Marshal(e.Doc)
		if _, err := stmt.ExecContext(ctx, e.ID, doc.Path, e.Symbol.Name, string(e.Symbol.Kind), e.Declaration, e.Description, e.Line, e.Definition, string(e.Resolution), docJSON); err != nil {
			return fmt.Errorf("failed to save entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

const selectColumns = `SELECT id, file, name, kind, declaration, description, line, definition, resolution, doc FROM entries`

func (s *SQLiteStore) FindByName(ctx context.Context, name string) ([]*Record, error) {
	return s.query(ctx, selectColumns+` WHERE name = ? ORDER BY file, line`, name)
}

func (s *SQLiteStore) FindByFile(ctx context.Context, file string) ([]*Record, error) {
	return s.query(ctx, selectColumns+` WHERE file = ? ORDER BY line`, file)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		var doc []byte
		if err := rows.Scan(&r.ID, &r.File, &r.Name, &r.Kind, &r.Declaration, &r.Description, &r.Line, &r.Definition, &r.Resolution, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if len(doc) > 0 {
			_ = json.Unmarshal(doc, &r.Doc)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}
