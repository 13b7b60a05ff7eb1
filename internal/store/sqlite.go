package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/dappos/internal/dapp"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS dapps (
		path      TEXT PRIMARY KEY,
		user_id   TEXT NOT NULL,
		dapp_id   TEXT NOT NULL,
		dapp_name TEXT NOT NULL,
		payload   TEXT NOT NULL,
		saved_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS dapps_user_id_idx ON dapps (user_id);
`

// SQLite stores dapp documents in a local database file. It is the offline
// stand-in for the remote store.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Name implements Store.
func (s *SQLite) Name() string { return "sqlite" }

// Set implements Store.
func (s *SQLite) Set(ctx context.Context, p Path, doc *dapp.Document) error {
	if err := p.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal dapp: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dapps (path, user_id, dapp_id, dapp_name, payload, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE
		SET payload = excluded.payload, dapp_name = excluded.dapp_name, saved_at = excluded.saved_at`,
		p.String(), p.UserID, p.DocID, doc.DappName, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save dapp: %w", err)
	}
	return nil
}

// Get reads a stored document back; it returns (nil, nil) when absent.
func (s *SQLite) Get(ctx context.Context, p Path) (*dapp.Document, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM dapps WHERE path = ?`, p.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dapp: %w", err)
	}
	var doc dapp.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dapp: %w", err)
	}
	return &doc, nil
}

// Close implements Store.
func (s *SQLite) Close() error { return s.db.Close() }
