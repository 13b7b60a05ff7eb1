package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/dappos/internal/dapp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
	CREATE TABLE IF NOT EXISTS dapps (
		path      TEXT PRIMARY KEY,
		user_id   TEXT NOT NULL,
		dapp_id   TEXT NOT NULL,
		dapp_name TEXT NOT NULL,
		payload   JSONB NOT NULL,
		saved_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS dapps_user_id_idx ON dapps (user_id);
`

// Postgres stores dapp documents as JSONB rows.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, pings and makes sure the dapps table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Name implements Store.
func (r *Postgres) Name() string { return "postgres" }

// Set implements Store.
func (r *Postgres) Set(ctx context.Context, p Path, doc *dapp.Document) error {
	if err := p.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal dapp: %w", err)
	}

	query := `
		INSERT INTO dapps (path, user_id, dapp_id, dapp_name, payload, saved_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, now())
		ON CONFLICT (path) DO UPDATE
		SET payload = EXCLUDED.payload, dapp_name = EXCLUDED.dapp_name, saved_at = EXCLUDED.saved_at
	`
	_, err = r.pool.Exec(ctx, query, p.String(), p.UserID, p.DocID, doc.DappName, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save dapp: %w", err)
	}
	return nil
}

// Get reads a stored document back; it returns (nil, nil) when absent.
func (r *Postgres) Get(ctx context.Context, p Path) (*dapp.Document, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM dapps WHERE path = $1`, p.String()).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dapp: %w", err)
	}
	var doc dapp.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dapp: %w", err)
	}
	return &doc, nil
}

// Close implements Store.
func (r *Postgres) Close() error {
	r.pool.Close()
	return nil
}
