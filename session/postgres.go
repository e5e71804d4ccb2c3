package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Postgres driver
	_ "github.com/lib/pq"
)

const (
	createSessionsTable = `CREATE TABLE IF NOT EXISTS fes_sessions (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`
	selectSession = `SELECT data FROM fes_sessions WHERE id = $1 AND expires_at > $2`
	upsertSession = `INSERT INTO fes_sessions (id, data, expires_at) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`
	touchSession  = `UPDATE fes_sessions SET expires_at = $2 WHERE id = $1 AND expires_at > $3`
	deleteSession = `DELETE FROM fes_sessions WHERE id = $1`
	deleteExpired = `DELETE FROM fes_sessions WHERE expires_at <= $1`
)

// PostgresStore keeps sessions in a Postgres table
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenPostgresStore connects to Postgres with the given DSN
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an open database
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// EnsureSchema creates the sessions table if it does not exist
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Load fetches a session, treating expired rows as absent
func (p *PostgresStore) Load(ctx context.Context, id string) (*Session, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, selectSession, id, p.now()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decode(id, data)
}

// Save upserts a session
func (p *PostgresStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	if _, err := p.db.ExecContext(ctx, upsertSession, s.ID, data, p.now().Add(ttl)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Touch extends a live session
func (p *PostgresStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	now := p.now()
	res, err := p.db.ExecContext(ctx, touchSession, id, now.Add(ttl), now)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Destroy removes a session
func (p *PostgresStore) Destroy(ctx context.Context, id string) error {
	if _, err := p.db.ExecContext(ctx, deleteSession, id); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// DeleteExpired removes expired sessions and returns how many were removed
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx, deleteExpired, p.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
