package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/saunasuites/suites/internal/models"
)

// Connection pool settings for PostgresStore.
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 25
	DefaultConnMaxLifetime = 5 * time.Minute
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  room_id TEXT NOT NULL,
  selected_circuit JSONB,
  start_time TIMESTAMPTZ NOT NULL,
  end_time TIMESTAMPTZ NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sessions_room_start ON sessions(room_id, start_time DESC);
`

// PostgresStore persists sessions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to dsn, verifies the connection and applies the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Create(ctx context.Context, rec *models.SessionRecord) error {
	if err := prepare(rec); err != nil {
		return err
	}
	circuit, err := encodeCircuit(rec.SelectedCircuit)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, room_id, selected_circuit, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.SessionID, rec.RoomID, circuit, rec.StartTime.UTC(), rec.EndTime.UTC(), string(rec.Status))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, selected_circuit, start_time, end_time, status
		FROM sessions WHERE id = $1
	`, id)
	return scanPostgresSession(row)
}

func (s *PostgresStore) Active(ctx context.Context, roomID string, now time.Time) (*models.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, selected_circuit, start_time, end_time, status
		FROM sessions
		WHERE room_id = $1 AND status <> $2 AND end_time > $3
		ORDER BY start_time DESC
		LIMIT 1
	`, roomID, string(models.SessionStatusCompleted), now.UTC())
	return scanPostgresSession(row)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanPostgresSession(row *sql.Row) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	var circuit sql.NullString
	var status string

	err := row.Scan(&rec.SessionID, &rec.RoomID, &circuit, &rec.StartTime, &rec.EndTime, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if circuit.Valid {
		rec.SelectedCircuit, err = decodeCircuit(&circuit.String)
		if err != nil {
			return nil, err
		}
	}
	rec.StartTime = rec.StartTime.UTC()
	rec.EndTime = rec.EndTime.UTC()
	rec.Status = models.SessionStatus(status)
	return &rec, nil
}
