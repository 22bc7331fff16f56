package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/saunasuites/suites/internal/models"
)

// SQLiteStore persists sessions in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at dbPath, initializes the schema
// and configures WAL mode for concurrent reads.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	if err := initSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSQLiteSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  room_id TEXT NOT NULL,
  selected_circuit TEXT,
  start_time INTEGER NOT NULL,
  end_time INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_room ON sessions(room_id);
CREATE INDEX IF NOT EXISTS idx_sessions_room_start ON sessions(room_id, start_time);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, rec *models.SessionRecord) error {
	if err := prepare(rec); err != nil {
		return err
	}
	circuit, err := encodeCircuit(rec.SelectedCircuit)
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, room_id, selected_circuit, start_time, end_time, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.SessionID, rec.RoomID, circuit, rec.StartTime.UnixMilli(), rec.EndTime.UnixMilli(), string(rec.Status), now, now)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, selected_circuit, start_time, end_time, status
		FROM sessions WHERE id = ?
	`, id)
	return scanSQLiteSession(row)
}

func (s *SQLiteStore) Active(ctx context.Context, roomID string, now time.Time) (*models.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, selected_circuit, start_time, end_time, status
		FROM sessions
		WHERE room_id = ? AND status != ? AND end_time > ?
		ORDER BY start_time DESC
		LIMIT 1
	`, roomID, string(models.SessionStatusCompleted), now.UnixMilli())
	return scanSQLiteSession(row)
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UnixMilli(), id,
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

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSQLiteSession(row *sql.Row) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	var circuit sql.NullString
	var start, end int64
	var status string

	err := row.Scan(&rec.SessionID, &rec.RoomID, &circuit, &start, &end, &status)
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
	rec.StartTime = time.UnixMilli(start).UTC()
	rec.EndTime = time.UnixMilli(end).UTC()
	rec.Status = models.SessionStatus(status)
	return &rec, nil
}
