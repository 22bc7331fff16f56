// Package store persists room sessions for the Session Store service.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saunasuites/suites/internal/models"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrInvalidStatus = errors.New("invalid session status")
	ErrClosed        = errors.New("store is closed")
)

// Store is the persistence contract behind the session API.
type Store interface {
	// Create inserts rec, assigning a session id when it has none.
	Create(ctx context.Context, rec *models.SessionRecord) error
	Get(ctx context.Context, id string) (*models.SessionRecord, error)
	// Active returns the most recently started session of roomID that is
	// not completed and has not ended at now.
	Active(ctx context.Context, roomID string, now time.Time) (*models.SessionRecord, error)
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
	Ping(ctx context.Context) error
	Close() error
}

// prepare validates rec and fills its id.
func prepare(rec *models.SessionRecord) error {
	if rec.RoomID == "" {
		return fmt.Errorf("roomId is required")
	}
	if !rec.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, rec.Status)
	}
	if rec.EndTime.Before(rec.StartTime) {
		return fmt.Errorf("endTime precedes startTime")
	}
	if rec.SessionID == "" {
		rec.SessionID = uuid.New().String()
	}
	return nil
}

func encodeCircuit(c *models.SpaCircuit) (any, error) {
	if c == nil {
		return nil, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode circuit: %w", err)
	}
	return string(data), nil
}

func decodeCircuit(raw *string) (*models.SpaCircuit, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var c models.SpaCircuit
	if err := json.Unmarshal([]byte(*raw), &c); err != nil {
		return nil, fmt.Errorf("decode circuit: %w", err)
	}
	return &c, nil
}
