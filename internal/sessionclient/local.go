package sessionclient

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/saunasuites/suites/internal/config"
	"github.com/saunasuites/suites/internal/models"
	"github.com/saunasuites/suites/internal/store"
)

// Local implements Sessions directly over a store.Store. Backed by a
// MemoryStore it is the in-process mock used in mock mode.
type Local struct {
	store         store.Store
	sessionLength time.Duration
	now           func() time.Time
}

func NewLocal(st store.Store, sessionLength time.Duration) *Local {
	return &Local{store: st, sessionLength: sessionLength, now: time.Now}
}

func (l *Local) CreateSession(ctx context.Context, roomID string, circuit models.SpaCircuit) (string, error) {
	start := l.now().UTC()
	rec := &models.SessionRecord{
		RoomID:          roomID,
		SelectedCircuit: &circuit,
		StartTime:       start,
		EndTime:         start.Add(l.sessionLength),
		Status:          models.SessionStatusPending,
	}
	if err := l.store.Create(ctx, rec); err != nil {
		return "", err
	}
	return rec.SessionID, nil
}

func (l *Local) ActiveSession(ctx context.Context, roomID string) (*models.SessionRecord, error) {
	rec, err := l.store.Active(ctx, roomID, l.now())
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (l *Local) UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus) error {
	return l.store.UpdateStatus(ctx, sessionID, status)
}

// Fallback tries primary first and degrades to mock when primary fails.
type Fallback struct {
	primary Sessions
	mock    Sessions
	logger  *slog.Logger
}

func NewFallback(primary, mock Sessions, logger *slog.Logger) *Fallback {
	return &Fallback{primary: primary, mock: mock, logger: logger}
}

func (f *Fallback) CreateSession(ctx context.Context, roomID string, circuit models.SpaCircuit) (string, error) {
	id, err := f.primary.CreateSession(ctx, roomID, circuit)
	if err == nil {
		return id, nil
	}
	f.logger.Warn("session store unavailable, using mock session", "room_id", roomID, "error", err)
	return f.mock.CreateSession(ctx, roomID, circuit)
}

func (f *Fallback) ActiveSession(ctx context.Context, roomID string) (*models.SessionRecord, error) {
	rec, err := f.primary.ActiveSession(ctx, roomID)
	if err == nil {
		if rec != nil {
			return rec, nil
		}
		return f.mock.ActiveSession(ctx, roomID)
	}
	f.logger.Warn("session store unavailable, reading mock session", "room_id", roomID, "error", err)
	return f.mock.ActiveSession(ctx, roomID)
}

func (f *Fallback) UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus) error {
	err := f.primary.UpdateStatus(ctx, sessionID, status)
	if err == nil {
		return nil
	}
	if mockErr := f.mock.UpdateStatus(ctx, sessionID, status); mockErr == nil {
		return nil
	}
	return err
}

// Probe checks that the configured Session Store answers its health check.
// With no endpoint configured there is nothing to reach and it returns nil.
func Probe(ctx context.Context, cfg *config.Config) error {
	if cfg.APIEndpoint == "" {
		return nil
	}
	return NewClient(cfg.APIEndpoint, cfg.APIKey, cfg.SessionLength).HealthCheck(ctx)
}

// New selects the Sessions implementation for cfg. Mock mode without an
// endpoint never leaves the process; mock mode with an endpoint degrades to
// the in-process store when the endpoint fails.
func New(cfg *config.Config, logger *slog.Logger) Sessions {
	remote := NewClient(cfg.APIEndpoint, cfg.APIKey, cfg.SessionLength)
	if !cfg.UseMockAPI {
		return remote
	}
	mock := NewLocal(store.NewMemoryStore(), cfg.SessionLength)
	if cfg.APIEndpoint == "" {
		return mock
	}
	return NewFallback(remote, mock, logger)
}
