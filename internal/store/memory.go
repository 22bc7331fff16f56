package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/saunasuites/suites/internal/models"
)

// MemoryStore keeps sessions in process memory. It backs STORE_DRIVER=memory
// and the kiosk's mock mode.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]models.SessionRecord
	closed   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.SessionRecord)}
}

func (s *MemoryStore) Create(_ context.Context, rec *models.SessionRecord) error {
	if err := prepare(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, exists := s.sessions[rec.SessionID]; exists {
		return fmt.Errorf("session %s already exists", rec.SessionID)
	}
	s.sessions[rec.SessionID] = cloneRecord(*rec)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	rec, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneRecord(rec)
	return &out, nil
}

func (s *MemoryStore) Active(_ context.Context, roomID string, now time.Time) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	var best *models.SessionRecord
	for _, rec := range s.sessions {
		if rec.RoomID != roomID || !rec.IsActiveAt(now) {
			continue
		}
		if best == nil || rec.StartTime.After(best.StartTime) {
			r := rec
			best = &r
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	out := cloneRecord(*best)
	return &out, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status models.SessionStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	rec, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	s.sessions[id] = rec
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func cloneRecord(rec models.SessionRecord) models.SessionRecord {
	if rec.SelectedCircuit != nil {
		c := *rec.SelectedCircuit
		rec.SelectedCircuit = &c
	}
	return rec
}
