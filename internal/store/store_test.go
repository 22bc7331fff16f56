package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saunasuites/suites/internal/config"
	"github.com/saunasuites/suites/internal/models"
)

var testCircuit = &models.SpaCircuit{
	ID:          "health-circuit",
	Name:        "🩺 Health Circuit",
	Description: "5 min Cold Plunge → 40 min Sauna",
}

// storeFactories lists every backend the contract tests run against.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	factories := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "suites.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return s
		},
	}
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		factories["postgres"] = func(t *testing.T) Store {
			s, err := OpenPostgres(context.Background(), dsn)
			if err != nil {
				t.Fatalf("open postgres: %v", err)
			}
			if _, err := s.db.Exec(`TRUNCATE sessions`); err != nil {
				t.Fatalf("truncate: %v", err)
			}
			return s
		}
	}
	return factories
}

func newRecord(room string, start time.Time) *models.SessionRecord {
	return &models.SessionRecord{
		RoomID:          room,
		SelectedCircuit: testCircuit,
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		Status:          models.SessionStatusPending,
	}
}

func TestStoreContract(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("create and get", func(t *testing.T) {
				s := factory(t)
				defer s.Close()
				ctx := context.Background()

				rec := newRecord("room-1", time.Now().Truncate(time.Millisecond))
				if err := s.Create(ctx, rec); err != nil {
					t.Fatalf("create: %v", err)
				}
				if rec.SessionID == "" {
					t.Fatal("expected generated session id")
				}

				got, err := s.Get(ctx, rec.SessionID)
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				if got.RoomID != "room-1" {
					t.Errorf("expected room-1, got %s", got.RoomID)
				}
				if got.SelectedCircuit == nil || got.SelectedCircuit.ID != testCircuit.ID {
					t.Errorf("circuit not round-tripped: %+v", got.SelectedCircuit)
				}
				if !got.StartTime.Equal(rec.StartTime) {
					t.Errorf("start time mismatch: %v vs %v", got.StartTime, rec.StartTime)
				}
				if got.Status != models.SessionStatusPending {
					t.Errorf("expected pending, got %s", got.Status)
				}
			})

			t.Run("get missing", func(t *testing.T) {
				s := factory(t)
				defer s.Close()
				if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			})

			t.Run("create validates", func(t *testing.T) {
				s := factory(t)
				defer s.Close()
				ctx := context.Background()

				noRoom := newRecord("", time.Now())
				if err := s.Create(ctx, noRoom); err == nil {
					t.Error("expected error for missing room")
				}

				badStatus := newRecord("room-1", time.Now())
				badStatus.Status = "unknown"
				if err := s.Create(ctx, badStatus); !errors.Is(err, ErrInvalidStatus) {
					t.Errorf("expected ErrInvalidStatus, got %v", err)
				}

				backwards := newRecord("room-1", time.Now())
				backwards.EndTime = backwards.StartTime.Add(-time.Minute)
				if err := s.Create(ctx, backwards); err == nil {
					t.Error("expected error for end before start")
				}
			})

			t.Run("active picks latest open session", func(t *testing.T) {
				s := factory(t)
				defer s.Close()
				ctx := context.Background()
				now := time.Now()

				older := newRecord("room-2", now.Add(-30*time.Minute))
				newer := newRecord("room-2", now.Add(-5*time.Minute))
				other := newRecord("room-3", now)
				expired := newRecord("room-2", now.Add(-3*time.Hour))
				for _, r := range []*models.SessionRecord{older, newer, other, expired} {
					if err := s.Create(ctx, r); err != nil {
						t.Fatalf("create: %v", err)
					}
				}

				got, err := s.Active(ctx, "room-2", now)
				if err != nil {
					t.Fatalf("active: %v", err)
				}
				if got.SessionID != newer.SessionID {
					t.Errorf("expected newest session %s, got %s", newer.SessionID, got.SessionID)
				}

				if err := s.UpdateStatus(ctx, newer.SessionID, models.SessionStatusCompleted); err != nil {
					t.Fatalf("update: %v", err)
				}
				got, err = s.Active(ctx, "room-2", now)
				if err != nil {
					t.Fatalf("active after completion: %v", err)
				}
				if got.SessionID != older.SessionID {
					t.Errorf("expected fallback to %s, got %s", older.SessionID, got.SessionID)
				}

				if _, err := s.Active(ctx, "room-9", now); !errors.Is(err, ErrNotFound) {
					t.Errorf("expected ErrNotFound for empty room, got %v", err)
				}
			})

			t.Run("update status", func(t *testing.T) {
				s := factory(t)
				defer s.Close()
				ctx := context.Background()

				rec := newRecord("room-4", time.Now())
				if err := s.Create(ctx, rec); err != nil {
					t.Fatalf("create: %v", err)
				}
				if err := s.UpdateStatus(ctx, rec.SessionID, models.SessionStatusActive); err != nil {
					t.Fatalf("update: %v", err)
				}
				got, _ := s.Get(ctx, rec.SessionID)
				if got.Status != models.SessionStatusActive {
					t.Errorf("expected active, got %s", got.Status)
				}

				if err := s.UpdateStatus(ctx, rec.SessionID, "bogus"); !errors.Is(err, ErrInvalidStatus) {
					t.Errorf("expected ErrInvalidStatus, got %v", err)
				}
				if err := s.UpdateStatus(ctx, "missing", models.SessionStatusActive); !errors.Is(err, ErrNotFound) {
					t.Errorf("expected ErrNotFound, got %v", err)
				}
			})

			t.Run("nil circuit", func(t *testing.T) {
				s := factory(t)
				defer s.Close()
				ctx := context.Background()

				rec := newRecord("room-5", time.Now())
				rec.SelectedCircuit = nil
				if err := s.Create(ctx, rec); err != nil {
					t.Fatalf("create: %v", err)
				}
				got, err := s.Get(ctx, rec.SessionID)
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				if got.SelectedCircuit != nil {
					t.Errorf("expected nil circuit, got %+v", got.SelectedCircuit)
				}
			})

			t.Run("ping", func(t *testing.T) {
				s := factory(t)
				defer s.Close()
				if err := s.Ping(context.Background()); err != nil {
					t.Errorf("ping: %v", err)
				}
			})
		})
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore()
	s.Close()

	ctx := context.Background()
	if err := s.Create(ctx, newRecord("room-1", time.Now())); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Create, got %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Ping, got %v", err)
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := newRecord("room-1", time.Now())
	rec.SelectedCircuit = &models.SpaCircuit{ID: "freestyle"}
	if err := s.Create(ctx, rec); err != nil {
		t.Fatal(err)
	}
	rec.SelectedCircuit.ID = "mutated"

	got, _ := s.Get(ctx, rec.SessionID)
	if got.SelectedCircuit.ID != "freestyle" {
		t.Errorf("stored record changed through caller pointer: %s", got.SelectedCircuit.ID)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"memory", config.Config{StoreDriver: config.DriverMemory}, false},
		{"sqlite", config.Config{StoreDriver: config.DriverSQLite, DBPath: filepath.Join(t.TempDir(), "x", "s.db")}, false},
		{"unknown", config.Config{StoreDriver: "csv"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), &tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			s.Close()
		})
	}
}
