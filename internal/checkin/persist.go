package checkin

import (
	"context"
	"log/slog"

	"github.com/saunasuites/suites/internal/models"
)

// SessionCreator is the part of the Session Store the wizard writes to.
type SessionCreator interface {
	CreateSession(ctx context.Context, roomID string, circuit models.SpaCircuit) (string, error)
}

// Persist creates the session for a confirmed check-in. Failures are logged
// and reported as an empty id; the wizard never waits on or surfaces them.
func Persist(ctx context.Context, creator SessionCreator, roomID string, circuit models.SpaCircuit, logger *slog.Logger) string {
	id, err := creator.CreateSession(ctx, roomID, circuit)
	if err != nil {
		logger.Error("failed to create session", "room_id", roomID, "circuit_id", circuit.ID, "error", err)
		return ""
	}
	logger.Info("session created", "session_id", id, "room_id", roomID, "circuit_id", circuit.ID)
	return id
}
