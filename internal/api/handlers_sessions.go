package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saunasuites/suites/internal/models"
	"github.com/saunasuites/suites/internal/store"
)

// SessionHandler handles session-related HTTP requests.
type SessionHandler struct {
	store         store.Store
	sessionLength time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(st store.Store, sessionLength time.Duration, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:         st,
		sessionLength: sessionLength,
		logger:        logger,
		now:           time.Now,
	}
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.RoomID == "" {
		writeError(w, http.StatusBadRequest, "roomId is required")
		return
	}

	rec := models.SessionRecord{
		RoomID:          req.RoomID,
		SelectedCircuit: req.SelectedCircuit,
		StartTime:       h.now().UTC(),
		Status:          models.SessionStatusPending,
	}
	if req.StartTime != nil {
		rec.StartTime = req.StartTime.UTC()
	}
	rec.EndTime = rec.StartTime.Add(h.sessionLength)
	if req.EndTime != nil {
		rec.EndTime = req.EndTime.UTC()
	}
	if req.Status != "" {
		rec.Status = req.Status
	}

	if !rec.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid status: "+string(rec.Status))
		return
	}
	if rec.EndTime.Before(rec.StartTime) {
		writeError(w, http.StatusBadRequest, "endTime must not precede startTime")
		return
	}

	if err := h.store.Create(r.Context(), &rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	circuitID := ""
	if rec.SelectedCircuit != nil {
		circuitID = rec.SelectedCircuit.ID
	}
	h.logger.Info("session created",
		"session_id", rec.SessionID,
		"room_id", rec.RoomID,
		"circuit_id", circuitID,
	)

	writeJSON(w, http.StatusCreated, models.CreateSessionResponse{SessionID: rec.SessionID})
}

// Active handles GET /sessions/active?roomId=<id>
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		writeError(w, http.StatusBadRequest, "roomId is required")
		return
	}

	rec, err := h.store.Active(r.Context(), roomID, h.now())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Get handles GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// UpdateStatus handles PATCH /sessions/{id}
func (h *SessionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !req.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid status: "+string(req.Status))
		return
	}

	err := h.store.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("session status updated", "session_id", id, "status", req.Status)
	w.WriteHeader(http.StatusNoContent)
}
