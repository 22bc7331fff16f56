package models

import "time"

// SessionStatus is the lifecycle state of a room session.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

var ValidSessionStatuses = map[SessionStatus]bool{
	SessionStatusPending:   true,
	SessionStatusActive:    true,
	SessionStatusCompleted: true,
}

func (s SessionStatus) IsValid() bool {
	return ValidSessionStatuses[s]
}

// SessionRecord binds a room to a guest's selected circuit and time window.
type SessionRecord struct {
	SessionID       string        `json:"sessionId"`
	RoomID          string        `json:"roomId"`
	SelectedCircuit *SpaCircuit   `json:"selectedCircuit"`
	StartTime       time.Time     `json:"startTime"`
	EndTime         time.Time     `json:"endTime"`
	Status          SessionStatus `json:"status"`
}

// IsActiveAt reports whether the session still occupies its room at t.
func (s *SessionRecord) IsActiveAt(t time.Time) bool {
	return s.Status != SessionStatusCompleted && s.EndTime.After(t)
}

// CreateSessionRequest is the payload for POST /sessions.
type CreateSessionRequest struct {
	RoomID          string        `json:"roomId"`
	SelectedCircuit *SpaCircuit   `json:"selectedCircuit"`
	StartTime       *time.Time    `json:"startTime,omitempty"`
	EndTime         *time.Time    `json:"endTime,omitempty"`
	Status          SessionStatus `json:"status,omitempty"`
}

// CreateSessionResponse is returned by POST /sessions.
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// UpdateSessionRequest is the payload for PATCH /sessions/{id}.
type UpdateSessionRequest struct {
	Status SessionStatus `json:"status"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Store   string `json:"store"`
	Message string `json:"message,omitempty"`
}
