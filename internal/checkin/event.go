package checkin

import "github.com/saunasuites/suites/internal/models"

// EventType names a guest action.
type EventType int

const (
	EventCheckIn EventType = iota
	EventMakeReservation
	EventHasCode
	EventNoCode
	EventSmallGroup
	EventLargeGroup
	EventSelectCircuit
	EventConfirm
	EventBack
	EventStartOver
)

var eventNames = [...]string{
	EventCheckIn:         "check-in",
	EventMakeReservation: "make-reservation",
	EventHasCode:         "has-code",
	EventNoCode:          "no-code",
	EventSmallGroup:      "small-group",
	EventLargeGroup:      "large-group",
	EventSelectCircuit:   "select-circuit",
	EventConfirm:         "confirm",
	EventBack:            "back",
	EventStartOver:       "start-over",
}

func (e EventType) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// Event is a guest action. Circuit is only read by EventSelectCircuit.
type Event struct {
	Type    EventType
	Circuit *models.SpaCircuit
}

// Effect is a side effect requested by a transition. The caller performs it.
type Effect int

const (
	EffectNone Effect = iota
	// EffectCreateSession persists a pending session for the selected circuit.
	EffectCreateSession
)
