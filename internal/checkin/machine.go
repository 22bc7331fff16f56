package checkin

import (
	"time"

	"github.com/saunasuites/suites/internal/catalog"
	"github.com/saunasuites/suites/internal/models"
)

// State is the data held by the wizard between screens.
type State struct {
	Step            Step
	SelectedCircuit *models.SpaCircuit
	IsLargeGroup    bool
}

// Initial returns the state the kiosk starts in and resets to.
func Initial() State {
	return State{Step: StepWelcome}
}

// Circuits lists the circuits offered on the circuit selection screen.
func (s State) Circuits(cat *catalog.Catalog) []models.SpaCircuit {
	return cat.Filter(s.IsLargeGroup)
}

// Transition applies ev to s. Events without an entry for the current step
// leave the state unchanged.
func Transition(s State, ev Event, cat *catalog.Catalog) (State, Effect) {
	switch s.Step {
	case StepWelcome:
		switch ev.Type {
		case EventCheckIn:
			s.Step = StepDoorCodeCheck
		case EventMakeReservation:
			s.Step = StepMakeReservation
		}

	case StepDoorCodeCheck:
		switch ev.Type {
		case EventHasCode:
			s.Step = StepGroupSizeSelection
		case EventNoCode:
			s.Step = StepNoDoorCode
		case EventBack:
			s.Step = StepWelcome
		}

	case StepMakeReservation:
		if ev.Type == EventBack {
			s.Step = StepWelcome
		}

	case StepNoDoorCode:
		switch ev.Type {
		case EventBack:
			s.Step = StepDoorCodeCheck
		case EventMakeReservation:
			s.Step = StepMakeReservation
		}

	case StepGroupSizeSelection:
		switch ev.Type {
		case EventSmallGroup:
			s.IsLargeGroup = false
			s.SelectedCircuit = nil
			s.Step = StepCircuitSelection
		case EventLargeGroup:
			s.IsLargeGroup = true
			if group, ok := cat.GroupCircuit(); ok {
				s.SelectedCircuit = &group
				s.Step = StepDoorAccess
			} else {
				s.SelectedCircuit = nil
				s.Step = StepCircuitSelection
			}
		case EventBack:
			s.Step = StepDoorCodeCheck
		}

	case StepCircuitSelection:
		switch ev.Type {
		case EventSelectCircuit:
			if c, ok := s.offered(ev.Circuit, cat); ok {
				s.SelectedCircuit = &c
				s.Step = StepDoorAccess
			}
		case EventBack:
			if s.IsLargeGroup {
				s.Step = StepGroupSizeSelection
			} else {
				s.Step = StepWelcome
			}
		}

	case StepDoorAccess:
		switch ev.Type {
		case EventConfirm:
			s.Step = StepConfirmation
			if s.SelectedCircuit != nil {
				return s, EffectCreateSession
			}
		case EventBack:
			if s.IsLargeGroup {
				s.Step = StepGroupSizeSelection
			} else {
				s.Step = StepCircuitSelection
			}
		}

	case StepConfirmation:
		if ev.Type == EventStartOver {
			return Initial(), EffectNone
		}
	}
	return s, EffectNone
}

// offered resolves a selection against the catalog and the current group path.
func (s State) offered(c *models.SpaCircuit, cat *catalog.Catalog) (models.SpaCircuit, bool) {
	if c == nil {
		return models.SpaCircuit{}, false
	}
	found, ok := cat.Get(c.ID)
	if !ok || found.IsGroupCircuit != s.IsLargeGroup {
		return models.SpaCircuit{}, false
	}
	return found, true
}

// Machine owns a State together with the two kiosk timers: the generic
// inactivity timer and the confirmation countdown.
type Machine struct {
	catalog             *catalog.Catalog
	inactivityTimeout   time.Duration
	confirmationTimeout time.Duration
	now                 func() time.Time

	state            State
	lastActivity     time.Time
	confirmationEnds time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithTimeouts overrides the 60s inactivity and confirmation timeouts.
func WithTimeouts(inactivity, confirmation time.Duration) Option {
	return func(m *Machine) {
		m.inactivityTimeout = inactivity
		m.confirmationTimeout = confirmation
	}
}

func NewMachine(cat *catalog.Catalog, opts ...Option) *Machine {
	m := &Machine{
		catalog:             cat,
		inactivityTimeout:   60 * time.Second,
		confirmationTimeout: 60 * time.Second,
		now:                 time.Now,
		state:               Initial(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastActivity = m.now()
	return m
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Catalog() *catalog.Catalog { return m.catalog }

// Handle records activity and applies ev.
func (m *Machine) Handle(ev Event) Effect {
	m.RecordActivity()
	prev := m.state.Step
	next, effect := Transition(m.state, ev, m.catalog)
	m.state = next
	if next.Step == StepConfirmation && prev != StepConfirmation {
		m.confirmationEnds = m.now().Add(m.confirmationTimeout)
	}
	return effect
}

// RecordActivity marks guest input. On the confirmation screen it also
// restarts the countdown.
func (m *Machine) RecordActivity() {
	now := m.now()
	m.lastActivity = now
	if m.state.Step == StepConfirmation {
		m.confirmationEnds = now.Add(m.confirmationTimeout)
	}
}

// CheckTimeouts resets the machine to Welcome when the timer that applies to
// the current step has expired, and reports whether it did.
func (m *Machine) CheckTimeouts() bool {
	now := m.now()
	switch {
	case m.state.Step == StepConfirmation:
		if now.Before(m.confirmationEnds) {
			return false
		}
	case m.state.Step.timed():
		if now.Sub(m.lastActivity) < m.inactivityTimeout {
			return false
		}
	default:
		return false
	}
	m.Reset()
	return true
}

// ConfirmationRemaining is the time left on the confirmation countdown, zero
// on any other step.
func (m *Machine) ConfirmationRemaining() time.Duration {
	if m.state.Step != StepConfirmation {
		return 0
	}
	left := m.confirmationEnds.Sub(m.now())
	if left < 0 {
		return 0
	}
	return left
}

// Reset returns to Welcome and clears all selections.
func (m *Machine) Reset() {
	m.state = Initial()
	m.lastActivity = m.now()
	m.confirmationEnds = time.Time{}
}
