// Package room drives the in-suite display: it tracks the active session of
// one room and runs the guest's step timer.
package room

import (
	"fmt"

	"github.com/saunasuites/suites/internal/catalog"
	"github.com/saunasuites/suites/internal/models"
)

// Status is what the display should render.
type Status int

const (
	StatusLoading Status = iota
	StatusWaiting
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusWaiting:
		return "waiting"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Controller holds the display state for one room. It is not safe for
// concurrent use; callers serialize access through their event loop.
type Controller struct {
	roomID string

	status  Status
	session *models.SessionRecord
	steps   []models.CircuitStep
	index   int
	elapsed int // seconds
	running bool

	lastSeq   uint64
	activated bool
}

func NewController(roomID string) *Controller {
	return &Controller{roomID: roomID, status: StatusLoading}
}

func (c *Controller) RoomID() string { return c.roomID }

// ApplyPoll folds the result of poll number seq into the display. Results
// older than the newest applied poll are discarded and ApplyPoll returns
// false. A fetch error counts as no session.
func (c *Controller) ApplyPoll(seq uint64, rec *models.SessionRecord, err error) bool {
	if seq <= c.lastSeq {
		return false
	}
	c.lastSeq = seq

	if err != nil || rec == nil || rec.SelectedCircuit == nil {
		c.clear()
		return true
	}

	if c.session != nil && c.session.SelectedCircuit.ID == rec.SelectedCircuit.ID {
		if c.session.SessionID != rec.SessionID {
			c.activated = false
		}
		c.session = rec
		return true
	}

	c.session = rec
	c.steps = catalog.ParseSteps(rec.SelectedCircuit.Description)
	c.index = 0
	c.elapsed = 0
	c.running = false
	c.activated = false
	c.status = StatusReady
	return true
}

func (c *Controller) clear() {
	c.status = StatusWaiting
	c.session = nil
	c.steps = nil
	c.index = 0
	c.elapsed = 0
	c.running = false
	c.activated = false
}

func (c *Controller) Status() Status { return c.status }

func (c *Controller) Session() *models.SessionRecord { return c.session }

// Circuit returns the circuit on display, nil while waiting.
func (c *Controller) Circuit() *models.SpaCircuit {
	if c.session == nil {
		return nil
	}
	return c.session.SelectedCircuit
}

func (c *Controller) Steps() []models.CircuitStep { return c.steps }

func (c *Controller) Index() int { return c.index }

func (c *Controller) ElapsedSeconds() int { return c.elapsed }

func (c *Controller) Running() bool { return c.running }

// Current returns the step on display.
func (c *Controller) Current() (models.CircuitStep, bool) {
	if len(c.steps) == 0 {
		return models.CircuitStep{}, false
	}
	return c.steps[c.index], true
}

// Next moves to the following step and zeroes the clock. No-op on the last step.
func (c *Controller) Next() {
	if c.index >= len(c.steps)-1 {
		return
	}
	c.index++
	c.elapsed = 0
}

// Previous moves back one step and zeroes the clock. No-op on the first step.
func (c *Controller) Previous() {
	if c.index <= 0 {
		return
	}
	c.index--
	c.elapsed = 0
}

// Start runs the clock. The first start of a pending session returns its id
// so the caller can mark it active; otherwise it returns "".
func (c *Controller) Start() string {
	if c.status != StatusReady {
		return ""
	}
	c.running = true
	if c.activated || c.session.Status != models.SessionStatusPending {
		return ""
	}
	c.activated = true
	return c.session.SessionID
}

func (c *Controller) Pause() {
	c.running = false
}

// Reset stops the clock and zeroes elapsed time.
func (c *Controller) Reset() {
	c.running = false
	c.elapsed = 0
}

// Tick advances the clock by one second while it runs.
func (c *Controller) Tick() {
	if c.running {
		c.elapsed++
	}
}

// Header is the "Step i of n" caption.
func (c *Controller) Header() string {
	if len(c.steps) == 0 {
		return ""
	}
	return fmt.Sprintf("Step %d of %d", c.index+1, len(c.steps))
}

// Clock renders elapsed time against the current step's duration.
func (c *Controller) Clock() string {
	step, _ := c.Current()
	return FormatTime(c.elapsed, step.DurationMinutes)
}

// FormatTime renders "MM:SS / N:00".
func FormatTime(elapsedSeconds, durationMinutes int) string {
	return fmt.Sprintf("%02d:%02d / %d:00", elapsedSeconds/60, elapsedSeconds%60, durationMinutes)
}
