package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saunasuites/suites/internal/catalog"
	"github.com/saunasuites/suites/internal/checkin"
	"github.com/saunasuites/suites/internal/models"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

type recordingCreator struct {
	roomID  string
	circuit models.SpaCircuit
	err     error
}

func (r *recordingCreator) CreateSession(_ context.Context, roomID string, circuit models.SpaCircuit) (string, error) {
	r.roomID = roomID
	r.circuit = circuit
	if r.err != nil {
		return "", r.err
	}
	return "sess-1", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestKiosk(creator checkin.SessionCreator) (KioskModel, *testClock) {
	clock := &testClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	machine := checkin.NewMachine(catalog.Default(), checkin.WithClock(clock.now))
	m := NewKioskModel(KioskConfig{
		Machine:         machine,
		Sessions:        creator,
		RoomID:          "7",
		BookingURL:      "https://www.saunasuites.com",
		InactivityCheck: 10 * time.Second,
		Logger:          discardLogger(),
	})
	return m, clock
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	upKey    = tea.KeyMsg{Type: tea.KeyUp}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func press(t *testing.T, m KioskModel, msgs ...tea.Msg) (KioskModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(KioskModel)
	}
	return m, cmd
}

// TestKioskFreestyleCheckIn walks the small-group path with the keyboard
func TestKioskFreestyleCheckIn(t *testing.T) {
	creator := &recordingCreator{}
	m, _ := newTestKiosk(creator)

	m, _ = press(t, m, enterKey)
	if m.Step() != checkin.StepDoorCodeCheck {
		t.Fatalf("step = %s, want door-code-check", m.Step())
	}
	m, _ = press(t, m, enterKey, enterKey)
	if m.Step() != checkin.StepCircuitSelection {
		t.Fatalf("step = %s, want circuit-selection", m.Step())
	}

	// freestyle is the fifth non-group circuit
	m, _ = press(t, m, downKey, downKey, downKey, downKey)
	if !strings.Contains(m.View(), "No rules.") {
		t.Error("expected highlighted circuit description in view")
	}
	m, _ = press(t, m, enterKey)
	if m.Step() != checkin.StepDoorAccess {
		t.Fatalf("step = %s, want door-access", m.Step())
	}

	m, cmd := press(t, m, enterKey)
	if m.Step() != checkin.StepConfirmation {
		t.Fatalf("step = %s, want confirmation", m.Step())
	}
	if cmd == nil {
		t.Fatal("expected persist command on confirm")
	}
	msg := cmd()
	if creator.roomID != "7" || creator.circuit.ID != "freestyle" {
		t.Errorf("persisted %q/%q, want 7/freestyle", creator.roomID, creator.circuit.ID)
	}
	m, _ = press(t, m, msg)
	if m.lastSessionID != "sess-1" {
		t.Errorf("lastSessionID = %q", m.lastSessionID)
	}
	if !strings.Contains(m.View(), "Returning to the start in 60s") {
		t.Errorf("expected countdown in view:\n%s", m.View())
	}
}

func TestKioskConfirmSurvivesStoreFailure(t *testing.T) {
	creator := &recordingCreator{err: errors.New("503")}
	m, _ := newTestKiosk(creator)

	// large group jumps straight to door access with the group circuit
	m, _ = press(t, m, enterKey, enterKey, downKey, enterKey)
	if m.Step() != checkin.StepDoorAccess {
		t.Fatalf("step = %s, want door-access", m.Step())
	}
	m, cmd := press(t, m, enterKey)
	if m.Step() != checkin.StepConfirmation {
		t.Fatalf("step = %s, want confirmation", m.Step())
	}
	m, _ = press(t, m, cmd())
	if m.lastSessionID != "" {
		t.Errorf("failed write should not record an id, got %q", m.lastSessionID)
	}
	if creator.circuit.ID != "group-circuit" {
		t.Errorf("persisted circuit %q, want group-circuit", creator.circuit.ID)
	}
}

func TestKioskCursorBounds(t *testing.T) {
	m, _ := newTestKiosk(&recordingCreator{})

	m, _ = press(t, m, upKey)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after up at top", m.cursor)
	}
	m, _ = press(t, m, downKey, downKey, downKey)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1 on two-option screen", m.cursor)
	}
	m, _ = press(t, m, enterKey)
	if m.Step() != checkin.StepMakeReservation {
		t.Fatalf("step = %s, want make-reservation", m.Step())
	}
	if m.cursor != 0 {
		t.Errorf("cursor should reset on step change, got %d", m.cursor)
	}
	if !strings.Contains(m.View(), "www.saunasuites.com") {
		t.Error("expected booking url on reservation screen")
	}
}

func TestKioskBackNavigation(t *testing.T) {
	m, _ := newTestKiosk(&recordingCreator{})

	m, _ = press(t, m, enterKey, downKey, enterKey)
	if m.Step() != checkin.StepNoDoorCode {
		t.Fatalf("step = %s, want no-door-code", m.Step())
	}
	m, _ = press(t, m, escKey)
	if m.Step() != checkin.StepDoorCodeCheck {
		t.Fatalf("step = %s, want door-code-check", m.Step())
	}
	m, _ = press(t, m, escKey)
	if m.Step() != checkin.StepWelcome {
		t.Fatalf("step = %s, want welcome", m.Step())
	}
}

func TestKioskInactivityReset(t *testing.T) {
	m, clock := newTestKiosk(&recordingCreator{})
	m, _ = press(t, m, enterKey, enterKey)

	clock.t = clock.t.Add(30 * time.Second)
	m, _ = press(t, m, tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	clock.t = clock.t.Add(40 * time.Second)

	m, cmd := press(t, m, inactivityTickMsg(clock.t))
	if m.Step() != checkin.StepGroupSizeSelection {
		t.Fatalf("hover motion should defer reset, step = %s", m.Step())
	}
	if cmd == nil {
		t.Fatal("inactivity tick should reschedule itself")
	}

	clock.t = clock.t.Add(20 * time.Second)
	m, _ = press(t, m, inactivityTickMsg(clock.t))
	if m.Step() != checkin.StepWelcome {
		t.Fatalf("step = %s, want welcome after 60s idle", m.Step())
	}
}

func TestKioskConfirmationCountdown(t *testing.T) {
	m, clock := newTestKiosk(&recordingCreator{})
	m, _ = press(t, m, enterKey, enterKey, downKey, enterKey, enterKey)
	if m.Step() != checkin.StepConfirmation {
		t.Fatalf("step = %s, want confirmation", m.Step())
	}

	clock.t = clock.t.Add(59 * time.Second)
	m, _ = press(t, m, countdownTickMsg(clock.t))
	if !strings.Contains(m.View(), "in 1s") {
		t.Errorf("expected 1s remaining:\n%s", m.View())
	}

	clock.t = clock.t.Add(time.Second)
	m, cmd := press(t, m, countdownTickMsg(clock.t))
	if m.Step() != checkin.StepWelcome {
		t.Fatalf("step = %s, want welcome", m.Step())
	}
	if cmd == nil {
		t.Error("countdown tick should reschedule itself")
	}
}

func TestKioskProgressIndicator(t *testing.T) {
	m, _ := newTestKiosk(&recordingCreator{})
	if strings.Contains(m.View(), "Door Code") {
		t.Error("progress indicator should be hidden on welcome")
	}
	m, _ = press(t, m, enterKey)
	if !strings.Contains(m.View(), "◉ Door Code") {
		t.Errorf("expected door code to be current:\n%s", m.View())
	}
}

func TestKioskQuit(t *testing.T) {
	m, _ := newTestKiosk(&recordingCreator{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
