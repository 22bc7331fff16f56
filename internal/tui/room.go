package tui

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saunasuites/suites/internal/models"
	"github.com/saunasuites/suites/internal/room"
)

const activateTimeout = 10 * time.Second

// PollMsg carries a poll result into the room display. The poller is run
// outside the program and results are delivered with Program.Send.
type PollMsg room.PollResult

// clockTickMsg advances the step timer
type clockTickMsg time.Time

// activationMsg reports the outcome of marking a session active
type activationMsg struct {
	sessionID string
	err       error
}

// StatusUpdater is the write side the room display needs.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus) error
}

// RoomModel is the in-suite display for one room.
type RoomModel struct {
	ctrl    *room.Controller
	updater StatusUpdater
	logger  *slog.Logger
	keys    KeyMap

	width  int
	height int
}

func NewRoomModel(ctrl *room.Controller, updater StatusUpdater, logger *slog.Logger) RoomModel {
	return RoomModel{
		ctrl:    ctrl,
		updater: updater,
		logger:  logger,
		keys:    DefaultKeyMap(),
	}
}

func (m RoomModel) Init() tea.Cmd {
	return clockTickCmd()
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m RoomModel) activateCmd(sessionID string) tea.Cmd {
	updater := m.updater
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), activateTimeout)
		defer cancel()
		err := updater.UpdateStatus(ctx, sessionID, models.SessionStatusActive)
		return activationMsg{sessionID: sessionID, err: err}
	}
}

func (m RoomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case PollMsg:
		prev := m.ctrl.Circuit()
		if !m.ctrl.ApplyPoll(msg.Seq, msg.Session, msg.Err) {
			m.logger.Debug("discarded stale poll", "room_id", m.ctrl.RoomID(), "seq", msg.Seq)
			return m, nil
		}
		if cur := m.ctrl.Circuit(); cur != nil && (prev == nil || prev.ID != cur.ID) {
			m.logger.Info("circuit loaded", "room_id", m.ctrl.RoomID(), "circuit_id", cur.ID, "steps", len(m.ctrl.Steps()))
		}

	case clockTickMsg:
		m.ctrl.Tick()
		return m, clockTickCmd()

	case activationMsg:
		if msg.err != nil {
			m.logger.Error("failed to mark session active", "session_id", msg.sessionID, "error", msg.err)
		} else {
			m.logger.Info("session marked active", "session_id", msg.sessionID)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			if id := m.ctrl.Start(); id != "" {
				return m, m.activateCmd(id)
			}
		case key.Matches(msg, m.keys.Pause):
			m.ctrl.Pause()
		case key.Matches(msg, m.keys.Reset):
			m.ctrl.Reset()
		case key.Matches(msg, m.keys.Next):
			m.ctrl.Next()
		case key.Matches(msg, m.keys.Previous):
			m.ctrl.Previous()
		}
	}
	return m, nil
}

func (m RoomModel) View() string {
	var content string
	switch m.ctrl.Status() {
	case room.StatusLoading:
		content = FrameStyle.Render(AccentStyle.Render("Loading session data..."))
	case room.StatusWaiting:
		content = FrameStyle.Render(
			TitleStyle.Render("No active session found for this room") + "\n" +
				SubtitleStyle.Render("Please use the check-in kiosk in the lobby to select your spa circuit."))
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			FrameStyle.Render(m.renderCircuit()),
			StatusBarStyle.Render(renderHelp(m.keys.RoomHelp())))
	}

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m RoomModel) renderCircuit() string {
	circuit := m.ctrl.Circuit()
	step, _ := m.ctrl.Current()

	var b strings.Builder
	b.WriteString(TitleStyle.Render(circuit.Name))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(m.ctrl.Header()))
	b.WriteString("\n\n")
	if emoji := circuit.Emoji(); emoji != "" {
		b.WriteString(emoji + "  ")
	}
	b.WriteString(AccentStyle.Render(step.ActivityLabel))
	b.WriteString("\n")
	b.WriteString(ClockStyle.Render(m.ctrl.Clock()))
	b.WriteString("\n")
	if m.ctrl.Running() {
		b.WriteString(StatusRunningStyle.Render("● Running"))
	} else {
		b.WriteString(StatusIdleStyle.Render("○ Paused"))
	}
	b.WriteString("\n\n")

	for i, s := range m.ctrl.Steps() {
		line := strconv.Itoa(s.DurationMinutes) + " min " + s.ActivityLabel
		switch {
		case i == m.ctrl.Index():
			b.WriteString(OptionSelectedStyle.Render("❯ " + line))
		case i < m.ctrl.Index():
			b.WriteString(ProgressDoneStyle.PaddingLeft(2).Render(line))
		default:
			b.WriteString(OptionStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
