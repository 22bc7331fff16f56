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
	"github.com/mdp/qrterminal/v3"

	"github.com/saunasuites/suites/internal/checkin"
	"github.com/saunasuites/suites/internal/models"
)

// persistTimeout bounds a session write started from the kiosk.
const persistTimeout = 15 * time.Second

// inactivityTickMsg drives the generic inactivity check
type inactivityTickMsg time.Time

// countdownTickMsg refreshes the confirmation countdown
type countdownTickMsg time.Time

// sessionPersistedMsg reports the outcome of a session write. An empty id
// means the write failed and was logged.
type sessionPersistedMsg struct {
	sessionID string
}

// option is one selectable action on a kiosk screen
type option struct {
	label string
	event checkin.Event
}

var progressLabels = [checkin.ProgressSteps]string{
	"Door Code", "Group Size", "Circuit", "Door Access", "Confirmation",
}

// KioskModel is the lobby check-in wizard.
type KioskModel struct {
	machine    *checkin.Machine
	sessions   checkin.SessionCreator
	roomID     string
	bookingURL string
	logger     *slog.Logger
	keys       KeyMap

	inactivityCheck time.Duration

	cursor        int
	lastSessionID string
	qr            string
	width         int
	height        int
}

type KioskConfig struct {
	Machine         *checkin.Machine
	Sessions        checkin.SessionCreator
	RoomID          string
	BookingURL      string
	InactivityCheck time.Duration
	Logger          *slog.Logger
}

func NewKioskModel(cfg KioskConfig) KioskModel {
	return KioskModel{
		machine:         cfg.Machine,
		sessions:        cfg.Sessions,
		roomID:          cfg.RoomID,
		bookingURL:      cfg.BookingURL,
		logger:          cfg.Logger,
		keys:            DefaultKeyMap(),
		inactivityCheck: cfg.InactivityCheck,
		qr:              renderQR(cfg.BookingURL),
	}
}

func renderQR(url string) string {
	if url == "" {
		return ""
	}
	var buf strings.Builder
	qrterminal.GenerateHalfBlock(url, qrterminal.L, &buf)
	return buf.String()
}

func (m KioskModel) Init() tea.Cmd {
	return tea.Batch(inactivityTickCmd(m.inactivityCheck), countdownTickCmd())
}

func inactivityTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return inactivityTickMsg(t)
	})
}

func countdownTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return countdownTickMsg(t)
	})
}

// persistCmd writes the session off the event loop
func (m KioskModel) persistCmd(circuit models.SpaCircuit) tea.Cmd {
	sessions, roomID, logger := m.sessions, m.roomID, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		return sessionPersistedMsg{sessionID: checkin.Persist(ctx, sessions, roomID, circuit, logger)}
	}
}

// Step returns the current wizard step
func (m KioskModel) Step() checkin.Step {
	return m.machine.State().Step
}

func (m KioskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.MouseMsg:
		m.machine.RecordActivity()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case inactivityTickMsg:
		m.checkTimeouts()
		return m, inactivityTickCmd(m.inactivityCheck)

	case countdownTickMsg:
		if m.Step() == checkin.StepConfirmation {
			m.checkTimeouts()
		}
		return m, countdownTickCmd()

	case sessionPersistedMsg:
		if msg.sessionID != "" {
			m.lastSessionID = msg.sessionID
		}
	}
	return m, nil
}

func (m *KioskModel) checkTimeouts() {
	before := m.Step()
	if m.machine.CheckTimeouts() {
		m.logger.Info("kiosk reset after inactivity", "from_step", before.String())
		m.cursor = 0
	}
}

func (m KioskModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := m.options()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.machine.RecordActivity()
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		m.machine.RecordActivity()
		if m.cursor < len(opts)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(opts) == 0 {
			m.machine.RecordActivity()
			return m, nil
		}
		return m.dispatch(opts[m.cursor].event)
	case key.Matches(msg, m.keys.Back):
		return m.dispatch(checkin.Event{Type: checkin.EventBack})
	default:
		m.machine.RecordActivity()
	}
	return m, nil
}

func (m KioskModel) dispatch(ev checkin.Event) (tea.Model, tea.Cmd) {
	before := m.Step()
	effect := m.machine.Handle(ev)
	after := m.Step()
	if after != before {
		m.cursor = 0
		m.logger.Debug("kiosk step changed", "event", ev.Type.String(), "from", before.String(), "to", after.String())
	}
	if effect == checkin.EffectCreateSession {
		return m, m.persistCmd(*m.machine.State().SelectedCircuit)
	}
	return m, nil
}

// options lists the actions offered on the current screen
func (m KioskModel) options() []option {
	state := m.machine.State()
	switch state.Step {
	case checkin.StepWelcome:
		return []option{
			{"Check In", checkin.Event{Type: checkin.EventCheckIn}},
			{"Make a Reservation", checkin.Event{Type: checkin.EventMakeReservation}},
		}
	case checkin.StepDoorCodeCheck:
		return []option{
			{"Yes, I have my door code", checkin.Event{Type: checkin.EventHasCode}},
			{"No, I don't have a code", checkin.Event{Type: checkin.EventNoCode}},
			{"Back", checkin.Event{Type: checkin.EventBack}},
		}
	case checkin.StepMakeReservation:
		return []option{
			{"Back", checkin.Event{Type: checkin.EventBack}},
		}
	case checkin.StepNoDoorCode:
		return []option{
			{"Make a Reservation", checkin.Event{Type: checkin.EventMakeReservation}},
			{"Back", checkin.Event{Type: checkin.EventBack}},
		}
	case checkin.StepGroupSizeSelection:
		return []option{
			{"1-2 guests", checkin.Event{Type: checkin.EventSmallGroup}},
			{"3-4 guests", checkin.Event{Type: checkin.EventLargeGroup}},
			{"Back", checkin.Event{Type: checkin.EventBack}},
		}
	case checkin.StepCircuitSelection:
		circuits := state.Circuits(m.machine.Catalog())
		opts := make([]option, 0, len(circuits)+1)
		for _, c := range circuits {
			opts = append(opts, option{c.Name, checkin.Event{Type: checkin.EventSelectCircuit, Circuit: &c}})
		}
		return append(opts, option{"Back", checkin.Event{Type: checkin.EventBack}})
	case checkin.StepDoorAccess:
		return []option{
			{"I understand", checkin.Event{Type: checkin.EventConfirm}},
			{"Back", checkin.Event{Type: checkin.EventBack}},
		}
	case checkin.StepConfirmation:
		return []option{
			{"Start Over", checkin.Event{Type: checkin.EventStartOver}},
		}
	}
	return nil
}

func (m KioskModel) View() string {
	state := m.machine.State()

	var body strings.Builder
	if progress := m.renderProgress(); progress != "" {
		body.WriteString(progress)
		body.WriteString("\n\n")
	}
	body.WriteString(m.renderScreen(state))
	body.WriteString("\n")
	body.WriteString(m.renderOptions())

	frame := FrameStyle.Render(body.String())
	help := StatusBarStyle.Render(renderHelp(m.keys.KioskHelp()))
	view := lipgloss.JoinVertical(lipgloss.Left, frame, help)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
	}
	return view
}

func (m KioskModel) renderProgress() string {
	current, ok := checkin.ProgressIndex(m.Step())
	if !ok {
		return ""
	}
	parts := make([]string, len(progressLabels))
	for i, label := range progressLabels {
		switch {
		case i < current:
			parts[i] = ProgressDoneStyle.Render("● " + label)
		case i == current:
			parts[i] = ProgressCurrentStyle.Render("◉ " + label)
		default:
			parts[i] = ProgressTodoStyle.Render("○ " + label)
		}
	}
	return strings.Join(parts, MutedStyle.Render("  ─  "))
}

func (m KioskModel) renderScreen(state checkin.State) string {
	switch state.Step {
	case checkin.StepWelcome:
		return TitleStyle.Render("Welcome to Sauna Suites") + "\n" +
			SubtitleStyle.Render("Your private wellness experience awaits.")
	case checkin.StepDoorCodeCheck:
		return TitleStyle.Render("Do you have your door code?") + "\n" +
			SubtitleStyle.Render("You'll find it in your booking confirmation email.")
	case checkin.StepMakeReservation:
		var b strings.Builder
		b.WriteString(TitleStyle.Render("Make a Reservation"))
		b.WriteString("\n")
		if m.qr != "" {
			b.WriteString(m.qr)
			b.WriteString("\n")
		}
		b.WriteString(AccentStyle.Render(m.bookingURL))
		b.WriteString("\n\n")
		b.WriteString(SubtitleStyle.Render("1. Scan the QR code with your phone camera\n2. Select your preferred date and time\n3. Complete your booking to receive your door code"))
		return b.String()
	case checkin.StepNoDoorCode:
		return TitleStyle.Render("Need Help?") + "\n" +
			SubtitleStyle.Render("If you have a reservation but can't find your booking confirmation,\nemail us \"door code\" with the full name on your reservation.") + "\n\n" +
			AccentStyle.Render("Don't have a reservation?") + "\n" +
			SubtitleStyle.Render("You can book one on our website.")
	case checkin.StepGroupSizeSelection:
		return TitleStyle.Render("How many guests are in your group?")
	case checkin.StepCircuitSelection:
		return TitleStyle.Render("Choose your circuit") + m.renderHighlightedCircuit()
	case checkin.StepDoorAccess:
		return TitleStyle.Render("Door Access") +
			renderCircuitCard(state.SelectedCircuit) + "\n" +
			SubtitleStyle.Render("Your code will activate at the exact time your reservation begins.\nEnter the code at that time to access your private suite.")
	case checkin.StepConfirmation:
		remaining := int(m.machine.ConfirmationRemaining().Round(time.Second) / time.Second)
		return TitleStyle.Render("You're All Set!") +
			renderCircuitCard(state.SelectedCircuit) + "\n" +
			SubtitleStyle.Render("We hope you enjoy your private wellness experience at Sauna Suites.") + "\n\n" +
			MutedStyle.Render("Returning to the start in "+strconv.Itoa(remaining)+"s")
	}
	return ""
}

// renderHighlightedCircuit describes the circuit under the cursor
func (m KioskModel) renderHighlightedCircuit() string {
	opts := m.options()
	if m.cursor >= len(opts) || opts[m.cursor].event.Circuit == nil {
		return ""
	}
	return renderCircuitCard(opts[m.cursor].event.Circuit)
}

func renderCircuitCard(c *models.SpaCircuit) string {
	if c == nil {
		return ""
	}
	return "\n" + CircuitCardStyle.Render(AccentStyle.Render(c.Name)+"\n"+SubtitleStyle.Render(c.Description))
}

func (m KioskModel) renderOptions() string {
	var b strings.Builder
	for i, opt := range m.options() {
		if i == m.cursor {
			b.WriteString(OptionSelectedStyle.Render("❯ " + opt.label))
		} else {
			b.WriteString(OptionStyle.Render(opt.label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, HelpKeyStyle.Render(h.Key)+" "+HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, MutedStyle.Render(" │ "))
}
