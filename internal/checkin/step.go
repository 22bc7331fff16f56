// Package checkin implements the kiosk check-in wizard as a finite-state
// machine. It has no UI dependencies; the tui package drives it.
package checkin

// Step identifies a screen of the check-in wizard.
type Step int

const (
	StepWelcome Step = iota
	StepDoorCodeCheck
	StepMakeReservation
	StepGroupSizeSelection
	StepCircuitSelection
	StepDoorAccess
	StepConfirmation
	StepNoDoorCode
)

var stepNames = [...]string{
	StepWelcome:            "welcome",
	StepDoorCodeCheck:      "door-code-check",
	StepMakeReservation:    "make-reservation",
	StepGroupSizeSelection: "group-size-selection",
	StepCircuitSelection:   "circuit-selection",
	StepDoorAccess:         "door-access",
	StepConfirmation:       "confirmation",
	StepNoDoorCode:         "no-door-code",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// timed reports whether the generic inactivity timer applies on this step.
func (s Step) timed() bool {
	return s != StepWelcome && s != StepConfirmation
}

// ProgressSteps is the number of segments in the kiosk progress indicator.
const ProgressSteps = 5

// ProgressIndex maps a step onto the progress indicator. ok is false on
// steps where the indicator is hidden.
func ProgressIndex(s Step) (index int, ok bool) {
	switch s {
	case StepDoorCodeCheck, StepNoDoorCode:
		return 0, true
	case StepGroupSizeSelection:
		return 1, true
	case StepCircuitSelection:
		return 2, true
	case StepDoorAccess:
		return 3, true
	case StepConfirmation:
		return 4, true
	default:
		return 0, false
	}
}
