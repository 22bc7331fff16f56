package models

// SpaCircuit is a named sequence of timed spa activities a guest follows.
type SpaCircuit struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description" yaml:"description"`
	IsGroupCircuit bool   `json:"isGroupCircuit,omitempty" yaml:"isGroupCircuit,omitempty"`
}

// Emoji returns the leading symbol of the circuit name, or "" when the name
// has no separate leading token.
func (c SpaCircuit) Emoji() string {
	for i, r := range c.Name {
		if r == ' ' {
			return c.Name[:i]
		}
	}
	return ""
}

// Title returns the circuit name without its leading symbol.
func (c SpaCircuit) Title() string {
	for i, r := range c.Name {
		if r == ' ' {
			return c.Name[i+1:]
		}
	}
	return c.Name
}

// CircuitStep is one timed activity derived from a circuit description.
type CircuitStep struct {
	DurationMinutes int    `json:"durationMinutes"`
	ActivityLabel   string `json:"activityLabel"`
}
