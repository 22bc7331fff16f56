package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/saunasuites/suites/internal/models"
)

// StepSeparator splits a circuit description into its timed segments.
const StepSeparator = "→"

// DefaultStepMinutes is used for segments that carry no "<N> min" prefix.
const DefaultStepMinutes = 5

var stepPattern = regexp.MustCompile(`(\d+)\s+min\s+(.*)`)

// ParseSteps derives the ordered steps of a circuit from its description.
// Blank segments are skipped.
func ParseSteps(description string) []models.CircuitStep {
	var steps []models.CircuitStep
	for _, segment := range strings.Split(description, StepSeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		steps = append(steps, parseSegment(segment))
	}
	return steps
}

func parseSegment(segment string) models.CircuitStep {
	m := stepPattern.FindStringSubmatch(segment)
	if m == nil {
		return models.CircuitStep{DurationMinutes: DefaultStepMinutes, ActivityLabel: segment}
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return models.CircuitStep{DurationMinutes: DefaultStepMinutes, ActivityLabel: segment}
	}
	return models.CircuitStep{DurationMinutes: minutes, ActivityLabel: strings.TrimSpace(m[2])}
}
