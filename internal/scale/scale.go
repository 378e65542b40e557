// Package scale expands a single source color into a stepped lightness ramp.
package scale

import "github.com/KyleBlankRollins/blueprint-sub003/internal/color"

// DefaultSteps is the conventional 50 (lightest) to 950 (darkest) ramp.
var DefaultSteps = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900, 950}

// Step is one rung of a color ramp.
type Step struct {
	ID         int
	Swatch     color.Swatch
	Overridden bool
}

// Scale is the ordered step mapping for one color family. Steps are sorted by ID.
type Scale struct {
	Name  string
	Steps []Step
}

// Step looks up a step by its identifier.
func (s Scale) Step(id int) (Step, bool) {
	for _, step := range s.Steps {
		if step.ID == id {
			return step, true
		}
	}
	return Step{}, false
}

// IDs returns the step identifiers in ascending order.
func (s Scale) IDs() []int {
	ids := make([]int, len(s.Steps))
	for i, step := range s.Steps {
		ids[i] = step.ID
	}
	return ids
}

// Len returns the number of steps.
func (s Scale) Len() int {
	return len(s.Steps)
}
