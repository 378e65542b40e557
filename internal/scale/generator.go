package scale

import (
	"math"
	"sort"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/color"
	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

const section = "colors"

// Options tunes the ramp shape.
type Options struct {
	// AnchorStep is the step value that reproduces the source color exactly.
	// The requested step closest to it becomes the anchor. The anchor is not
	// gamut-mapped: an out-of-gamut source stays out of gamut there, and only
	// its hex is clamped.
	AnchorStep int
	// MinLightness and MaxLightness bound the dark and light ends of the ramp.
	MinLightness float64
	MaxLightness float64
	// ChromaTaper is the fraction of source chroma removed at the ramp extremes.
	ChromaTaper float64
}

// DefaultOptions returns the library's ramp parameters. Every generated step
// except the anchor is mapped into sRGB.
func DefaultOptions() Options {
	return Options{
		AnchorStep:   500,
		MinLightness: 0.22,
		MaxLightness: 0.97,
		ChromaTaper:  0.55,
	}
}

// Generator builds scales. It is stateless apart from the shared swatch cache.
type Generator struct {
	opts  Options
	cache *color.Cache
}

// NewGenerator creates a Generator. A nil cache disables memoization.
func NewGenerator(cache *color.Cache, opts Options) *Generator {
	return &Generator{opts: opts, cache: cache}
}

// Generate expands source over steps using the default options and no cache.
func Generate(source color.OKLCH, steps []int) (Scale, error) {
	return NewGenerator(nil, DefaultOptions()).Generate("", source, steps, nil)
}

// Generate expands source into a scale named name. Steps may arrive in any
// order; the result is sorted ascending. Overrides replace individual generated
// steps and must reference requested steps.
func (g *Generator) Generate(name string, source color.OKLCH, steps []int, overrides map[int]color.OKLCH) (Scale, error) {
	label := name
	if label == "" {
		label = "scale"
	}

	ordered, err := normalizeSteps(label, steps)
	if err != nil {
		return Scale{}, err
	}
	for id := range overrides {
		if !containsStep(ordered, id) {
			return Scale{}, bperrors.Invalidf(section, label, "override for step %d which is not in the requested steps", id)
		}
	}

	out := Scale{Name: name, Steps: make([]Step, len(ordered))}
	if len(ordered) == 1 {
		out.Steps[0] = g.step(ordered[0], source, overrides)
		return out, nil
	}

	anchor := g.anchorIndex(ordered)
	lightEnd := math.Max(g.opts.MaxLightness, source.L)
	darkEnd := math.Min(g.opts.MinLightness, source.L)
	last := len(ordered) - 1

	for i, id := range ordered {
		if i == anchor {
			out.Steps[i] = g.step(id, source, overrides)
			continue
		}

		var distance, lightness float64
		if i < anchor {
			distance = float64(anchor-i) / float64(anchor)
			lightness = source.L + (lightEnd-source.L)*distance
		} else {
			distance = float64(i-anchor) / float64(last-anchor)
			lightness = source.L - (source.L-darkEnd)*distance
		}

		chroma := source.C * (1 - g.opts.ChromaTaper*distance*distance)
		target := color.MapToGamut(source.WithLightness(lightness).WithChroma(chroma))
		out.Steps[i] = g.step(id, target, overrides)
	}

	return out, nil
}

func (g *Generator) step(id int, generated color.OKLCH, overrides map[int]color.OKLCH) Step {
	if override, ok := overrides[id]; ok {
		return Step{ID: id, Swatch: g.cache.Swatch(color.MapToGamut(override)), Overridden: true}
	}
	return Step{ID: id, Swatch: g.cache.Swatch(generated)}
}

// anchorIndex picks the step closest to the anchor value; ties favour the lighter step.
func (g *Generator) anchorIndex(ordered []int) int {
	best := 0
	bestDistance := math.MaxInt
	for i, id := range ordered {
		d := id - g.opts.AnchorStep
		if d < 0 {
			d = -d
		}
		if d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best
}

func normalizeSteps(label string, steps []int) ([]int, error) {
	if len(steps) == 0 {
		return nil, bperrors.Invalidf(section, label, "at least one scale step is required")
	}

	seen := make(map[int]struct{}, len(steps))
	ordered := make([]int, 0, len(steps))
	for _, id := range steps {
		if id <= 0 {
			return nil, bperrors.Invalidf(section, label, "scale step %d must be positive", id)
		}
		if _, dup := seen[id]; dup {
			return nil, bperrors.Invalidf(section, label, "duplicate scale step %d", id)
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Ints(ordered)
	return ordered, nil
}

func containsStep(steps []int, id int) bool {
	i := sort.SearchInts(steps, id)
	return i < len(steps) && steps[i] == id
}
