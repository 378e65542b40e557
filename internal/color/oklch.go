// Package color implements the perceptual color math used by the theme engine:
// OKLCH to sRGB conversion, hex and CSS formatting, gamut mapping and WCAG
// luminance/contrast.
package color

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// gamutEpsilon tolerates matrix round-off at the edge of the sRGB cube; OKLCH
// white lands a few 1e-4 outside it.
const gamutEpsilon = 1e-3

// OKLCH is an immutable color in the OKLCH perceptual space.
// L is lightness in [0,1], C is chroma (>= 0), H is hue in degrees [0,360).
type OKLCH struct {
	L float64
	C float64
	H float64
}

// New validates the components and returns a color with its hue normalized into [0,360).
func New(l, c, h float64) (OKLCH, error) {
	if math.IsNaN(l) || math.IsNaN(c) || math.IsNaN(h) || math.IsInf(h, 0) {
		return OKLCH{}, fmt.Errorf("oklch components must be finite numbers")
	}
	if l < 0 || l > 1 {
		return OKLCH{}, fmt.Errorf("lightness %g out of range [0,1]", l)
	}
	if c < 0 || math.IsInf(c, 0) {
		return OKLCH{}, fmt.Errorf("chroma %g must be a finite non-negative number", c)
	}
	return OKLCH{L: l, C: c, H: normalizeHue(h)}, nil
}

// MustNew is New for literals known to be valid. It panics on error.
func MustNew(l, c, h float64) OKLCH {
	col, err := New(l, c, h)
	if err != nil {
		panic(err)
	}
	return col
}

func normalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

// WithLightness returns a copy with L replaced (clamped to [0,1]).
func (c OKLCH) WithLightness(l float64) OKLCH {
	c.L = clamp01(l)
	return c
}

// WithChroma returns a copy with C replaced (floored at 0).
func (c OKLCH) WithChroma(chroma float64) OKLCH {
	c.C = math.Max(0, chroma)
	return c
}

// Key is a canonical, exact representation used for value-keyed memoization.
func (c OKLCH) Key() string {
	return strconv.FormatFloat(c.L, 'g', -1, 64) + "/" +
		strconv.FormatFloat(c.C, 'g', -1, 64) + "/" +
		strconv.FormatFloat(c.H, 'g', -1, 64)
}

// String implements fmt.Stringer with the CSS representation.
func (c OKLCH) String() string {
	return c.CSS()
}

// CSS formats the color as a CSS oklch() function. Lightness and chroma use four
// decimals, hue two; generated stylesheets depend on this exact precision.
func (c OKLCH) CSS() string {
	return fmt.Sprintf("oklch(%.4f %.4f %.2f)", c.L, c.C, c.H)
}

// Hex converts to a lowercase #rrggbb string. Out-of-gamut linear components are
// clamped to [0,1] before gamma encoding.
func (c OKLCH) Hex() string {
	r, g, b := c.linearRGB()
	return colorful.LinearRgb(clamp01(r), clamp01(g), clamp01(b)).Hex()
}

// ToHex is the function form of OKLCH.Hex.
func ToHex(c OKLCH) string {
	return c.Hex()
}

// ToCSSString is the function form of OKLCH.CSS.
func ToCSSString(c OKLCH) string {
	return c.CSS()
}

// InGamut reports whether the color is representable in sRGB without clamping.
func (c OKLCH) InGamut() bool {
	r, g, b := c.linearRGB()
	return inUnit(r) && inUnit(g) && inUnit(b)
}

// MapToGamut reduces chroma until the color fits sRGB. Lightness and hue are kept.
func MapToGamut(c OKLCH) OKLCH {
	c.L = clamp01(c.L)
	if c.InGamut() {
		return c
	}

	lo, hi := 0.0, c.C
	for i := 0; i < 32; i++ {
		mid := (lo + hi) / 2
		if c.WithChroma(mid).InGamut() {
			lo = mid
		} else {
			hi = mid
		}
	}
	return c.WithChroma(lo)
}

func (c OKLCH) linearRGB() (float64, float64, float64) {
	return colorful.OkLch(c.L, c.C, c.H).LinearRgb()
}

// FromHex parses #rgb or #rrggbb into its OKLCH coordinates.
func FromHex(s string) (OKLCH, error) {
	col, err := colorful.Hex(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return OKLCH{}, fmt.Errorf("parse hex color %q: %w", s, err)
	}
	l, ch, h := col.OkLch()
	return OKLCH{L: clamp01(l), C: math.Max(0, ch), H: normalizeHue(h)}, nil
}

var oklchPattern = regexp.MustCompile(`^oklch\(\s*([0-9.]+%?)\s+([0-9.]+)\s+([-0-9.]+)(?:deg)?\s*\)$`)

var namedColors = map[string]string{
	"black": "#000000",
	"white": "#ffffff",
}

// ParseCSS parses the subset of CSS color syntax the theme engine understands
// in literal token values: hex, oklch() and the black/white keywords.
func ParseCSS(s string) (OKLCH, bool) {
	value := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[value]; ok {
		value = hex
	}

	if strings.HasPrefix(value, "#") {
		if len(value) != 4 && len(value) != 7 {
			return OKLCH{}, false
		}
		col, err := FromHex(value)
		return col, err == nil
	}

	m := oklchPattern.FindStringSubmatch(value)
	if m == nil {
		return OKLCH{}, false
	}

	lightness := m[1]
	scaleL := 1.0
	if strings.HasSuffix(lightness, "%") {
		lightness = strings.TrimSuffix(lightness, "%")
		scaleL = 0.01
	}
	l, errL := strconv.ParseFloat(lightness, 64)
	ch, errC := strconv.ParseFloat(m[2], 64)
	h, errH := strconv.ParseFloat(m[3], 64)
	if errL != nil || errC != nil || errH != nil {
		return OKLCH{}, false
	}

	col, err := New(l*scaleL, ch, h)
	return col, err == nil
}

func inUnit(v float64) bool {
	return v >= -gamutEpsilon && v <= 1+gamutEpsilon
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
