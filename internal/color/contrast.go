package color

import "github.com/lucasb-eyer/go-colorful"

// WCAG thresholds commonly used by contrast rules.
const (
	RatioAANormal  = 4.5
	RatioAALarge   = 3.0
	RatioAAANormal = 7.0
)

// RelativeLuminance computes the WCAG 2.x relative luminance of the color as it
// is emitted, i.e. after hex quantization.
func RelativeLuminance(c OKLCH) float64 {
	col, err := colorful.Hex(c.Hex())
	if err != nil {
		return 0
	}
	r, g, b := col.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns (L1+0.05)/(L2+0.05) with L1 the lighter of the two.
// The result does not depend on argument order.
func ContrastRatio(a, b OKLCH) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	if lb > la {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}
