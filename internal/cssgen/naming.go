package cssgen

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/theme"
)

// colorTokens is the fixed set of semantic token names emitted under the
// --bp-color- prefix. Anything else is emitted as --bp-<name>.
var colorTokens = map[string]struct{}{
	"primary":         {},
	"primaryHover":    {},
	"primaryActive":   {},
	"primaryText":     {},
	"secondary":       {},
	"secondaryHover":  {},
	"secondaryText":   {},
	"accent":          {},
	"background":      {},
	"surface":         {},
	"surfaceRaised":   {},
	"surfaceSunken":   {},
	"overlay":         {},
	"text":            {},
	"textMuted":       {},
	"textSubtle":      {},
	"textInverse":     {},
	"link":            {},
	"linkHover":       {},
	"border":          {},
	"borderStrong":    {},
	"borderSubtle":    {},
	"focus":           {},
	"success":         {},
	"successText":     {},
	"warning":         {},
	"warningText":     {},
	"error":           {},
	"errorText":       {},
	"info":            {},
	"infoText":        {},
	"disabled":        {},
	"disabledText":    {},
	"selection":       {},
	"highlight":       {},
	"shadowColor":     {},
	"backgroundHover": {},
}

// IsColorToken reports whether name belongs to the color token list.
func IsColorToken(name string) bool {
	_, ok := colorTokens[name]
	return ok
}

// Kebab converts camelCase to kebab-case: textMuted -> text-muted.
func Kebab(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if r == '_' || r == ' ' || r == '.' {
			b.WriteByte('-')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TokenVar returns the custom property name of a semantic token.
func TokenVar(name string) string {
	if IsColorToken(name) {
		return "--bp-color-" + Kebab(name)
	}
	return "--bp-" + Kebab(name)
}

// PrimitiveVar returns the custom property name of a scale step.
func PrimitiveVar(family string, step int) string {
	return "--bp-" + Kebab(family) + "-" + strconv.Itoa(step)
}

// ValueCSS renders a token value: references become var() lookups of the
// primitive, literals pass through.
func ValueCSS(v theme.Value) string {
	if v.IsReference() {
		return "var(" + PrimitiveVar(v.Ref.Family, v.Ref.Step) + ")"
	}
	return v.Text
}

// Selector returns the selector for a variant block. Only the variant named
// "light" also claims :root.
func Selector(variant string) string {
	if variant == theme.DefaultVariantName {
		return `:root, [data-theme="light"]`
	}
	return `[data-theme="` + variant + `"]`
}

// multiplierName flattens a spacing multiplier into an identifier fragment: 0.5 -> 0-5.
func multiplierName(m float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(m, 'f', -1, 64), ".", "-")
}

// formatNumber prints v with at most four decimals and no trailing zeros.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
