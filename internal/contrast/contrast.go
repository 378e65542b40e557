// Package contrast checks WCAG contrast requirements between semantic tokens.
package contrast

import (
	"fmt"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/color"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/config"
)

// Rule requires Foreground on Background to reach MinRatio.
type Rule struct {
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	MinRatio   float64 `json:"min_ratio"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s/%s >= %.1f", r.Foreground, r.Background, r.MinRatio)
}

// Violation is a rule that failed for one variant. Ratio is 0 when a side
// could not be resolved; Reason then says which.
type Violation struct {
	Variant    string       `json:"variant"`
	Token      string       `json:"token"`
	Rule       Rule         `json:"rule"`
	Foreground color.Swatch `json:"-"`
	Background color.Swatch `json:"-"`
	Ratio      float64      `json:"ratio"`
	Required   float64      `json:"required"`
	Reason     string       `json:"reason,omitempty"`
}

// Resolver resolves a semantic token of a variant to a concrete color.
type Resolver interface {
	ResolveToken(variant, token string) (color.Swatch, error)
}

// Theme is a Resolver that also enumerates its variants.
type Theme interface {
	Resolver
	VariantNames() []string
}

// DefaultRules is the baseline set of pairings every Blueprint theme is checked against.
func DefaultRules() []Rule {
	return []Rule{
		{Foreground: "text", Background: "background", MinRatio: color.RatioAANormal},
		{Foreground: "text", Background: "surface", MinRatio: color.RatioAANormal},
		{Foreground: "textMuted", Background: "background", MinRatio: color.RatioAANormal},
		{Foreground: "primaryText", Background: "primary", MinRatio: color.RatioAANormal},
		{Foreground: "border", Background: "background", MinRatio: color.RatioAALarge},
	}
}

// FromConfig converts configured rules.
func FromConfig(rules []config.ContrastRule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Foreground: r.Foreground, Background: r.Background, MinRatio: r.MinRatio}
	}
	return out
}

// Applicable keeps the rules whose tokens are both present in tokenNames.
func Applicable(rules []Rule, tokenNames []string) []Rule {
	present := make(map[string]struct{}, len(tokenNames))
	for _, name := range tokenNames {
		present[name] = struct{}{}
	}

	var out []Rule
	for _, r := range rules {
		_, fg := present[r.Foreground]
		_, bg := present[r.Background]
		if fg && bg {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks rules, in order, against one variant. It never fails: a rule
// whose tokens cannot be resolved is reported as a violation with Ratio 0.
func Validate(resolver Resolver, variant string, rules []Rule) []Violation {
	var violations []Violation
	for _, rule := range rules {
		v := Violation{
			Variant:  variant,
			Token:    rule.Foreground,
			Rule:     rule,
			Required: rule.MinRatio,
		}

		fg, fgErr := resolver.ResolveToken(variant, rule.Foreground)
		bg, bgErr := resolver.ResolveToken(variant, rule.Background)
		switch {
		case fgErr != nil && bgErr != nil:
			v.Reason = fmt.Sprintf("foreground unresolved: %v; background unresolved: %v", fgErr, bgErr)
		case fgErr != nil:
			v.Reason = fmt.Sprintf("foreground unresolved: %v", fgErr)
			v.Background = bg
		case bgErr != nil:
			v.Reason = fmt.Sprintf("background unresolved: %v", bgErr)
			v.Foreground = fg
		default:
			ratio := color.ContrastRatio(fg.Color, bg.Color)
			if ratio >= rule.MinRatio {
				continue
			}
			v.Foreground, v.Background, v.Ratio = fg, bg, ratio
		}

		violations = append(violations, v)
	}
	return violations
}

// ValidateTheme runs Validate for every variant, in variant order.
func ValidateTheme(theme Theme, rules []Rule) []Violation {
	var violations []Violation
	for _, variant := range theme.VariantNames() {
		violations = append(violations, Validate(theme, variant, rules)...)
	}
	return violations
}

// Summary counts checks and failures for reporting.
type Summary struct {
	Variants   int `json:"variants"`
	Rules      int `json:"rules"`
	Checks     int `json:"checks"`
	Violations int `json:"violations"`
}

// Summarize describes a ValidateTheme run.
func Summarize(theme Theme, rules []Rule, violations []Violation) Summary {
	variants := len(theme.VariantNames())
	return Summary{
		Variants:   variants,
		Rules:      len(rules),
		Checks:     variants * len(rules),
		Violations: len(violations),
	}
}
