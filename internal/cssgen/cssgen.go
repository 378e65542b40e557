// Package cssgen renders a resolved theme as CSS custom properties.
//
// Output is assembled from named sections in a fixed order. Every section is a
// pure function of the resolved theme, and Generate validates the whole theme
// before rendering any of them, so a failing theme produces no CSS at all.
package cssgen

import (
	"fmt"
	"math"
	"strings"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/theme"
	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

// HighContrastPlaceholder stands in for the high contrast block when the
// policy disables it, keeping section layout stable.
const HighContrastPlaceholder = "/* High contrast mode disabled */\n"

const indent = "  "

// Section is one named piece of the stylesheet.
type Section struct {
	Name string
	Text string
}

type decl struct {
	prop  string
	value string
}

type sectionDef struct {
	name   string
	decls  func(*theme.Resolved) []decl
	render func(*theme.Resolved) string
}

// sectionOrder is the emission order. Sections with decls take part in the
// duplicate property check.
var sectionOrder = []sectionDef{
	{name: "primitives", decls: primitiveDecls, render: Primitives},
	{name: "semantic", render: Semantic},
	{name: "spacing", decls: spacingDecls, render: Spacing},
	{name: "radius", decls: radiusDecls, render: Radius},
	{name: "motion", decls: motionDecls, render: Motion},
	{name: "typography", decls: typographyDecls, render: Typography},
	{name: "utility", decls: utilityDecls, render: Utility},
	{name: "reduced-motion", render: ReducedMotion},
	{name: "high-contrast", render: HighContrast},
	{name: "icon-sizes", decls: iconDecls, render: IconSizes},
}

// Generate validates t and renders the complete stylesheet.
func Generate(t *theme.Resolved) (string, error) {
	sections, err := Sections(t)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(Header(t))
	for _, s := range sections {
		if s.Text == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(s.Text)
	}
	return b.String(), nil
}

// Sections validates t and renders every section in emission order. Sections
// with nothing to declare have empty text.
func Sections(t *theme.Resolved) ([]Section, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}

	out := make([]Section, 0, len(sectionOrder))
	for _, def := range sectionOrder {
		out = append(out, Section{Name: def.name, Text: def.render(t)})
	}
	return out, nil
}

// Validate reports the first structural problem that would make the output
// invalid CSS.
func Validate(t *theme.Resolved) error {
	if t == nil {
		return bperrors.Invalidf("theme", "", "resolved theme is nil")
	}

	sp := t.Spacing
	if sp.Base <= 0 || math.IsNaN(sp.Base) || math.IsInf(sp.Base, 0) {
		return bperrors.Invalidf("spacing", "base", "base must be a positive number (got %s)", formatNumber(sp.Base))
	}
	if len(sp.Scale) == 0 {
		return bperrors.Invalidf("spacing", "scale", "scale must list at least one multiplier")
	}
	seen := make(map[float64]struct{}, len(sp.Scale))
	for i, m := range sp.Scale {
		if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return bperrors.Invalidf("spacing", fmt.Sprintf("scale[%d]", i), "multiplier must be a non-negative number (got %v)", m)
		}
		if _, dup := seen[m]; dup {
			return bperrors.Invalidf("spacing", fmt.Sprintf("scale[%d]", i), "duplicate multiplier %v", m)
		}
		seen[m] = struct{}{}
	}

	if len(t.VariantNames()) == 0 {
		return bperrors.Invalidf("variants", "", "at least one variant is required")
	}

	if len(t.Typography.Sizes) > 0 {
		if t.Typography.BaseSize <= 0 {
			return bperrors.Invalidf("typography", "base_size", "base size must be positive when sizes are declared")
		}
		if t.Typography.Ratio <= 0 {
			return bperrors.Invalidf("typography", "ratio", "ratio must be positive when sizes are declared")
		}
	}

	families := make(map[string]string, len(t.Families()))
	for _, f := range t.Families() {
		key := Kebab(f.Name)
		if other, dup := families[key]; dup {
			return bperrors.Invalidf("colors", f.Name, "family name collides with %q: both emit --bp-%s-*", other, key)
		}
		families[key] = f.Name
	}

	for _, v := range t.Variants() {
		decls := make([]decl, len(v.Tokens))
		for i, tok := range v.Tokens {
			decls[i] = decl{prop: TokenVar(tok.Name), value: ValueCSS(tok.Value)}
		}
		if err := checkDecls("variants."+v.Name, decls); err != nil {
			return err
		}
	}

	overrides := make([]decl, len(t.Accessibility.HighContrastOverrides))
	for i, tok := range t.Accessibility.HighContrastOverrides {
		overrides[i] = decl{prop: TokenVar(tok.Name), value: ValueCSS(tok.Value)}
	}
	if err := checkDecls("accessibility", overrides); err != nil {
		return err
	}

	for _, def := range sectionOrder {
		if def.decls == nil {
			continue
		}
		if err := checkDecls(def.name, def.decls(t)); err != nil {
			return err
		}
	}

	return nil
}

// checkDecls rejects repeated properties and values that are empty or would
// end the declaration or block early.
func checkDecls(section string, decls []decl) error {
	seen := make(map[string]struct{}, len(decls))
	for _, d := range decls {
		if _, dup := seen[d.prop]; dup {
			return bperrors.Invalidf(section, d.prop, "token name emitted more than once")
		}
		seen[d.prop] = struct{}{}

		if strings.TrimSpace(d.value) == "" {
			return bperrors.Invalidf(section, d.prop, "value is empty")
		}
		if i := strings.IndexAny(d.value, ";{}\r\n"); i >= 0 {
			return bperrors.Invalidf(section, d.prop, "value %q must not contain %q", d.value, d.value[i:i+1])
		}
	}
	return nil
}

// Header names the theme. It carries no timestamp so output is byte-stable.
func Header(t *theme.Resolved) string {
	var b strings.Builder
	b.WriteString("/*\n")
	fmt.Fprintf(&b, " * Blueprint theme: %s", t.Name)
	if t.Version != "" {
		fmt.Fprintf(&b, " v%s", t.Version)
	}
	b.WriteString("\n")
	if t.Description != "" {
		fmt.Fprintf(&b, " * %s\n", t.Description)
	}
	b.WriteString(" * Generated by blueprint-theme. Do not edit.\n")
	b.WriteString(" */\n")
	return b.String()
}

func primitiveDecls(t *theme.Resolved) []decl {
	var decls []decl
	for _, f := range t.Families() {
		for _, step := range f.Scale.Steps {
			decls = append(decls, decl{prop: PrimitiveVar(f.Name, step.ID), value: step.Swatch.Hex})
		}
	}
	return decls
}

// Primitives emits every scale step as hex, then again as OKLCH for browsers
// that support it.
func Primitives(t *theme.Resolved) string {
	hex := primitiveDecls(t)
	if len(hex) == 0 {
		return ""
	}
	var oklch []decl
	for _, f := range t.Families() {
		for _, step := range f.Scale.Steps {
			oklch = append(oklch, decl{prop: PrimitiveVar(f.Name, step.ID), value: step.Swatch.CSS})
		}
	}

	var b strings.Builder
	writeBlock(&b, ":root", hex, "")
	b.WriteString("\n")
	b.WriteString("@supports (color: oklch(0 0 0)) {\n")
	writeBlock(&b, ":root", oklch, indent)
	b.WriteString("}\n")
	return b.String()
}

// Semantic emits one block per variant in declaration order.
func Semantic(t *theme.Resolved) string {
	var b strings.Builder
	for i, v := range t.Variants() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SemanticBlock(v))
	}
	return b.String()
}

// SemanticBlock emits the token block of a single variant.
func SemanticBlock(v theme.Variant) string {
	decls := make([]decl, len(v.Tokens))
	for i, tok := range v.Tokens {
		decls[i] = decl{prop: TokenVar(tok.Name), value: ValueCSS(tok.Value)}
	}
	var b strings.Builder
	writeBlock(&b, Selector(v.Name), decls, "")
	return b.String()
}

func spacingDecls(t *theme.Resolved) []decl {
	unit := t.Spacing.Unit
	if unit == "" {
		unit = "px"
	}
	decls := make([]decl, len(t.Spacing.Scale))
	for i, m := range t.Spacing.Scale {
		decls[i] = decl{
			prop:  "--bp-spacing-" + multiplierName(m),
			value: formatNumber(t.Spacing.Base*m) + unit,
		}
	}
	return decls
}

// Spacing emits base*multiplier for each multiplier.
func Spacing(t *theme.Resolved) string {
	return rootBlock(spacingDecls(t))
}

func radiusDecls(t *theme.Resolved) []decl {
	var decls []decl
	for _, p := range t.Radius {
		decls = append(decls, decl{prop: "--bp-radius-" + Kebab(p.Key), value: p.Value})
	}
	return decls
}

// Radius emits the border radius scale.
func Radius(t *theme.Resolved) string {
	return rootBlock(radiusDecls(t))
}

func motionDecls(t *theme.Resolved) []decl {
	var decls []decl
	for _, p := range t.Motion.Durations {
		decls = append(decls, decl{prop: "--bp-duration-" + Kebab(p.Key), value: p.Value})
	}
	for _, p := range t.Motion.Easings {
		decls = append(decls, decl{prop: "--bp-easing-" + Kebab(p.Key), value: p.Value})
	}
	return decls
}

// Motion emits durations and easing curves.
func Motion(t *theme.Resolved) string {
	return rootBlock(motionDecls(t))
}

func typographyDecls(t *theme.Resolved) []decl {
	ty := t.Typography
	unit := ty.Unit
	if unit == "" {
		unit = "rem"
	}

	var decls []decl
	for _, p := range ty.Families {
		decls = append(decls, decl{prop: "--bp-font-family-" + Kebab(p.Key), value: p.Value})
	}
	for _, p := range ty.Sizes {
		size := ty.BaseSize * math.Pow(ty.Ratio, float64(p.Value))
		decls = append(decls, decl{prop: "--bp-font-size-" + Kebab(p.Key), value: formatNumber(size) + unit})
	}
	for _, p := range ty.Weights {
		decls = append(decls, decl{prop: "--bp-font-weight-" + Kebab(p.Key), value: fmt.Sprintf("%d", p.Value)})
	}
	for _, p := range ty.LineHeights {
		decls = append(decls, decl{prop: "--bp-line-height-" + Kebab(p.Key), value: formatNumber(p.Value)})
	}
	return decls
}

// Typography emits font families, the modular size scale, weights and line heights.
func Typography(t *theme.Resolved) string {
	return rootBlock(typographyDecls(t))
}

func utilityDecls(t *theme.Resolved) []decl {
	var decls []decl
	if fr := t.FocusRing; fr != nil {
		decls = append(decls, decl{prop: "--bp-focus-ring-width", value: fr.Width})
		if fr.Offset != "" {
			decls = append(decls, decl{prop: "--bp-focus-ring-offset", value: fr.Offset})
		}
		decls = append(decls, decl{prop: "--bp-focus-ring-color", value: ValueCSS(fr.Color)})
	}
	for _, p := range t.ZIndex {
		decls = append(decls, decl{prop: "--bp-z-" + Kebab(p.Key), value: fmt.Sprintf("%d", p.Value)})
	}
	for _, p := range t.Opacity {
		decls = append(decls, decl{prop: "--bp-opacity-" + Kebab(p.Key), value: formatNumber(p.Value)})
	}
	for _, p := range t.Breakpoints {
		decls = append(decls, decl{prop: "--bp-breakpoint-" + Kebab(p.Key), value: p.Value})
	}
	return decls
}

// Utility emits the focus ring, z-index, opacity and breakpoint tokens.
func Utility(t *theme.Resolved) string {
	return rootBlock(utilityDecls(t))
}

// ReducedMotion zeroes every duration for users who ask for less motion.
func ReducedMotion(t *theme.Resolved) string {
	var decls []decl
	for _, p := range t.Motion.Durations {
		decls = append(decls, decl{prop: "--bp-duration-" + Kebab(p.Key), value: "0ms"})
	}
	return mediaBlock("@media (prefers-reduced-motion: reduce)", decls)
}

// HighContrast emits the prefers-contrast overrides, or the placeholder when
// the policy disables high contrast.
func HighContrast(t *theme.Resolved) string {
	if !t.Accessibility.HighContrast {
		return HighContrastPlaceholder
	}

	var decls []decl
	if overrides := t.Accessibility.HighContrastOverrides; len(overrides) > 0 {
		for _, tok := range overrides {
			decls = append(decls, decl{prop: TokenVar(tok.Name), value: ValueCSS(tok.Value)})
		}
	} else {
		present := map[string]struct{}{}
		for _, name := range t.TokenNames() {
			present[name] = struct{}{}
		}
		if _, ok := present["text"]; ok {
			for _, name := range []string{"textMuted", "border"} {
				if _, ok := present[name]; ok {
					decls = append(decls, decl{prop: TokenVar(name), value: "var(" + TokenVar("text") + ")"})
				}
			}
		}
	}
	if fr := t.FocusRing; fr != nil {
		decls = append(decls, decl{prop: "--bp-focus-ring-width", value: "calc(" + fr.Width + " + 1px)"})
	}

	if len(decls) == 0 {
		return HighContrastPlaceholder
	}
	return mediaBlock("@media (prefers-contrast: more)", decls)
}

func iconDecls(t *theme.Resolved) []decl {
	var decls []decl
	for _, p := range t.IconSizes {
		decls = append(decls, decl{prop: "--bp-icon-size-" + Kebab(p.Key), value: p.Value})
	}
	return decls
}

// IconSizes emits icon size tokens when any are configured.
func IconSizes(t *theme.Resolved) string {
	return rootBlock(iconDecls(t))
}

func rootBlock(decls []decl) string {
	if len(decls) == 0 {
		return ""
	}
	var b strings.Builder
	writeBlock(&b, ":root", decls, "")
	return b.String()
}

func mediaBlock(query string, decls []decl) string {
	if len(decls) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(query)
	b.WriteString(" {\n")
	writeBlock(&b, ":root", decls, indent)
	b.WriteString("}\n")
	return b.String()
}

func writeBlock(b *strings.Builder, selector string, decls []decl, prefix string) {
	b.WriteString(prefix + selector + " {\n")
	for _, d := range decls {
		fmt.Fprintf(b, "%s%s%s: %s;\n", prefix, indent, d.prop, d.value)
	}
	b.WriteString(prefix + "}\n")
}
