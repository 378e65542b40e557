package theme

import (
	"fmt"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/color"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/config"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/scale"
)

// OriginBase marks values that come from the base theme rather than a plugin.
const OriginBase = "base"

// DefaultVariantName is the variant that acts as the page default.
const DefaultVariantName = "light"

// Family is a merged color family with its expanded scale.
type Family struct {
	Name   string
	Source color.OKLCH
	Origin string
	Scale  scale.Scale
}

// Token is a resolved semantic token and where it came from.
type Token struct {
	Name   string
	Value  Value
	Origin string
}

// Variant is an ordered set of semantic tokens.
type Variant struct {
	Name   string
	Tokens []Token
}

// Token looks up a token defined directly on the variant.
func (v Variant) Token(name string) (Token, bool) {
	for _, tok := range v.Tokens {
		if tok.Name == name {
			return tok, true
		}
	}
	return Token{}, false
}

// Asset is a static file, namespaced "<plugin-id>/<name>" when a plugin contributed it.
type Asset struct {
	Name   string
	Kind   string
	Path   string
	Origin string
}

// FocusRing is the resolved focus indicator.
type FocusRing struct {
	Width  string
	Offset string
	Color  Value
}

// Accessibility is the resolved accessibility policy.
type Accessibility struct {
	EnforceWCAG           bool
	HighContrast          bool
	ContrastRules         []config.ContrastRule
	HighContrastOverrides []Token
}

// Resolved is the fully merged theme. It is immutable once built and safe for
// concurrent readers.
type Resolved struct {
	Name        string
	Version     string
	Description string

	Spacing     config.Spacing
	Radius      config.Mapping[string]
	Typography  config.Typography
	Motion      config.Motion
	ZIndex      config.Mapping[int]
	Opacity     config.Mapping[float64]
	Breakpoints config.Mapping[string]
	IconSizes   config.Mapping[string]

	FocusRing     *FocusRing
	Accessibility Accessibility

	families       []Family
	variants       []Variant
	defaultVariant string
	assets         []Asset
	pluginOrder    []string
	cache          *color.Cache
}

// ColorNames lists color families in merge order.
func (r *Resolved) ColorNames() []string {
	names := make([]string, len(r.families))
	for i, f := range r.families {
		names[i] = f.Name
	}
	return names
}

// Families returns the merged color families.
func (r *Resolved) Families() []Family {
	return append([]Family(nil), r.families...)
}

// Family looks up a color family by name.
func (r *Resolved) Family(name string) (Family, bool) {
	for _, f := range r.families {
		if f.Name == name {
			return f, true
		}
	}
	return Family{}, false
}

// Scale returns the expanded scale of a color family.
func (r *Resolved) Scale(name string) (scale.Scale, bool) {
	f, ok := r.Family(name)
	if !ok {
		return scale.Scale{}, false
	}
	return f.Scale, true
}

// VariantNames lists variants in declaration order.
func (r *Resolved) VariantNames() []string {
	names := make([]string, len(r.variants))
	for i, v := range r.variants {
		names[i] = v.Name
	}
	return names
}

// Variants returns every variant in declaration order.
func (r *Resolved) Variants() []Variant {
	return append([]Variant(nil), r.variants...)
}

// Variant looks up a variant by name.
func (r *Resolved) Variant(name string) (Variant, bool) {
	for _, v := range r.variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// DefaultVariant returns "light" when declared, otherwise the first variant.
func (r *Resolved) DefaultVariant() string {
	return r.defaultVariant
}

// Lookup finds token in variant, falling back to the default variant the way
// the CSS cascade does for [data-theme] blocks.
func (r *Resolved) Lookup(variant, token string) (Token, bool) {
	if v, ok := r.Variant(variant); ok {
		if tok, ok := v.Token(token); ok {
			return tok, true
		}
	}
	if variant == r.defaultVariant {
		return Token{}, false
	}
	if v, ok := r.Variant(r.defaultVariant); ok {
		return v.Token(token)
	}
	return Token{}, false
}

// TokenNames lists every semantic token name across variants, first occurrence first.
func (r *Resolved) TokenNames() []string {
	seen := map[string]struct{}{}
	var names []string
	for _, v := range r.variants {
		for _, tok := range v.Tokens {
			if _, ok := seen[tok.Name]; ok {
				continue
			}
			seen[tok.Name] = struct{}{}
			names = append(names, tok.Name)
		}
	}
	return names
}

// Assets returns base assets followed by plugin assets in application order.
func (r *Resolved) Assets() []Asset {
	return append([]Asset(nil), r.assets...)
}

// PluginOrder returns plugin ids in the order they were applied.
func (r *Resolved) PluginOrder() []string {
	return append([]string(nil), r.pluginOrder...)
}

// ResolveColor turns a value into a concrete swatch. References resolve through
// the scales; literals must be parseable colors.
func (r *Resolved) ResolveColor(v Value) (color.Swatch, error) {
	if v.IsReference() {
		s, ok := r.Scale(v.Ref.Family)
		if !ok {
			return color.Swatch{}, fmt.Errorf("unknown color family %q", v.Ref.Family)
		}
		step, ok := s.Step(v.Ref.Step)
		if !ok {
			return color.Swatch{}, fmt.Errorf("color family %q has no step %d", v.Ref.Family, v.Ref.Step)
		}
		return step.Swatch, nil
	}

	col, ok := color.ParseCSS(v.Text)
	if !ok {
		return color.Swatch{}, fmt.Errorf("literal %q is not a color", v.Text)
	}
	return r.cache.Swatch(col), nil
}

// ResolveToken resolves a semantic token of variant to a concrete swatch.
func (r *Resolved) ResolveToken(variant, token string) (color.Swatch, error) {
	tok, ok := r.Lookup(variant, token)
	if !ok {
		return color.Swatch{}, fmt.Errorf("token %q is not defined in variant %q", token, variant)
	}
	return r.ResolveColor(tok.Value)
}
