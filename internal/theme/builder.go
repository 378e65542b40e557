// Package theme merges a base theme configuration with plugins into a single
// resolved theme and exposes the lookups used by validation and generation.
package theme

import (
	"fmt"
	"strings"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/color"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/config"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/plugin"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/scale"
	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

// Option customises Build.
type Option func(*buildOptions)

type buildOptions struct {
	cache *color.Cache
	scale scale.Options
}

// WithCache shares a swatch cache across builds.
func WithCache(cache *color.Cache) Option {
	return func(o *buildOptions) {
		o.cache = cache
	}
}

// WithScaleOptions overrides the ramp parameters used for every family.
func WithScaleOptions(opts scale.Options) Option {
	return func(o *buildOptions) {
		o.scale = opts
	}
}

// layer is one typed partial theme folded into the result. The base theme is
// the first layer; each plugin contributes one more in application order.
type layer struct {
	Origin   string
	Colors   []config.ColorFamily
	Variants config.Mapping[config.Tokens]
	Assets   []config.Asset
}

// baseLayer extracts the mergeable part of a base theme.
func baseLayer(t *config.Theme) layer {
	return layer{Origin: OriginBase, Colors: t.Colors, Variants: t.Variants, Assets: t.Assets}
}

// pluginLayer extracts the mergeable part of a plugin.
func pluginLayer(p config.Plugin) layer {
	return layer{Origin: p.ID, Colors: p.Colors, Variants: p.Variants, Assets: p.Assets}
}

// Build validates base and plugins, applies plugins in dependency order, expands
// every color family and verifies every color reference.
func Build(base *config.Theme, plugins []config.Plugin, opts ...Option) (*Resolved, error) {
	options := buildOptions{scale: scale.DefaultOptions()}
	for _, opt := range opts {
		opt(&options)
	}

	if err := config.ValidateTheme(base); err != nil {
		return nil, err
	}

	order, err := applicationOrder(plugins)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]config.Plugin, len(plugins))
	for _, p := range plugins {
		byID[p.ID] = p
	}

	layers := make([]layer, 0, len(order)+1)
	layers = append(layers, baseLayer(base))
	for _, id := range order {
		layers = append(layers, pluginLayer(byID[id]))
	}

	m, err := fold(layers)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		Name:        base.Name,
		Version:     base.Version,
		Description: base.Description,
		Spacing:     base.Spacing,
		Radius:      base.Radius,
		Typography:  base.Typography,
		Motion:      base.Motion,
		ZIndex:      base.ZIndex,
		Opacity:     base.Opacity,
		Breakpoints: base.Breakpoints,
		IconSizes:   base.IconSizes,
		variants:    m.Variants,
		assets:      m.Assets,
		pluginOrder: order,
		cache:       options.cache,
	}
	resolved.defaultVariant = defaultVariant(m.Variants)

	generator := scale.NewGenerator(options.cache, options.scale)
	for _, family := range m.Colors {
		expanded, err := expand(generator, family)
		if err != nil {
			return nil, err
		}
		resolved.families = append(resolved.families, expanded)
	}

	if err := resolvePolicy(resolved, base); err != nil {
		return nil, err
	}

	if err := verifyReferences(resolved); err != nil {
		return nil, err
	}

	return resolved, nil
}

func applicationOrder(plugins []config.Plugin) ([]string, error) {
	metas := make([]plugin.Metadata, 0, len(plugins))
	for i := range plugins {
		p := plugins[i]
		if err := config.ValidatePlugin(&p); err != nil {
			return nil, err
		}

		meta := plugin.Metadata{ID: p.ID, Version: p.Version}
		for _, raw := range p.DependsOn {
			dep, err := plugin.ParseDependency(raw)
			if err != nil {
				return nil, err
			}
			meta.Dependencies = append(meta.Dependencies, dep)
		}
		metas = append(metas, meta)
	}

	return plugin.Order(metas)
}

// merged is the result of folding layers: families carry their winning
// definition, tokens their winning value and origin.
type merged struct {
	Colors   []mergedFamily
	Variants []Variant
	Assets   []Asset
}

type mergedFamily struct {
	config.ColorFamily
	Origin string
}

// fold merges layers left to right. Color families and tokens follow
// last-applied-wins; new families and variants are appended in first-seen
// order; assets are concatenated, plugin assets namespaced by plugin id.
func fold(layers []layer) (merged, error) {
	var m merged
	assetNames := map[string]struct{}{}

	for _, l := range layers {
		for _, family := range l.Colors {
			entry := mergedFamily{ColorFamily: family, Origin: l.Origin}
			if i := indexFamily(m.Colors, family.Name); i >= 0 {
				m.Colors[i] = entry
				continue
			}
			m.Colors = append(m.Colors, entry)
		}

		for _, variant := range l.Variants {
			vi := indexVariant(m.Variants, variant.Key)
			if vi < 0 {
				m.Variants = append(m.Variants, Variant{Name: variant.Key})
				vi = len(m.Variants) - 1
			}
			for _, raw := range variant.Value {
				tok, err := parseToken(l.Origin, variant.Key, raw)
				if err != nil {
					return merged{}, err
				}
				m.Variants[vi].Tokens = setToken(m.Variants[vi].Tokens, tok)
			}
		}

		for _, a := range l.Assets {
			name := a.Name
			if l.Origin != OriginBase {
				name = l.Origin + "/" + a.Name
			}
			if _, dup := assetNames[name]; dup {
				return merged{}, bperrors.Invalidf("assets", name, "duplicate asset (introduced by %s)", describeOrigin(l.Origin))
			}
			assetNames[name] = struct{}{}
			m.Assets = append(m.Assets, Asset{Name: name, Kind: a.Kind, Path: a.Path, Origin: l.Origin})
		}
	}

	return m, nil
}

func parseToken(origin, variant string, raw config.Pair[string]) (Token, error) {
	name := variant + "." + raw.Key
	if strings.TrimSpace(raw.Value) == "" {
		if origin != OriginBase {
			return Token{}, bperrors.Invalidf("plugins", origin, "token %s has an empty value; plugins may override tokens but not remove them", name)
		}
		return Token{}, bperrors.Invalidf("variants", name, "value is empty")
	}

	value, err := ParseValue(raw.Value)
	if err != nil {
		return Token{}, bperrors.NewInvalidConfiguration("variants", name, fmt.Sprintf("%v (introduced by %s)", err, describeOrigin(origin)), err)
	}
	return Token{Name: raw.Key, Value: value, Origin: origin}, nil
}

func setToken(tokens []Token, tok Token) []Token {
	for i := range tokens {
		if tokens[i].Name == tok.Name {
			tokens[i] = tok
			return tokens
		}
	}
	return append(tokens, tok)
}

func indexFamily(families []mergedFamily, name string) int {
	for i, f := range families {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func indexVariant(variants []Variant, name string) int {
	for i, v := range variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

func defaultVariant(variants []Variant) string {
	if indexVariant(variants, DefaultVariantName) >= 0 {
		return DefaultVariantName
	}
	if len(variants) > 0 {
		return variants[0].Name
	}
	return ""
}

func expand(generator *scale.Generator, family mergedFamily) (Family, error) {
	source, err := family.Source.OKLCH()
	if err != nil {
		return Family{}, bperrors.NewInvalidConfiguration("colors", family.Name, err.Error(), err)
	}

	steps := scale.DefaultSteps
	if family.StepsSet {
		steps = family.Steps
	}

	var overrides map[int]color.OKLCH
	if len(family.Overrides) > 0 {
		overrides = make(map[int]color.OKLCH, len(family.Overrides))
		for step, src := range family.Overrides {
			col, err := src.OKLCH()
			if err != nil {
				return Family{}, bperrors.NewInvalidConfiguration("colors", fmt.Sprintf("%s.%d", family.Name, step), err.Error(), err)
			}
			overrides[step] = col
		}
	}

	s, err := generator.Generate(family.Name, source, steps, overrides)
	if err != nil {
		return Family{}, err
	}
	return Family{Name: family.Name, Source: source, Origin: family.Origin, Scale: s}, nil
}

func resolvePolicy(r *Resolved, base *config.Theme) error {
	policy := Accessibility{
		EnforceWCAG:   base.Accessibility.EnforceWCAG,
		HighContrast:  base.Accessibility.HighContrast,
		ContrastRules: append([]config.ContrastRule(nil), base.Accessibility.ContrastRules...),
	}
	for _, raw := range base.Accessibility.HighContrastOverrides {
		value, err := ParseValue(raw.Value)
		if err != nil {
			return bperrors.NewInvalidConfiguration("accessibility", "high_contrast_overrides."+raw.Key, err.Error(), err)
		}
		policy.HighContrastOverrides = append(policy.HighContrastOverrides, Token{Name: raw.Key, Value: value, Origin: OriginBase})
	}
	r.Accessibility = policy

	if fr := base.FocusRing; fr != nil {
		value, err := ParseValue(fr.Color)
		if err != nil {
			return bperrors.NewInvalidConfiguration("focus_ring", "color", err.Error(), err)
		}
		r.FocusRing = &FocusRing{Width: fr.Width, Offset: fr.Offset, Color: value}
	}
	return nil
}

func verifyReferences(r *Resolved) error {
	for _, v := range r.variants {
		for _, tok := range v.Tokens {
			if err := checkReference(r, tok.Value); err != nil {
				return bperrors.NewInvalidConfiguration(
					"variants",
					v.Name+"."+tok.Name,
					fmt.Sprintf("%v (introduced by %s)", err, describeOrigin(tok.Origin)),
					err,
				)
			}
		}
	}

	for _, tok := range r.Accessibility.HighContrastOverrides {
		if err := checkReference(r, tok.Value); err != nil {
			return bperrors.NewInvalidConfiguration("accessibility", "high_contrast_overrides."+tok.Name, err.Error(), err)
		}
	}

	if r.FocusRing != nil {
		if err := checkReference(r, r.FocusRing.Color); err != nil {
			return bperrors.NewInvalidConfiguration("focus_ring", "color", err.Error(), err)
		}
	}
	return nil
}

func checkReference(r *Resolved, v Value) error {
	if !v.IsReference() {
		return nil
	}
	_, err := r.ResolveColor(v)
	return err
}

func describeOrigin(origin string) string {
	if origin == OriginBase {
		return "base theme"
	}
	return "plugin " + origin
}
