package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/color"
)

// Theme represents a full theme configuration document.
type Theme struct {
	Name          string           `yaml:"name" validate:"required,min=1,max=100"`
	Version       string           `yaml:"version" validate:"required,semver"`
	Description   string           `yaml:"description,omitempty"`
	Colors        []ColorFamily    `yaml:"colors" validate:"required,min=1,dive"`
	Spacing       Spacing          `yaml:"spacing"`
	Radius        Mapping[string]  `yaml:"radius,omitempty"`
	Typography    Typography       `yaml:"typography,omitempty"`
	Motion        Motion           `yaml:"motion,omitempty"`
	ZIndex        Mapping[int]     `yaml:"z_index,omitempty"`
	Opacity       Mapping[float64] `yaml:"opacity,omitempty"`
	Breakpoints   Mapping[string]  `yaml:"breakpoints,omitempty"`
	FocusRing     *FocusRing       `yaml:"focus_ring,omitempty"`
	IconSizes     Mapping[string]  `yaml:"icon_sizes,omitempty"`
	Accessibility Accessibility    `yaml:"accessibility,omitempty"`
	Variants      Mapping[Tokens]  `yaml:"variants,omitempty"`
	Assets        []Asset          `yaml:"assets,omitempty" validate:"omitempty,dive"`
	Plugins       []string         `yaml:"plugins,omitempty" validate:"omitempty,dive,required"`

	// Path is the file the theme was loaded from, empty for in-memory themes.
	Path string `yaml:"-"`
}

// Plugin is a partial theme contributed by a plugin file. Plugins carry no
// scale sections; those stay with the base theme.
type Plugin struct {
	ID          string          `yaml:"id" validate:"required,plugin_id"`
	Version     string          `yaml:"version" validate:"required,semver"`
	Description string          `yaml:"description,omitempty"`
	DependsOn   []string        `yaml:"depends_on,omitempty" validate:"omitempty,dive,required"`
	Colors      []ColorFamily   `yaml:"colors,omitempty" validate:"omitempty,dive"`
	Variants    Mapping[Tokens] `yaml:"variants,omitempty"`
	Assets      []Asset         `yaml:"assets,omitempty" validate:"omitempty,dive"`

	Path string `yaml:"-"`
}

// ColorFamily declares one named color and the steps to expand it into.
type ColorFamily struct {
	Name      string               `yaml:"name" validate:"required,css_ident"`
	Source    *ColorSource         `yaml:"source" validate:"required"`
	Steps     []int                `yaml:"steps,omitempty"`
	Overrides map[int]*ColorSource `yaml:"overrides,omitempty" validate:"omitempty,dive,required"`

	// StepsSet records whether the document listed steps explicitly. An
	// explicit empty list is an error; an absent one means the default ramp.
	StepsSet bool `yaml:"-"`
}

// UnmarshalYAML records whether steps were given.
func (f *ColorFamily) UnmarshalYAML(value *yaml.Node) error {
	type rawFamily ColorFamily
	var temp rawFamily
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*f = ColorFamily(temp)
	f.StepsSet = hasYAMLKey(value, "steps")
	return nil
}

// ColorSource is an OKLCH color written either as a CSS string
// ("oklch(0.62 0.19 255)", "#3b82f6") or as an {l, c, h} mapping.
type ColorSource struct {
	L float64 `yaml:"l" validate:"gte=0,lte=1"`
	C float64 `yaml:"c" validate:"gte=0,lte=0.5"`
	H float64 `yaml:"h" validate:"oklch_hue"`
}

// UnmarshalYAML accepts the scalar and mapping forms.
func (s *ColorSource) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, ok := color.ParseCSS(value.Value)
		if !ok {
			return fmt.Errorf("line %d: unrecognised color %q (expected oklch(l c h) or #rrggbb)", value.Line, value.Value)
		}
		*s = ColorSource{L: parsed.L, C: parsed.C, H: parsed.H}
		return nil
	}

	type rawSource ColorSource
	var temp rawSource
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*s = ColorSource(temp)
	return nil
}

// OKLCH converts the source into a validated color value.
func (s ColorSource) OKLCH() (color.OKLCH, error) {
	return color.New(s.L, s.C, s.H)
}

// Spacing is the base unit and multiplier scale for spacing tokens.
type Spacing struct {
	Base  float64   `yaml:"base"`
	Unit  string    `yaml:"unit,omitempty" validate:"omitempty,oneof=px rem em"`
	Scale []float64 `yaml:"scale"`
}

// Typography holds font families and the modular type scale.
type Typography struct {
	Families    Mapping[string]  `yaml:"families,omitempty"`
	BaseSize    float64          `yaml:"base_size,omitempty"`
	Unit        string           `yaml:"unit,omitempty" validate:"omitempty,oneof=px rem em"`
	Ratio       float64          `yaml:"ratio,omitempty"`
	Sizes       Mapping[int]     `yaml:"sizes,omitempty"`
	Weights     Mapping[int]     `yaml:"weights,omitempty"`
	LineHeights Mapping[float64] `yaml:"line_heights,omitempty"`
}

// Motion holds animation durations and easing curves.
type Motion struct {
	Durations Mapping[string] `yaml:"durations,omitempty"`
	Easings   Mapping[string] `yaml:"easings,omitempty"`
}

// FocusRing configures the shared focus indicator.
type FocusRing struct {
	Width  string `yaml:"width" validate:"required"`
	Offset string `yaml:"offset,omitempty"`
	Color  string `yaml:"color" validate:"required"`
}

// Accessibility is the theme's accessibility policy.
type Accessibility struct {
	EnforceWCAG           bool            `yaml:"enforce_wcag,omitempty"`
	HighContrast          bool            `yaml:"high_contrast,omitempty"`
	ContrastRules         []ContrastRule  `yaml:"contrast_rules,omitempty" validate:"omitempty,dive"`
	HighContrastOverrides Mapping[string] `yaml:"high_contrast_overrides,omitempty"`
}

// ContrastRule requires a minimum contrast between two semantic tokens.
type ContrastRule struct {
	Foreground string  `yaml:"foreground" validate:"required,token_name"`
	Background string  `yaml:"background" validate:"required,token_name,nefield=Foreground"`
	MinRatio   float64 `yaml:"min_ratio" validate:"required,gte=1,lte=21"`
}

// Asset is a static file (font, icon) shipped with a theme or plugin.
type Asset struct {
	Name string `yaml:"name" validate:"required"`
	Kind string `yaml:"kind" validate:"required,oneof=font icon image other"`
	Path string `yaml:"path" validate:"required"`
}
