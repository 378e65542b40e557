package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

func TestValidateThemeErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		contents    string
		wantSection string
		wantName    string
		wantMessage string
	}{
		{
			name: "bad version",
			contents: `name: T
version: "1.0"
colors:
  - {name: gray, source: "#777777"}
`,
			wantSection: "version",
			wantName:    "version",
			wantMessage: "semver",
		},
		{
			name: "missing colors",
			contents: `name: T
version: 1.0.0
`,
			wantSection: "colors",
			wantName:    "colors",
			wantMessage: "required",
		},
		{
			name: "hue out of range",
			contents: `name: T
version: 1.0.0
colors:
  - name: gray
    source: {l: 0.5, c: 0.1, h: 400}
`,
			wantSection: "colors",
			wantName:    "colors[0].source.h",
			wantMessage: "oklch_hue",
		},
		{
			name: "lightness out of range",
			contents: `name: T
version: 1.0.0
colors:
  - name: gray
    source: {l: 1.5, c: 0.1, h: 40}
`,
			wantSection: "colors",
			wantName:    "colors[0].source.l",
			wantMessage: "lte=1",
		},
		{
			name: "missing source",
			contents: `name: T
version: 1.0.0
colors:
  - name: gray
`,
			wantSection: "colors",
			wantName:    "colors[0].source",
			wantMessage: "required",
		},
		{
			name: "duplicate color family",
			contents: `name: T
version: 1.0.0
colors:
  - {name: gray, source: "#777777"}
  - {name: gray, source: "#888888"}
`,
			wantSection: "colors",
			wantName:    "colors[1].name",
			wantMessage: "duplicate color family",
		},
		{
			name: "explicit empty steps",
			contents: `name: T
version: 1.0.0
colors:
  - {name: gray, source: "#777777", steps: []}
`,
			wantSection: "colors",
			wantName:    "colors[0].steps",
			wantMessage: "steps list is empty",
		},
		{
			name: "invalid token name",
			contents: `name: T
version: 1.0.0
colors:
  - {name: gray, source: "#777777"}
variants:
  light:
    text_muted: gray.500
`,
			wantSection: "variants",
			wantName:    "variants.light.text_muted",
			wantMessage: "invalid token name",
		},
		{
			name: "empty base token",
			contents: `name: T
version: 1.0.0
colors:
  - {name: gray, source: "#777777"}
variants:
  light:
    text: ""
`,
			wantSection: "variants",
			wantName:    "variants.light.text",
			wantMessage: "value is empty",
		},
		{
			name: "contrast rule against itself",
			contents: `name: T
version: 1.0.0
colors:
  - {name: gray, source: "#777777"}
accessibility:
  contrast_rules:
    - {foreground: text, background: text, min_ratio: 4.5}
`,
			wantSection: "accessibility",
			wantName:    "accessibility.contrast_rules[0].background",
			wantMessage: "nefield",
		},
		{
			name: "duplicate asset",
			contents: `name: T
version: 1.0.0
colors:
  - {name: gray, source: "#777777"}
assets:
  - {name: a.woff2, kind: font, path: a.woff2}
  - {name: a.woff2, kind: font, path: b.woff2}
`,
			wantSection: "assets",
			wantName:    "a.woff2",
			wantMessage: "duplicate asset name",
		},
		{
			name: "unknown spacing unit",
			contents: `name: T
version: 1.0.0
colors:
  - {name: gray, source: "#777777"}
spacing:
  base: 4
  unit: pt
  scale: [1]
`,
			wantSection: "spacing",
			wantName:    "spacing.unit",
			wantMessage: "oneof",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseTheme([]byte(tc.contents), "theme.yaml")
			require.ErrorIs(t, err, bperrors.ErrInvalidConfiguration)

			var cfgErr *bperrors.InvalidConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tc.wantSection, cfgErr.Section)
			require.Equal(t, tc.wantName, cfgErr.Name)
			require.Contains(t, cfgErr.Message, tc.wantMessage)
		})
	}
}

func TestValidateNil(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, ValidateTheme(nil), bperrors.ErrInvalidConfiguration)
	require.ErrorIs(t, ValidatePlugin(nil), bperrors.ErrInvalidConfiguration)
}

func TestValidatePluginErrors(t *testing.T) {
	t.Parallel()

	_, err := ParsePlugin([]byte(`id: Brand
version: 1.0.0
`), "brand.yaml")
	var cfgErr *bperrors.InvalidConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "id", cfgErr.Name)
	require.Contains(t, cfgErr.Message, "plugin_id")

	_, err = ParsePlugin([]byte(`id: brand
version: 2
`), "brand.yaml")
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "version", cfgErr.Name)
}

func TestGetValidator(t *testing.T) {
	t.Parallel()

	require.Same(t, GetValidator(), GetValidator())
}

func TestCustomTags(t *testing.T) {
	t.Parallel()

	v := GetValidator()
	tests := []struct {
		tag   string
		value any
		valid bool
	}{
		{"semver", "1.2.3", true},
		{"semver", "1.2", false},
		{"semver", "1.2.3-beta", false},
		{"token_name", "textMuted", true},
		{"token_name", "text", true},
		{"token_name", "TextMuted", false},
		{"token_name", "text-muted", false},
		{"plugin_id", "dark-mode", true},
		{"plugin_id", "2fa", false},
		{"css_ident", "brand_Blue-2", true},
		{"css_ident", "-brand", false},
		{"oklch_hue", 0.0, true},
		{"oklch_hue", 360.0, true},
		{"oklch_hue", -1.0, false},
		{"oklch_hue", 360.5, false},
	}

	for _, tc := range tests {
		err := v.Var(tc.value, tc.tag)
		if tc.valid {
			require.NoError(t, err, "%s %v", tc.tag, tc.value)
		} else {
			require.Error(t, err, "%s %v", tc.tag, tc.value)
		}
	}
}
