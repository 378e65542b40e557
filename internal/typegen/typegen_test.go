package typegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/config"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/theme"
)

func TestRenderDeduplicatesAndSuffixesCollisions(t *testing.T) {
	t.Parallel()

	out := Render(Input{
		Title: "Demo v1.0.0",
		Families: []Family{
			{Name: "gray", Steps: []int{50, 500, 500}},
			{Name: "brand-blue", Steps: []int{500}},
			{Name: "brandBlue", Steps: []int{100}},
			{Name: "gray", Steps: []int{900}},
		},
		Variants: []string{"light", "dark", "light"},
		Tokens:   []string{"text", "background", "text"},
	})

	require.Equal(t, `// Blueprint theme types: Demo v1.0.0
// Generated by blueprint-theme. Do not edit.

export type ColorName = 'gray' | 'brand-blue' | 'brandBlue';

export interface GrayScale {
  50: string;
  500: string;
}

export interface BrandBlueScale {
  500: string;
}

export interface BrandBlue2Scale {
  100: string;
}

export interface ColorRegistry {
  gray: GrayScale;
  'brand-blue': BrandBlueScale;
  brandBlue: BrandBlue2Scale;
}

export type ThemeVariant = 'light' | 'dark';

export type SemanticToken = 'text' | 'background';
`, out)
}

func TestRenderEmptyInput(t *testing.T) {
	t.Parallel()

	require.Equal(t, `// Blueprint theme types
// Generated by blueprint-theme. Do not edit.

export type ColorName = never;

export interface ColorRegistry {
}

export type ThemeVariant = never;

export type SemanticToken = never;
`, Render(Input{}))
}

func TestPascal(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"gray":        "Gray",
		"brand-blue":  "BrandBlue",
		"brandBlue":   "BrandBlue",
		"warm_gray_2": "WarmGray2",
		"-":           "Color",
	}
	for in, want := range cases {
		require.Equal(t, want, Pascal(in), in)
	}
}

func TestGenerateFromResolvedTheme(t *testing.T) {
	t.Parallel()

	cfg, err := config.ParseTheme([]byte(`name: Types
version: 0.3.0
colors:
  - name: gray
    source: oklch(0.55 0.02 260)
    steps: [100, 500]
  - name: accent-red
    source: oklch(0.6 0.18 25)
    steps: [500]
variants:
  light:
    text: gray.500
    surface: "#ffffff"
  dark:
    text: gray.100
    border: accent-red.500
`), "theme.yaml")
	require.NoError(t, err)

	resolved, err := theme.Build(cfg, nil)
	require.NoError(t, err)

	in := FromTheme(resolved)
	require.Equal(t, "Types v0.3.0", in.Title)
	require.Equal(t, []Family{
		{Name: "gray", Steps: []int{100, 500}},
		{Name: "accent-red", Steps: []int{500}},
	}, in.Families)
	require.Equal(t, []string{"light", "dark"}, in.Variants)
	require.Equal(t, []string{"text", "surface", "border"}, in.Tokens)

	out := Generate(resolved)
	require.Contains(t, out, "export type ColorName = 'gray' | 'accent-red';\n")
	require.Contains(t, out, "  'accent-red': AccentRedScale;\n")
	require.Contains(t, out, "export type SemanticToken = 'text' | 'surface' | 'border';\n")
	require.Equal(t, out, Generate(resolved))
}
