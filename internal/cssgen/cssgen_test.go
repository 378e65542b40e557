package cssgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/config"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/theme"
	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

const fixture = `name: Blueprint
version: 2.1.0
colors:
  - name: gray
    source: oklch(0.55 0.02 260)
    steps: [50, 500, 900]
  - name: blue
    source: oklch(0.55 0.12 255)
    steps: [100, 500]
spacing:
  base: 4
  unit: px
  scale: [0, 0.5, 1, 1.5, 4]
radius:
  sm: 2px
  full: 9999px
typography:
  families:
    sans: "Inter, sans-serif"
  base_size: 1
  ratio: 1.25
  sizes:
    sm: -1
    base: 0
    xl: 2
    xxl: 3
  weights:
    bold: 700
  line_heights:
    tight: 1.25
motion:
  durations:
    fast: 150ms
    slow: 400ms
  easings:
    standard: ease-out
z_index:
  modal: 1000
opacity:
  disabled: 0.5
breakpoints:
  md: 768px
focus_ring:
  width: 2px
  offset: 2px
  color: blue.500
accessibility:
  high_contrast: true
variants:
  light:
    background: gray.50
    text: gray.900
    textMuted: gray.500
    border: gray.500
    fontBody: Inter
  dark:
    background: gray.900
    text: gray.50
`

func build(t *testing.T, contents string) *theme.Resolved {
	t.Helper()
	cfg, err := config.ParseTheme([]byte(contents), "theme.yaml")
	require.NoError(t, err)
	resolved, err := theme.Build(cfg, nil)
	require.NoError(t, err)
	return resolved
}

func TestGenerateZeroSpacingBaseEmitsNothing(t *testing.T) {
	t.Parallel()

	resolved := build(t, strings.Replace(fixture, "  base: 4\n", "  base: 0\n", 1))

	css, err := Generate(resolved)
	require.Empty(t, css)
	require.ErrorIs(t, err, bperrors.ErrInvalidConfiguration)

	var cfgErr *bperrors.InvalidConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "spacing", cfgErr.Section)
	require.Equal(t, "base", cfgErr.Name)

	sections, err := Sections(resolved)
	require.Error(t, err)
	require.Nil(t, sections)
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		from, to    string
		wantSection string
		wantName    string
	}{
		{name: "negative base", from: "  base: 4\n", to: "  base: -4\n", wantSection: "spacing", wantName: "base"},
		{name: "empty scale", from: "  scale: [0, 0.5, 1, 1.5, 4]", to: "  scale: []", wantSection: "spacing", wantName: "scale"},
		{name: "negative multiplier", from: "  scale: [0, 0.5, 1, 1.5, 4]", to: "  scale: [0, -1]", wantSection: "spacing", wantName: "scale[1]"},
		{name: "duplicate multiplier", from: "  scale: [0, 0.5, 1, 1.5, 4]", to: "  scale: [0.5, 1, 0.50]", wantSection: "spacing", wantName: "scale[2]"},
		{name: "zero typography ratio", from: "  ratio: 1.25", to: "  ratio: 0", wantSection: "typography", wantName: "ratio"},
		{name: "missing typography base", from: "  base_size: 1\n", to: "", wantSection: "typography", wantName: "base_size"},
		{name: "duplicate radius token", from: "  full: 9999px", to: "  Sm: 4px", wantSection: "radius", wantName: "--bp-radius-sm"},
		{name: "radius escapes block", from: "  sm: 2px\n", to: "  sm: \"2px; } body { display: none\"\n", wantSection: "radius", wantName: "--bp-radius-sm"},
		{name: "empty radius", from: "  full: 9999px", to: "  full: \"\"", wantSection: "radius", wantName: "--bp-radius-full"},
		{name: "empty duration", from: "    fast: 150ms", to: "    fast: \" \"", wantSection: "motion", wantName: "--bp-duration-fast"},
		{name: "easing with brace", from: "    standard: ease-out", to: "    standard: \"ease-out }\"", wantSection: "motion", wantName: "--bp-easing-standard"},
		{name: "font family with semicolon", from: "    sans: \"Inter, sans-serif\"", to: "    sans: \"Inter; color: red\"", wantSection: "typography", wantName: "--bp-font-family-sans"},
		{name: "breakpoint with newline", from: "  md: 768px", to: "  md: \"768px\\nx\"", wantSection: "utility", wantName: "--bp-breakpoint-md"},
		{name: "focus ring width with brace", from: "  width: 2px", to: "  width: \"2px {\"", wantSection: "utility", wantName: "--bp-focus-ring-width"},
		{name: "empty icon size", from: "breakpoints:\n", to: "icon_sizes:\n  sm: \"\"\nbreakpoints:\n", wantSection: "icon-sizes", wantName: "--bp-icon-size-sm"},
		{name: "literal token with brace", from: "    fontBody: Inter", to: "    fontBody: \"Inter }\"", wantSection: "variants.light", wantName: "--bp-font-body"},
		{name: "high contrast override with semicolon", from: "  high_contrast: true\n", to: "  high_contrast: true\n  high_contrast_overrides:\n    text: \"black;\"\n", wantSection: "accessibility", wantName: "--bp-color-text"},
		{name: "colliding family names", from: "    steps: [100, 500]\n", to: "    steps: [100, 500]\n  - name: brandBlue\n    source: oklch(0.5 0.1 250)\n  - name: brand-blue\n    source: oklch(0.6 0.1 250)\n", wantSection: "colors", wantName: "brand-blue"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Contains(t, fixture, tc.from)
			resolved := build(t, strings.Replace(fixture, tc.from, tc.to, 1))

			css, err := Generate(resolved)
			require.Empty(t, css)
			var cfgErr *bperrors.InvalidConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tc.wantSection, cfgErr.Section)
			require.Equal(t, tc.wantName, cfgErr.Name)
		})
	}
}

func TestValidateRequiresVariants(t *testing.T) {
	t.Parallel()

	idx := strings.Index(fixture, "variants:")
	resolved := build(t, fixture[:idx])

	err := Validate(resolved)
	var cfgErr *bperrors.InvalidConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "variants", cfgErr.Section)

	require.ErrorIs(t, Validate(nil), bperrors.ErrInvalidConfiguration)
}

func TestGenerateSectionOrder(t *testing.T) {
	t.Parallel()

	css, err := Generate(build(t, fixture))
	require.NoError(t, err)

	markers := []string{
		"Blueprint theme: Blueprint v2.1.0",
		"--bp-gray-50: #",
		"@supports (color: oklch(0 0 0))",
		`:root, [data-theme="light"] {`,
		`[data-theme="dark"] {`,
		"--bp-spacing-0: 0px;",
		"--bp-radius-sm: 2px;",
		"--bp-duration-fast: 150ms;",
		"--bp-font-family-sans: Inter, sans-serif;",
		"--bp-focus-ring-width: 2px;",
		"@media (prefers-reduced-motion: reduce)",
		"@media (prefers-contrast: more)",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(css, m)
		require.Greater(t, idx, last, "marker %q out of order", m)
		last = idx
	}

	require.NotContains(t, css, "--bp-icon-size")
	require.NotContains(t, css, HighContrastPlaceholder)
}

func TestSectionsNamesInOrder(t *testing.T) {
	t.Parallel()

	sections, err := Sections(build(t, fixture))
	require.NoError(t, err)

	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	require.Equal(t, []string{
		"primitives", "semantic", "spacing", "radius", "motion", "typography",
		"utility", "reduced-motion", "high-contrast", "icon-sizes",
	}, names)
	require.Empty(t, sections[len(sections)-1].Text)
}

func TestPrimitivesEmitHexThenOKLCH(t *testing.T) {
	t.Parallel()

	resolved := build(t, fixture)
	gray, ok := resolved.Scale("gray")
	require.True(t, ok)
	step, _ := gray.Step(500)

	out := Primitives(resolved)
	hexDecl := "  --bp-gray-500: " + step.Swatch.Hex + ";\n"
	oklchDecl := "    --bp-gray-500: " + step.Swatch.CSS + ";\n"
	require.Contains(t, out, hexDecl)
	require.Contains(t, out, oklchDecl)
	require.Less(t, strings.Index(out, hexDecl), strings.Index(out, oklchDecl))
	require.Equal(t, "oklch(0.5500 0.0200 260.00)", step.Swatch.CSS)
}

func TestSemanticBlocks(t *testing.T) {
	t.Parallel()

	out := Semantic(build(t, fixture))
	require.Equal(t, `:root, [data-theme="light"] {
  --bp-color-background: var(--bp-gray-50);
  --bp-color-text: var(--bp-gray-900);
  --bp-color-text-muted: var(--bp-gray-500);
  --bp-color-border: var(--bp-gray-500);
  --bp-font-body: Inter;
}

[data-theme="dark"] {
  --bp-color-background: var(--bp-gray-900);
  --bp-color-text: var(--bp-gray-50);
}
`, out)
}

func TestNonLightVariantNeverClaimsRoot(t *testing.T) {
	t.Parallel()

	resolved := build(t, strings.Replace(fixture, "  light:\n", "  paper:\n", 1))
	out := Semantic(resolved)
	require.True(t, strings.HasPrefix(out, `[data-theme="paper"] {`))
	require.NotContains(t, out, ":root")
}

func TestScaleSections(t *testing.T) {
	t.Parallel()

	resolved := build(t, fixture)

	require.Equal(t, `:root {
  --bp-spacing-0: 0px;
  --bp-spacing-0-5: 2px;
  --bp-spacing-1: 4px;
  --bp-spacing-1-5: 6px;
  --bp-spacing-4: 16px;
}
`, Spacing(resolved))

	require.Equal(t, `:root {
  --bp-font-family-sans: Inter, sans-serif;
  --bp-font-size-sm: 0.8rem;
  --bp-font-size-base: 1rem;
  --bp-font-size-xl: 1.5625rem;
  --bp-font-size-xxl: 1.9531rem;
  --bp-font-weight-bold: 700;
  --bp-line-height-tight: 1.25;
}
`, Typography(resolved))

	require.Equal(t, `:root {
  --bp-duration-fast: 150ms;
  --bp-duration-slow: 400ms;
  --bp-easing-standard: ease-out;
}
`, Motion(resolved))

	require.Equal(t, `:root {
  --bp-focus-ring-width: 2px;
  --bp-focus-ring-offset: 2px;
  --bp-focus-ring-color: var(--bp-blue-500);
  --bp-z-modal: 1000;
  --bp-opacity-disabled: 0.5;
  --bp-breakpoint-md: 768px;
}
`, Utility(resolved))
}

func TestReducedMotionZeroesDurations(t *testing.T) {
	t.Parallel()

	require.Equal(t, `@media (prefers-reduced-motion: reduce) {
  :root {
    --bp-duration-fast: 0ms;
    --bp-duration-slow: 0ms;
  }
}
`, ReducedMotion(build(t, fixture)))
}

func TestHighContrast(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, `@media (prefers-contrast: more) {
  :root {
    --bp-color-text-muted: var(--bp-color-text);
    --bp-color-border: var(--bp-color-text);
    --bp-focus-ring-width: calc(2px + 1px);
  }
}
`, HighContrast(build(t, fixture)))
	})

	t.Run("configured overrides", func(t *testing.T) {
		t.Parallel()
		doc := strings.Replace(fixture, "  high_contrast: true\n", "  high_contrast: true\n  high_contrast_overrides:\n    textMuted: gray.900\n", 1)
		out := HighContrast(build(t, doc))
		require.Contains(t, out, "--bp-color-text-muted: var(--bp-gray-900);")
		require.NotContains(t, out, "--bp-color-border")
	})

	t.Run("disabled emits placeholder", func(t *testing.T) {
		t.Parallel()
		resolved := build(t, strings.Replace(fixture, "  high_contrast: true\n", "  high_contrast: false\n", 1))
		require.Equal(t, HighContrastPlaceholder, HighContrast(resolved))

		css, err := Generate(resolved)
		require.NoError(t, err)
		require.Contains(t, css, "/* High contrast mode disabled */")
		require.NotContains(t, css, "prefers-contrast")
	})
}

func TestIconSizesOnlyWhenConfigured(t *testing.T) {
	t.Parallel()

	doc := strings.Replace(fixture, "breakpoints:\n", "icon_sizes:\n  sm: 16px\n  lg: 24px\nbreakpoints:\n", 1)
	css, err := Generate(build(t, doc))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(css, `:root {
  --bp-icon-size-sm: 16px;
  --bp-icon-size-lg: 24px;
}
`))
}

func TestGenerateIsByteStable(t *testing.T) {
	t.Parallel()

	first, err := Generate(build(t, fixture))
	require.NoError(t, err)
	second, err := Generate(build(t, fixture))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestNaming(t *testing.T) {
	t.Parallel()

	require.Equal(t, "text-muted", Kebab("textMuted"))
	require.Equal(t, "surface-raised-2", Kebab("surfaceRaised_2"))
	require.Equal(t, "--bp-color-primary-text", TokenVar("primaryText"))
	require.Equal(t, "--bp-shadow-lg", TokenVar("shadowLg"))
	require.Equal(t, "--bp-brand-blue-700", PrimitiveVar("brandBlue", 700))
	require.Equal(t, "var(--bp-gray-50)", ValueCSS(theme.ReferenceValue("gray", 50)))
	require.Equal(t, "1px solid", ValueCSS(theme.LiteralValue("1px solid")))
	require.Equal(t, `[data-theme="dark"]`, Selector("dark"))
	require.Equal(t, "0-25", multiplierName(0.25))
	require.Equal(t, "12", multiplierName(12))
	require.Equal(t, "1.9531", formatNumber(1.953125))
	require.Equal(t, "0", formatNumber(0))
	require.Equal(t, "100", formatNumber(100))
}
