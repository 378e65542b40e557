package generate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/logger"
	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

const serviceTheme = `name: Service
version: 1.0.0
colors:
  - name: gray
    source: oklch(0.55 0.02 260)
spacing:
  base: 4
  scale: [1, 2]
accessibility:
  enforce_wcag: true
variants:
  light:
    text: gray.950
    background: gray.50
`

const brandPlugin = `id: brand
version: 1.0.0
colors:
  - name: brand
    source: oklch(0.5 0.1 30)
variants:
  light:
    primary: brand.700
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newService(t *testing.T) (*Service, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "debug", Writer: buf})
	require.NoError(t, err)
	return NewService(log), buf
}

func TestGenerateWritesThenReportsUnchanged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	themePath := writeFile(t, dir, "theme.yaml", serviceTheme)
	pluginPath := writeFile(t, dir, "brand.yaml", brandPlugin)
	outDir := filepath.Join(dir, "dist")

	svc, logs := newService(t)
	req := GenerateRequest{Request: Request{ThemePath: themePath, PluginPaths: []string{pluginPath}}, OutDir: outDir}

	outcome, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, []string{"brand"}, outcome.Prepared.Theme.PluginOrder())
	require.Len(t, outcome.Files, 2)
	for _, f := range outcome.Files {
		require.Equal(t, FileWritten, f.State)
	}
	require.Equal(t, StatusOK, outcome.Result.Status)
	require.True(t, outcome.Result.Success)

	css, err := os.ReadFile(filepath.Join(outDir, CSSFile))
	require.NoError(t, err)
	require.Equal(t, outcome.Artifacts.CSS, string(css))
	require.Contains(t, string(css), "--bp-color-primary: var(--bp-brand-700);")

	types, err := os.ReadFile(filepath.Join(outDir, TypesFile))
	require.NoError(t, err)
	require.Contains(t, string(types), "export type ColorName = 'gray' | 'brand';")

	again, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	for _, f := range again.Files {
		require.Equal(t, FileUnchanged, f.State)
	}
	require.Equal(t, outcome.Artifacts, again.Artifacts)

	require.Contains(t, logs.String(), `"message":"theme resolved"`)
}

func TestGenerateCheckReportsDrift(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	themePath := writeFile(t, dir, "theme.yaml", serviceTheme)
	svc, _ := newService(t)

	_, err := svc.Generate(context.Background(), GenerateRequest{Request: Request{ThemePath: themePath}, OutDir: dir})
	require.NoError(t, err)

	cssPath := filepath.Join(dir, CSSFile)
	current, err := os.ReadFile(cssPath)
	require.NoError(t, err)
	stale := strings.Replace(string(current), "--bp-spacing-2: 8px;", "--bp-spacing-2: 10px;", 1)
	require.NotEqual(t, string(current), stale)
	require.NoError(t, os.WriteFile(cssPath, []byte(stale), 0o644))

	outcome, err := svc.Generate(context.Background(), GenerateRequest{Request: Request{ThemePath: themePath}, OutDir: dir, Check: true})
	require.ErrorIs(t, err, ErrDrift)
	require.Equal(t, StatusDrifted, outcome.Result.Status)
	require.Equal(t, "check", outcome.Result.Operation)

	require.Equal(t, FileDrifted, outcome.Files[0].State)
	require.Contains(t, outcome.Files[0].Diff, "-  --bp-spacing-2: 10px;")
	require.Contains(t, outcome.Files[0].Diff, "+  --bp-spacing-2: 8px;")
	require.Equal(t, FileUnchanged, outcome.Files[1].State)

	onDisk, err := os.ReadFile(cssPath)
	require.NoError(t, err)
	require.Equal(t, stale, string(onDisk))
}

func TestGenerateCheckWithoutFilesDrifts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	themePath := writeFile(t, dir, "theme.yaml", serviceTheme)
	outDir := filepath.Join(dir, "missing")
	svc, _ := newService(t)

	outcome, err := svc.Generate(context.Background(), GenerateRequest{Request: Request{ThemePath: themePath}, OutDir: outDir, Check: true})
	require.ErrorIs(t, err, ErrDrift)
	require.Len(t, outcome.Files, 2)
	_, statErr := os.Stat(outDir)
	require.True(t, os.IsNotExist(statErr))
}

func TestEnforcedContrastBlocksOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	themePath := writeFile(t, dir, "theme.yaml", serviceTheme+`  dark:
    text: gray.500
    background: gray.500
`)
	outDir := filepath.Join(dir, "dist")
	svc, logs := newService(t)

	outcome, err := svc.Generate(context.Background(), GenerateRequest{Request: Request{ThemePath: themePath}, OutDir: outDir})
	require.ErrorIs(t, err, ErrContrastViolations)
	require.Len(t, outcome.Report.Violations, 1)
	require.Equal(t, "dark", outcome.Report.Violations[0].Variant)
	require.Equal(t, StatusViolations, outcome.Result.Status)
	require.False(t, outcome.Result.Success)
	require.Empty(t, outcome.Files)
	require.Contains(t, logs.String(), "contrast violation")

	_, statErr := os.Stat(outDir)
	require.True(t, os.IsNotExist(statErr))
}

func TestUnenforcedContrastWarnsOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := strings.Replace(serviceTheme, "  enforce_wcag: true\n", "  enforce_wcag: false\n", 1) + `  dark:
    text: gray.500
    background: gray.500
`
	themePath := writeFile(t, dir, "theme.yaml", doc)
	svc, _ := newService(t)

	outcome, err := svc.Validate(context.Background(), Request{ThemePath: themePath})
	require.NoError(t, err)
	require.Len(t, outcome.Report.Violations, 1)
	require.False(t, outcome.Report.Failed())
	require.True(t, outcome.Result.Success)

	_, err = svc.Validate(context.Background(), Request{ThemePath: themePath, Strict: true})
	require.ErrorIs(t, err, ErrContrastViolations)
}

func TestValidateReportsConfigurationErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	themePath := writeFile(t, dir, "theme.yaml", strings.Replace(serviceTheme, "  base: 4\n", "  base: 0\n", 1))
	svc, _ := newService(t)

	outcome, err := svc.Validate(context.Background(), Request{ThemePath: themePath})
	require.ErrorIs(t, err, bperrors.ErrInvalidConfiguration)
	require.Equal(t, StatusFailed, outcome.Result.Status)
	require.Equal(t, "INVALID_CONFIGURATION", outcome.Result.Error.Code)
	require.Equal(t, "Fix the spacing section", outcome.Result.Error.Suggestion)
}

func TestValidateReportsParseErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	themePath := writeFile(t, dir, "theme.yaml", "name: [broken\n")
	svc, _ := newService(t)

	outcome, err := svc.Validate(context.Background(), Request{ThemePath: themePath})
	var parseErr *bperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "PARSE_ERROR", outcome.Result.Error.Code)
}

func TestPrepareHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc, _ := newService(t)
	_, err := svc.Prepare(ctx, Request{ThemePath: "unused.yaml"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrepareUsesConfiguredRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := strings.Replace(serviceTheme, "  enforce_wcag: true\n", `  enforce_wcag: true
  contrast_rules:
    - {foreground: text, background: background, min_ratio: 7}
`, 1)
	themePath := writeFile(t, dir, "theme.yaml", doc)
	svc, _ := newService(t)

	prepared, err := svc.Prepare(context.Background(), Request{ThemePath: themePath})
	require.NoError(t, err)
	require.Len(t, prepared.Rules, 1)
	require.Equal(t, 7.0, prepared.Rules[0].MinRatio)
}
