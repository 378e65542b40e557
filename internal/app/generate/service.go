// Package generate coordinates a whole generation run: load, build, validate
// contrast and emit stylesheet and type declarations.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/color"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/config"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/contrast"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/cssgen"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/logger"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/theme"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/typegen"
	"github.com/KyleBlankRollins/blueprint-sub003/pkg/diff"
	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

// Output file names written into the output directory.
const (
	CSSFile   = "blueprint-theme.css"
	TypesFile = "blueprint-theme.d.ts"
)

var (
	// ErrContrastViolations is returned when violations are found and enforced.
	ErrContrastViolations = errors.New("contrast requirements not met")
	// ErrDrift is returned by a check run when files on disk differ from generated output.
	ErrDrift = errors.New("generated files are out of date")
)

// Status summarises the outcome of a run.
type Status string

const (
	StatusOK         Status = "ok"
	StatusViolations Status = "violations"
	StatusDrifted    Status = "drifted"
	StatusFailed     Status = "failed"
)

// ErrorDetail is the user-facing description of a failed run.
type ErrorDetail struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Context    string `json:"context,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result describes a finished operation for reporting.
type Result struct {
	Operation   string        `json:"operation"`
	Status      Status        `json:"status"`
	Success     bool          `json:"success"`
	Summary     string        `json:"summary"`
	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`
	Error       *ErrorDetail  `json:"error,omitempty"`
}

// Request names the inputs of a run.
type Request struct {
	ThemePath   string
	PluginPaths []string
	// Strict treats contrast violations as failures even when the theme does
	// not enforce WCAG.
	Strict bool
}

// Prepared is a loaded and resolved theme with the contrast rules that apply to it.
type Prepared struct {
	Bundle *config.Bundle
	Theme  *theme.Resolved
	Rules  []contrast.Rule
}

// Report is the contrast validation result.
type Report struct {
	Theme      string               `json:"theme"`
	Violations []contrast.Violation `json:"violations"`
	Summary    contrast.Summary     `json:"summary"`
	Enforced   bool                 `json:"enforced"`
}

// Failed reports whether the violations should fail the run.
func (r Report) Failed() bool {
	return r.Enforced && len(r.Violations) > 0
}

// Artifacts is the generated output.
type Artifacts struct {
	CSS   string
	Types string
}

// FileState says what happened to an output file.
type FileState string

const (
	FileWritten   FileState = "written"
	FileUnchanged FileState = "unchanged"
	FileDrifted   FileState = "drifted"
)

// FileResult is the outcome for one output file.
type FileResult struct {
	Path  string    `json:"path"`
	State FileState `json:"state"`
	Diff  string    `json:"diff,omitempty"`
}

// Service runs generation. It is safe for repeated use; the color cache is
// shared across runs so watch mode re-renders cheaply.
type Service struct {
	log   *logger.Logger
	cache *color.Cache
	now   func() time.Time
}

// NewService constructs a Service. A nil logger discards log output.
func NewService(log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{log: log, cache: color.NewCache(), now: time.Now}
}

// Prepare loads the bundle and resolves the theme. Configured contrast rules
// are used as written; otherwise the default rules whose tokens exist apply.
func (s *Service) Prepare(ctx context.Context, req Request) (*Prepared, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bundle, err := config.LoadBundle(req.ThemePath, req.PluginPaths)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(map[string]any{
		"theme":   req.ThemePath,
		"plugins": len(bundle.Plugins),
	}).Debug("configuration loaded")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved, err := theme.Build(bundle.Theme, bundle.Plugins, theme.WithCache(s.cache))
	if err != nil {
		return nil, err
	}

	rules := contrast.FromConfig(resolved.Accessibility.ContrastRules)
	if len(rules) == 0 {
		rules = contrast.Applicable(contrast.DefaultRules(), resolved.TokenNames())
	}

	s.log.WithFields(map[string]any{
		"theme":        resolved.Name,
		"families":     len(resolved.Families()),
		"variants":     resolved.VariantNames(),
		"plugin_order": resolved.PluginOrder(),
	}).Info("theme resolved")

	return &Prepared{Bundle: bundle, Theme: resolved, Rules: rules}, nil
}

// Check runs contrast validation on a prepared theme.
func (s *Service) Check(p *Prepared, strict bool) Report {
	violations := contrast.ValidateTheme(p.Theme, p.Rules)
	report := Report{
		Theme:      p.Theme.Name,
		Violations: violations,
		Summary:    contrast.Summarize(p.Theme, p.Rules, violations),
		Enforced:   strict || p.Theme.Accessibility.EnforceWCAG,
	}

	for _, v := range violations {
		fields := map[string]any{
			"variant":  v.Variant,
			"rule":     v.Rule.String(),
			"ratio":    v.Ratio,
			"required": v.Required,
		}
		if v.Reason != "" {
			fields["reason"] = v.Reason
		}
		s.log.WithFields(fields).Warn("contrast violation")
	}
	return report
}

// Render produces the stylesheet and type declarations.
func (s *Service) Render(p *Prepared) (Artifacts, error) {
	css, err := cssgen.Generate(p.Theme)
	if err != nil {
		return Artifacts{}, err
	}
	return Artifacts{CSS: css, Types: typegen.Generate(p.Theme)}, nil
}

// ValidateOutcome is the result of Validate.
type ValidateOutcome struct {
	Prepared *Prepared
	Report   Report
	Result   *Result
}

// Validate resolves the theme, checks contrast and confirms the theme renders.
// Nothing is written.
func (s *Service) Validate(ctx context.Context, req Request) (*ValidateOutcome, error) {
	start := s.now()

	prepared, err := s.Prepare(ctx, req)
	if err != nil {
		return &ValidateOutcome{Result: s.failed("validate", req.ThemePath, start, err)}, err
	}
	if err := cssgen.Validate(prepared.Theme); err != nil {
		return &ValidateOutcome{Prepared: prepared, Result: s.failed("validate", req.ThemePath, start, err)}, err
	}

	report := s.Check(prepared, req.Strict)
	outcome := &ValidateOutcome{
		Prepared: prepared,
		Report:   report,
		Result:   s.contrastResult("validate", req.ThemePath, start, report),
	}
	if report.Failed() {
		return outcome, ErrContrastViolations
	}
	return outcome, nil
}

// GenerateRequest configures a generation run.
type GenerateRequest struct {
	Request
	OutDir string
	// Check compares against files on disk instead of writing.
	Check bool
}

// GenerateOutcome is the result of Generate.
type GenerateOutcome struct {
	Prepared  *Prepared
	Report    Report
	Artifacts Artifacts
	Files     []FileResult
	Result    *Result
}

// Generate validates the theme and writes (or, with Check, compares) the output
// files. Nothing is written when configuration or enforced contrast fails.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateOutcome, error) {
	start := s.now()
	op := "generate"
	if req.Check {
		op = "check"
	}

	validated, err := s.Validate(ctx, req.Request)
	outcome := &GenerateOutcome{Prepared: validated.Prepared, Report: validated.Report}
	if err != nil && !errors.Is(err, ErrContrastViolations) {
		outcome.Result = validated.Result
		outcome.Result.Operation = op
		return outcome, err
	}
	if err != nil {
		outcome.Result = s.contrastResult(op, req.ThemePath, start, validated.Report)
		return outcome, err
	}

	artifacts, err := s.Render(validated.Prepared)
	if err != nil {
		outcome.Result = s.failed(op, req.ThemePath, start, err)
		return outcome, err
	}
	outcome.Artifacts = artifacts

	outDir := req.OutDir
	if outDir == "" {
		outDir = "."
	}
	files := []struct {
		name    string
		content string
	}{
		{CSSFile, artifacts.CSS},
		{TypesFile, artifacts.Types},
	}

	if !req.Check {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			err = fmt.Errorf("create output directory: %w", err)
			outcome.Result = s.failed(op, req.ThemePath, start, err)
			return outcome, err
		}
	}

	drifted := 0
	for _, f := range files {
		path := filepath.Join(outDir, f.name)
		res, err := s.sync(path, []byte(f.content), req.Check)
		if err != nil {
			outcome.Result = s.failed(op, req.ThemePath, start, err)
			return outcome, err
		}
		if res.State == FileDrifted {
			drifted++
		}
		s.log.WithFields(map[string]any{"path": path, "state": res.State}).Info("output file")
		outcome.Files = append(outcome.Files, res)
	}

	if drifted > 0 {
		outcome.Result = &Result{
			Operation:   op,
			Status:      StatusDrifted,
			Summary:     fmt.Sprintf("%d of %d files are out of date", drifted, len(files)),
			Duration:    s.now().Sub(start),
			CompletedAt: s.now().UTC(),
			Error: &ErrorDetail{
				Code:       "DRIFT",
				Message:    ErrDrift.Error(),
				Context:    fmt.Sprintf("Output: %s", outDir),
				Suggestion: "Run 'blueprint-theme generate' to update the files",
			},
		}
		return outcome, ErrDrift
	}

	outcome.Result = s.contrastResult(op, req.ThemePath, start, validated.Report)
	return outcome, nil
}

// sync writes content to path, or with check compares it and reports drift.
func (s *Service) sync(path string, content []byte, check bool) (FileResult, error) {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		existing = nil
	default:
		return FileResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err == nil && bytes.Equal(existing, content) {
		return FileResult{Path: path, State: FileUnchanged}, nil
	}

	if check {
		return FileResult{
			Path:  path,
			State: FileDrifted,
			Diff:  diff.Unified(existing, content, path+" (on disk)", path+" (generated)"),
		}, nil
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return FileResult{}, fmt.Errorf("write %s: %w", path, err)
	}
	return FileResult{Path: path, State: FileWritten}, nil
}

func (s *Service) contrastResult(op, themePath string, start time.Time, report Report) *Result {
	result := &Result{
		Operation:   op,
		Status:      StatusOK,
		Success:     true,
		Duration:    s.now().Sub(start),
		CompletedAt: s.now().UTC(),
	}

	switch {
	case len(report.Violations) == 0:
		result.Summary = fmt.Sprintf("All %d contrast checks passed", report.Summary.Checks)
	case report.Enforced:
		result.Status = StatusViolations
		result.Success = false
		result.Summary = fmt.Sprintf("%d of %d contrast checks failed", len(report.Violations), report.Summary.Checks)
		result.Error = &ErrorDetail{
			Code:       "CONTRAST",
			Message:    ErrContrastViolations.Error(),
			Context:    fmt.Sprintf("Theme: %s", themePath),
			Suggestion: "Adjust the failing token mappings or relax accessibility.contrast_rules",
		}
	default:
		result.Status = StatusViolations
		result.Summary = fmt.Sprintf("%d of %d contrast checks failed (not enforced)", len(report.Violations), report.Summary.Checks)
	}
	return result
}

func (s *Service) failed(op, themePath string, start time.Time, err error) *Result {
	s.log.With("theme", themePath).Error(err, op+" failed")

	detail := &ErrorDetail{
		Code:       "PIPELINE_ERROR",
		Message:    errorMessage(err),
		Context:    fmt.Sprintf("Theme: %s", themePath),
		Suggestion: "Inspect error details and fix configuration",
	}

	var parseErr *bperrors.ParseError
	var cfgErr *bperrors.InvalidConfigurationError
	switch {
	case errors.As(err, &parseErr):
		detail.Code = "PARSE_ERROR"
		detail.Suggestion = "Check the YAML syntax of " + parseErr.Path
	case errors.As(err, &cfgErr):
		detail.Code = "INVALID_CONFIGURATION"
		detail.Suggestion = "Fix the " + cfgErr.Section + " section"
	case bperrors.IsInvalidConfiguration(err):
		detail.Code = "INVALID_CONFIGURATION"
		detail.Suggestion = "Fix the plugin dependency declarations"
	}

	return &Result{
		Operation:   op,
		Status:      StatusFailed,
		Summary:     detail.Message,
		Duration:    s.now().Sub(start),
		CompletedAt: s.now().UTC(),
		Error:       detail,
	}
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
