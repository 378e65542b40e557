package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/app/generate"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/color"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/contrast"
)

type reportStyles struct {
	title lipgloss.Style
	pass  lipgloss.Style
	fail  lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
	r     *lipgloss.Renderer
}

func newReportStyles(w io.Writer) reportStyles {
	r := lipgloss.NewRenderer(w)
	return reportStyles{
		title: r.NewStyle().Bold(true),
		pass:  r.NewStyle().Foreground(lipgloss.Color("#22c55e")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		muted: r.NewStyle().Faint(true),
		r:     r,
	}
}

func (s reportStyles) swatch(sw color.Swatch) string {
	if sw.Hex == "" {
		return s.muted.Render("unresolved")
	}
	return s.r.NewStyle().Background(lipgloss.Color(sw.Hex)).Render("  ") + " " + sw.Hex
}

type symbols struct {
	pass, fail, warn string
}

func reportSymbols(unicode bool) symbols {
	if unicode {
		return symbols{pass: "✔", fail: "✖", warn: "⚠"}
	}
	return symbols{pass: "[OK]", fail: "[XX]", warn: "[!!]"}
}

// renderReport writes the human contrast report. Every violation is listed so
// authors can fix all of them in one pass.
func renderReport(w io.Writer, report generate.Report) {
	styles := newReportStyles(w)
	sym := reportSymbols(isTerminal(w))
	sum := report.Summary

	fmt.Fprintln(w, styles.title.Render("Contrast report: "+report.Theme))
	fmt.Fprintln(w, styles.muted.Render(fmt.Sprintf("%d variants, %d rules, %d checks", sum.Variants, sum.Rules, sum.Checks)))

	if len(report.Violations) == 0 {
		fmt.Fprintln(w, styles.pass.Render(fmt.Sprintf("%s All %d checks passed", sym.pass, sum.Checks)))
		return
	}

	fmt.Fprintln(w)
	for _, v := range report.Violations {
		fmt.Fprintln(w, formatViolation(styles, sym, v, report.Enforced))
	}
	fmt.Fprintln(w)

	msg := fmt.Sprintf("%d of %d checks failed", len(report.Violations), sum.Checks)
	if report.Enforced {
		fmt.Fprintln(w, styles.fail.Render(sym.fail+" "+msg))
		return
	}
	fmt.Fprintln(w, styles.warn.Render(sym.warn+" "+msg+" (not enforced)"))
}

func formatViolation(styles reportStyles, sym symbols, v contrast.Violation, enforced bool) string {
	marker := styles.warn.Render(sym.warn)
	if enforced {
		marker = styles.fail.Render(sym.fail)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-10s %s on %s", marker, v.Variant, v.Rule.Foreground, v.Rule.Background)
	if v.Reason != "" {
		fmt.Fprintf(&b, "  %s", styles.muted.Render(v.Reason))
		return b.String()
	}
	fmt.Fprintf(&b, "  %.2f:1 (needs %.2f:1)  %s on %s",
		v.Ratio, v.Required, styles.swatch(v.Foreground), styles.swatch(v.Background))
	return b.String()
}

type reportJSON struct {
	Result *generate.Result      `json:"result"`
	Report generate.Report       `json:"report"`
	Files  []generate.FileResult `json:"files,omitempty"`
}

func writeJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
