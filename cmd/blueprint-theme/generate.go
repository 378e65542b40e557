package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/app/generate"
)

type generateOptions struct {
	ThemePath string
	Plugins   []string
	OutDir    string
	Check     bool
	Strict    bool
	JSON      bool
}

var generateCmdRunner = runGenerate

func newGenerateCmd(app *appContext) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <theme.yaml>",
		Short: "Write the theme stylesheet and TypeScript declarations",
		Long: `Generate resolves the theme and its plugins, checks contrast and writes
blueprint-theme.css and blueprint-theme.d.ts into the output directory.
With --check nothing is written; the command fails with a diff when the files
on disk are out of date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ThemePath = args[0]
			opts.OutDir = app.settings.GetString("out")
			opts.Strict = app.settings.GetBool("strict")
			return generateCmdRunner(cmd, app, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Plugins, "plugin", "p", nil, "Additional plugin file (repeatable)")
	cmd.Flags().StringP("out", "o", ".", "Output directory")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Fail if generated files differ from those on disk")
	cmd.Flags().Bool("strict", false, "Treat contrast violations as errors")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output results in JSON format")

	return cmd
}

func runGenerate(cmd *cobra.Command, app *appContext, opts generateOptions) error {
	outcome, err := app.service.Generate(cmd.Context(), generate.GenerateRequest{
		Request: generate.Request{
			ThemePath:   opts.ThemePath,
			PluginPaths: opts.Plugins,
			Strict:      opts.Strict,
		},
		OutDir: opts.OutDir,
		Check:  opts.Check,
	})

	out := cmd.OutOrStdout()
	if opts.JSON {
		if jsonErr := writeJSON(out, reportJSON{Result: outcome.Result, Report: outcome.Report, Files: outcome.Files}); jsonErr != nil {
			return jsonErr
		}
	} else if outcome.Prepared != nil {
		if len(outcome.Report.Violations) > 0 {
			renderReport(out, outcome.Report)
		}
		for _, f := range outcome.Files {
			fmt.Fprintf(out, "%-9s %s\n", f.State, f.Path)
			if f.Diff != "" {
				fmt.Fprint(out, f.Diff)
			}
		}
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, generate.ErrDrift):
		return newCommandError("check generated files", "comparing with "+opts.OutDir, err, "Run 'blueprint-theme generate' and commit the result.")
	default:
		return serviceError("generate theme", outcome.Result, err)
	}
}
