package main

import (
	"github.com/spf13/cobra"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/app/generate"
)

type validateOptions struct {
	ThemePath string
	Plugins   []string
	Strict    bool
	JSON      bool
}

var validateCmdRunner = runValidate

func newValidateCmd(app *appContext) *cobra.Command {
	opts := validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <theme.yaml>",
		Short: "Check configuration and contrast without writing files",
		Long: `Validate resolves the theme and its plugins and checks every contrast rule
in every variant. Returns exit code 0 when the theme is usable, 1 when enforced
contrast rules fail and 2 for configuration errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ThemePath = args[0]
			opts.Strict = app.settings.GetBool("strict")
			return validateCmdRunner(cmd, app, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Plugins, "plugin", "p", nil, "Additional plugin file (repeatable)")
	cmd.Flags().Bool("strict", false, "Treat contrast violations as errors")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output results in JSON format")

	return cmd
}

func runValidate(cmd *cobra.Command, app *appContext, opts validateOptions) error {
	outcome, err := app.service.Validate(cmd.Context(), generate.Request{
		ThemePath:   opts.ThemePath,
		PluginPaths: opts.Plugins,
		Strict:      opts.Strict,
	})

	out := cmd.OutOrStdout()
	if opts.JSON {
		if jsonErr := writeJSON(out, reportJSON{Result: outcome.Result, Report: outcome.Report}); jsonErr != nil {
			return jsonErr
		}
	} else if outcome.Prepared != nil && outcome.Result.Status != generate.StatusFailed {
		renderReport(out, outcome.Report)
	}

	if err != nil {
		return serviceError("validate theme", outcome.Result, err)
	}
	return nil
}
