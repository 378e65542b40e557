package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/app/generate"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/config"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/watch"
)

type watchOptions struct {
	ThemePath string
	Plugins   []string
	OutDir    string
	Debounce  time.Duration
}

func newWatchCmd(app *appContext) *cobra.Command {
	opts := watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <theme.yaml>",
		Short: "Regenerate output whenever the theme or its plugins change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ThemePath = args[0]
			opts.OutDir = app.settings.GetString("out")
			return runWatch(cmd, app, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Plugins, "plugin", "p", nil, "Additional plugin file (repeatable)")
	cmd.Flags().StringP("out", "o", ".", "Output directory")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 200*time.Millisecond, "Quiet period before regenerating")

	return cmd
}

func runWatch(cmd *cobra.Command, app *appContext, opts watchOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := generate.GenerateRequest{
		Request: generate.Request{ThemePath: opts.ThemePath, PluginPaths: opts.Plugins},
		OutDir:  opts.OutDir,
	}
	out := cmd.OutOrStdout()

	regenerate := func() error {
		outcome, err := app.service.Generate(ctx, req)
		if err != nil && !errors.Is(err, generate.ErrContrastViolations) {
			return err
		}
		if len(outcome.Report.Violations) > 0 {
			renderReport(out, outcome.Report)
		}
		for _, f := range outcome.Files {
			if f.State == generate.FileWritten {
				fmt.Fprintf(out, "%-9s %s\n", f.State, f.Path)
			}
		}
		return nil
	}

	if err := regenerate(); err != nil {
		app.log.Error(err, "initial generation failed")
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}

	files, err := watchedFiles(opts)
	if err != nil {
		return newCommandError("watch theme", "collecting files to watch", err, "Check that the theme file exists and is readable.")
	}

	w, err := watch.New(watch.Config{Paths: files, Debounce: opts.Debounce})
	if err != nil {
		return newCommandError("watch theme", "starting file watcher", err, "Check file permissions and inotify limits.")
	}

	app.log.WithFields(map[string]any{"files": files}).Info("watching for changes")
	fmt.Fprintf(out, "watching %d files, press Ctrl+C to stop\n", len(files))

	return w.Run(ctx, regenerate, func(err error) {
		app.log.Error(err, "regeneration failed")
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	})
}

// watchedFiles is the theme plus every plugin file it resolves to. A theme that
// does not parse yet is still watched on its own.
func watchedFiles(opts watchOptions) ([]string, error) {
	if _, err := os.Stat(opts.ThemePath); err != nil {
		return nil, err
	}
	bundle, err := config.LoadBundle(opts.ThemePath, opts.Plugins)
	if err != nil {
		return append([]string{opts.ThemePath}, opts.Plugins...), nil
	}
	return bundle.Files(), nil
}
