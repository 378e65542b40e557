package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/app/generate"
	"github.com/KyleBlankRollins/blueprint-sub003/internal/logger"
)

// appContext bundles the services created once settings are known.
type appContext struct {
	settings *viper.Viper
	log      *logger.Logger
	service  *generate.Service
}

type rootFlags struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	app := &appContext{}

	cmd := &cobra.Command{
		Use:           "blueprint-theme",
		Short:         "Generate and validate Blueprint design-token themes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "settings file (default: ./.blueprint.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "auto", "Log format (auto, human, json)")

	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// init loads settings with precedence flag > BLUEPRINT_* env > settings file > default.
func (a *appContext) init(cmd *cobra.Command, flags *rootFlags) error {
	v := viper.New()
	v.SetEnvPrefix("BLUEPRINT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags.configFile != "" {
		v.SetConfigFile(flags.configFile)
	} else {
		v.SetConfigName(".blueprint")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if flags.configFile != "" || !errors.As(err, &notFound) {
			return newCommandError("load settings", "reading settings file", err, "Check the settings file syntax or pass --config with a valid path.")
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return newCommandError("load settings", "binding flags", err, "This is a bug; please report it.")
	}

	level := v.GetString("log-level")
	if flags.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: humanLogs(v.GetString("log-format"), cmd.ErrOrStderr()),
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return newCommandError("load settings", fmt.Sprintf("parsing log level %q", level), err, "Use one of debug, info, warn or error.")
	}

	a.settings = v
	a.log = log
	a.service = generate.NewService(log)
	log.WithFields(map[string]any{"settings": v.ConfigFileUsed(), "command": cmd.Name()}).Debug("settings loaded")
	return nil
}

func humanLogs(format string, w io.Writer) bool {
	switch format {
	case "human":
		return true
	case "json":
		return false
	default:
		return isTerminal(w)
	}
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
