// Package cli implements plantctl, an operator and worker tool for the
// analysis trigger.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"plant_monitor/internal/app"
	"plant_monitor/internal/config"
	"plant_monitor/internal/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	DBPath    string
	Format    string // "json" | "text"
	Verbose   bool

	// appOptions are passed to app.New; tests use them to replace the worker.
	appOptions []app.Option
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the plantctl root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plantctl",
		Short: "Plant monitor control tool",
		Long:  "Run plant health analyses and inspect or clear the shared analysis trigger.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config", "configs", "directory holding config.yml")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "override db.path from the config")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTriggerCommand(opts))

	return cmd
}

// loadConfig reads the config and applies the global overrides.
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigDir)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.DBPath != "" {
		cfg.DB.Path = o.DBPath
	}
	if o.Verbose {
		cfg.Log.Level = logger.DebugLevel
	}
	return cfg, nil
}

// openApp wires the application for one command. Logs go to stderr so that
// stdout carries only command output.
func (o *RootOptions) openApp(cmd *cobra.Command, cfg config.Config) (*app.App, error) {
	log := logger.New(cfg.Log.Level, cmd.ErrOrStderr())
	a, err := app.New(cfg, log, nil, o.appOptions...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return a, nil
}
