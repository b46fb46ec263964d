package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewTriggerCommand creates the trigger command group.
func NewTriggerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Inspect or clear the analysis trigger",
	}
	cmd.AddCommand(newTriggerShowCommand(rootOpts))
	cmd.AddCommand(newTriggerClearCommand(rootOpts))
	return cmd
}

func newTriggerShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the pending trigger as JSON (null when none)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			a, err := opts.openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.Services.GetTrigger(commandContext(cmd))
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read trigger", err)
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
}

// The worker runs this when it finishes, which completes any waiting run.
func newTriggerClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Clear the trigger, signalling completion",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			a, err := opts.openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			prev, err := a.Services.ClearTrigger(commandContext(cmd), 0)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to clear trigger", err)
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"status": "cleared", "trigger": prev})
			}
			if prev == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no trigger pending")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared trigger for plant=%s node=%s\n", prev.PlantID, prev.SensorNode)
			return nil
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
