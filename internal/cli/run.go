package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"plant_monitor/internal/models"
	"plant_monitor/internal/service"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	PlantID      string
	SensorNode   string
	PollInterval time.Duration
	MaxAttempts  int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Trigger an analysis and wait for the worker",
		Long: `Write the analysis trigger, launch the configured worker and wait
until the worker clears the trigger.

Examples:
  plantctl run --plant 3f2a --node JSON
  plantctl run --plant 3f2a --node JSON --max-attempts 60 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.PlantID, "plant", "", "plant id (required)")
	_ = cmd.MarkFlagRequired("plant")
	cmd.Flags().StringVar(&opts.SensorNode, "node", "", "sensor node (required)")
	_ = cmd.MarkFlagRequired("node")
	cmd.Flags().DurationVar(&opts.PollInterval, "poll-interval", 0, "override analysis.poll_interval")
	cmd.Flags().IntVar(&opts.MaxAttempts, "max-attempts", 0, "override analysis.max_attempts")

	return cmd
}

func runAnalysis(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if opts.PollInterval > 0 {
		cfg.Analysis.PollInterval = opts.PollInterval
	}
	if opts.MaxAttempts > 0 {
		cfg.Analysis.MaxAttempts = opts.MaxAttempts
	}

	a, err := opts.openApp(cmd, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Services.Run(commandContext(cmd), models.AnalysisRequest{PlantID: opts.PlantID, SensorNode: opts.SensorNode})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return WrapExitError(ExitFailure, "analysis failed", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: plant=%s node=%s request=%s attempts=%d\n",
		res.Status, opts.PlantID, opts.SensorNode, res.RequestID, res.Attempts)
	return nil
}
