package main

import (
	"fmt"
	"strings"

	"breathwork/internal/core/model"
	"breathwork/internal/ui/preferences"

	"github.com/spf13/cobra"
)

// options holds the persistent flags; they override saved settings for one run.
type options struct {
	rounds    int
	breaths   int
	speed     string
	cycle     float64
	logLevel  string
	noHistory bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           appName,
		Short:         "Guided breathing rounds with breath-hold timing",
		Long:          `Breathwork paces rounds of deep breathing, times the breath hold that follows and guides the recovery breath.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, opts)
		},
	}

	opts.bind(root)
	root.AddCommand(
		newGUICmd(opts),
		newTUICmd(opts),
		newHistoryCmd(opts),
		newExportCmd(opts),
	)
	return root
}

func (opts *options) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.IntVar(&opts.rounds, "rounds", 0, "number of rounds")
	flags.IntVar(&opts.breaths, "breaths", 0, "breaths per round")
	flags.StringVar(&opts.speed, "speed", "", "breathing speed preset (slow, normal, fast)")
	flags.Float64Var(&opts.cycle, "cycle", 0, "breath cycle length in seconds, overrides --speed")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noHistory, "no-history", false, "do not record finished sessions")
}

// apply layers the flags the user set over settings.
func (opts *options) apply(cmd *cobra.Command, settings preferences.Settings) (preferences.Settings, error) {
	flags := cmd.Flags()
	if flags.Changed("rounds") {
		settings.Rounds = opts.rounds
	}
	if flags.Changed("breaths") {
		settings.Breaths = opts.breaths
	}
	if flags.Changed("speed") {
		speed, err := model.ParseSpeed(strings.ToLower(opts.speed))
		if err != nil {
			return settings, fmt.Errorf("--speed: %w", err)
		}
		settings.Speed = speed
		settings.CycleSeconds = 0
	}
	if flags.Changed("cycle") {
		if opts.cycle <= 0 {
			return settings, fmt.Errorf("--cycle: %w: must be positive, got %v", model.ErrInvalidConfig, opts.cycle)
		}
		settings.CycleSeconds = opts.cycle
	}
	if opts.noHistory {
		settings.HistoryEnabled = false
	}
	if err := settings.ExerciseConfig().Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}
