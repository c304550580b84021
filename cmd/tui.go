package main

import (
	"context"
	"errors"
	"os"

	"breathwork/internal/core/clock"
	"breathwork/internal/core/session"
	"breathwork/internal/ui/terminal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errNotTerminal = errors.New("tui needs an interactive terminal")

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the exercise in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errNotTerminal
			}
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *options) error {
	env, err := newEnvironment(cmd, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	exerciseSession := session.New(clock.NewReal(),
		session.WithLogger(env.logger),
		session.WithConfig(env.settings.ExerciseConfig()),
	)
	defer exerciseSession.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	model := terminal.New(exerciseSession, exerciseSession.Subscribe(8), func(snapshot session.Snapshot) (string, error) {
		return env.recordFinished(ctx, snapshot)
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
