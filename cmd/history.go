package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"breathwork/internal/report"
	"breathwork/internal/storage"
	"breathwork/internal/ui/display"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const historyTimeLayout = "2006-01-02 15:04"

var errHistoryDisabled = errors.New("session history is disabled")

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int
	command := &cobra.Command{
		Use:   "history",
		Short: "List recorded sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, cleanup, err := historyFor(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := history.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(records))
			return nil
		},
	}
	command.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of sessions to list (0 for all)")
	return command
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id|latest> <file.pdf>",
		Short: "Write a PDF summary of a recorded session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, cleanup, err := historyFor(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			record, err := findRecord(cmd.Context(), history, args[0])
			if err != nil {
				return err
			}
			if err := report.WritePDFFile(args[1], record); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
			return nil
		},
	}
}

func historyFor(cmd *cobra.Command, opts *options) (*storage.History, func(), error) {
	env, err := newEnvironment(cmd, opts)
	if err != nil {
		return nil, nil, err
	}
	if env.history == nil {
		env.Close()
		return nil, nil, errHistoryDisabled
	}
	return env.history, env.Close, nil
}

func findRecord(ctx context.Context, history *storage.History, id string) (storage.SessionRecord, error) {
	if id == "latest" {
		return history.Latest(ctx)
	}
	return history.Get(ctx, id)
}

func renderHistory(records []storage.SessionRecord) string {
	rows := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Finished", "Rounds", "Breaths", "Cycle", "Max hold")
	for _, record := range records {
		rows.Row(
			record.ID,
			record.FinishedAt.Local().Format(historyTimeLayout),
			strconv.Itoa(record.Config.RoundsTarget),
			strconv.Itoa(record.Config.BreathsPerRound),
			fmt.Sprintf("%.1fs", record.Config.BreathCycleSeconds),
			display.FormatSeconds(record.MaxHold),
		)
	}
	return rows.String()
}
