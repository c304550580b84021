package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"breathwork/internal/core/session"
	"breathwork/internal/logging"
	"breathwork/internal/platform"
	"breathwork/internal/storage"
	"breathwork/internal/ui/preferences"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// environment is what every command needs: logger, effective settings and,
// when enabled, the history database.
type environment struct {
	logger   *slog.Logger
	settings preferences.Settings
	history  *storage.History
}

func newEnvironment(cmd *cobra.Command, opts *options) (*environment, error) {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("using default settings", "err", err)
		settings = preferences.DefaultSettings()
	}
	settings, err = opts.apply(cmd, settings)
	if err != nil {
		return nil, err
	}

	env := &environment{logger: logger, settings: settings}
	if settings.HistoryEnabled {
		env.history, err = openHistory(cmd.Context())
		if err != nil {
			logger.Warn("session history disabled", "err", err)
		}
	}
	return env, nil
}

func openHistory(ctx context.Context) (*storage.History, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return storage.OpenHistory(ctx, storage.HistoryPath(platform.DataDir(appName)))
}

// recordFinished stores a finished session and returns its id, or "" when history is off.
func (env *environment) recordFinished(ctx context.Context, snapshot session.Snapshot) (string, error) {
	if env.history == nil {
		return "", nil
	}
	record, err := storage.RecordFromSnapshot(snapshot)
	if err != nil {
		return "", err
	}
	saved, err := env.history.Save(ctx, record)
	if err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	env.logger.Info("session recorded", "id", saved.ID, "max_hold_seconds", saved.MaxHold)
	return saved.ID, nil
}

func (env *environment) Close() {
	if env.history == nil {
		return
	}
	if err := env.history.Close(); err != nil {
		env.logger.Warn("close history", "err", err)
	}
}

func isTerminal(file *os.File) bool {
	return file != nil && term.IsTerminal(int(file.Fd()))
}
