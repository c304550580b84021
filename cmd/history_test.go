package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"breathwork/internal/core/model"
	"breathwork/internal/platform"
	"breathwork/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateDirs(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "data"))
	t.Setenv("HOME", t.TempDir())
}

func seedHistory(t *testing.T) storage.SessionRecord {
	t.Helper()
	ctx := context.Background()
	history, err := storage.OpenHistory(ctx, storage.HistoryPath(platform.DataDir(appName)))
	require.NoError(t, err)
	defer history.Close()

	finished := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	saved, err := history.Save(ctx, storage.SessionRecord{
		StartedAt:    finished.Add(-10 * time.Minute),
		FinishedAt:   finished,
		Config:       model.ExerciseConfig{RoundsTarget: 2, BreathsPerRound: 30, BreathCycleSeconds: 1.5},
		RoundResults: []float64{61.2, 75.4},
		MaxHold:      75.4,
	})
	require.NoError(t, err)
	return saved
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHistoryCommandListsSessions(t *testing.T) {
	isolateDirs(t)
	saved := seedHistory(t)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, saved.ID)
	assert.Contains(t, out, "75.4 seconds")
	assert.Contains(t, out, "Max hold")
}

func TestHistoryCommandEmpty(t *testing.T) {
	isolateDirs(t)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions recorded yet.")
}

func TestHistoryCommandDisabled(t *testing.T) {
	isolateDirs(t)

	_, err := execute(t, "history", "--no-history")
	assert.ErrorIs(t, err, errHistoryDisabled)
}

func TestExportCommandWritesPDF(t *testing.T) {
	isolateDirs(t)
	saved := seedHistory(t)
	dir := t.TempDir()

	latest := filepath.Join(dir, "latest.pdf")
	out, err := execute(t, "export", "latest", latest)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+latest)

	byID := filepath.Join(dir, "by-id.pdf")
	_, err = execute(t, "export", saved.ID, byID)
	require.NoError(t, err)

	for _, path := range []string{latest, byID} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	}
}

func TestExportCommandUnknownSession(t *testing.T) {
	isolateDirs(t)
	seedHistory(t)

	_, err := execute(t, "export", "missing", filepath.Join(t.TempDir(), "out.pdf"))
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}
