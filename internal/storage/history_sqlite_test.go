package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"breathwork/internal/core/model"
	"breathwork/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	history, err := OpenHistory(context.Background(), HistoryPath(filepath.Join(t.TempDir(), "data")))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := history.Close(); err != nil {
			t.Logf("history close failed: %v", err)
		}
	})
	return history
}

func sampleRecord(finished time.Time, holds ...float64) SessionRecord {
	best := 0.0
	for _, held := range holds {
		if held > best {
			best = held
		}
	}
	return SessionRecord{
		StartedAt:    finished.Add(-10 * time.Minute),
		FinishedAt:   finished,
		Config:       model.ExerciseConfig{RoundsTarget: len(holds), BreathsPerRound: 30, BreathCycleSeconds: 1.5},
		RoundResults: holds,
		MaxHold:      best,
	}
}

func TestHistorySaveAndGet(t *testing.T) {
	ctx := context.Background()
	history := openTestHistory(t)
	finished := time.Date(2026, 3, 4, 7, 30, 0, 0, time.UTC)

	saved, err := history.Save(ctx, sampleRecord(finished, 62.4, 75.1, 80.0))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	loaded, err := history.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestHistoryListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	history := openTestHistory(t)
	base := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)

	for day := 0; day < 3; day++ {
		_, err := history.Save(ctx, sampleRecord(base.AddDate(0, 0, day), float64(30+day)))
		require.NoError(t, err)
	}

	all, err := history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, base.AddDate(0, 0, 2), all[0].FinishedAt)
	assert.Equal(t, []float64{32}, all[0].RoundResults)

	limited, err := history.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	latest, err := history.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, all[0].ID, latest.ID)
}

func TestHistoryNotFound(t *testing.T) {
	ctx := context.Background()
	history := openTestHistory(t)

	_, err := history.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = history.Latest(ctx)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, history.Delete(ctx, "missing"), ErrSessionNotFound)
}

func TestHistoryDeleteCascadesRounds(t *testing.T) {
	ctx := context.Background()
	history := openTestHistory(t)
	saved, err := history.Save(ctx, sampleRecord(time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC), 10, 20))
	require.NoError(t, err)

	require.NoError(t, history.Delete(ctx, saved.ID))
	_, err = history.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	var rounds int
	require.NoError(t, history.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rounds`).Scan(&rounds))
	assert.Zero(t, rounds)
}

func TestHistoryDuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	history := openTestHistory(t)
	record := sampleRecord(time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC), 10)
	record.ID = "fixed"

	_, err := history.Save(ctx, record)
	require.NoError(t, err)
	_, err = history.Save(ctx, record)
	assert.Error(t, err)

	loaded, err := history.Get(ctx, "fixed")
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, loaded.RoundResults)
}

func TestRecordFromSnapshot(t *testing.T) {
	finished := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	snapshot := session.Snapshot{
		Phase:           session.PhaseResults,
		Config:          model.DefaultConfig(),
		Round:           3,
		RoundResults:    []float64{40, 55.5, 61.2},
		MaxHoldDuration: 61.2,
		StartedAt:       finished.Add(-12 * time.Minute),
		FinishedAt:      finished,
	}

	record, err := RecordFromSnapshot(snapshot)
	require.NoError(t, err)
	assert.Equal(t, snapshot.RoundResults, record.RoundResults)
	assert.Equal(t, 61.2, record.MaxHold)
	assert.Equal(t, finished, record.FinishedAt)

	snapshot.Phase = session.PhaseHoldBreath
	_, err = RecordFromSnapshot(snapshot)
	assert.Error(t, err)
}
