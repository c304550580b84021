package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"breathwork/internal/core/model"
	"breathwork/internal/core/session"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrSessionNotFound is returned when no stored session matches.
var ErrSessionNotFound = errors.New("session not found")

const historyFileName = "history.db"

const historySchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	rounds_target INTEGER NOT NULL,
	breaths_per_round INTEGER NOT NULL,
	breath_cycle_seconds REAL NOT NULL,
	max_hold_seconds REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS rounds (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	round INTEGER NOT NULL,
	hold_seconds REAL NOT NULL,
	PRIMARY KEY (session_id, round)
);
CREATE INDEX IF NOT EXISTS idx_sessions_finished_at ON sessions(finished_at);
`

// SessionRecord is a finished exercise as stored in the history database.
type SessionRecord struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Config       model.ExerciseConfig
	RoundResults []float64
	MaxHold      float64
}

// RecordFromSnapshot builds a record from a snapshot in PhaseResults.
func RecordFromSnapshot(snapshot session.Snapshot) (SessionRecord, error) {
	if snapshot.Phase != session.PhaseResults {
		return SessionRecord{}, fmt.Errorf("snapshot in phase %s is not finished", snapshot.Phase)
	}
	return SessionRecord{
		StartedAt:    snapshot.StartedAt,
		FinishedAt:   snapshot.FinishedAt,
		Config:       snapshot.Config,
		RoundResults: append([]float64(nil), snapshot.RoundResults...),
		MaxHold:      snapshot.MaxHoldDuration,
	}, nil
}

// History stores finished sessions in sqlite.
type History struct {
	db *sql.DB
}

// HistoryPath returns the default history database location.
func HistoryPath(dataDir string) string {
	return filepath.Join(dataDir, historyFileName)
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(ctx context.Context, path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Close releases the database handle.
func (history *History) Close() error {
	if history == nil || history.db == nil {
		return nil
	}
	return history.db.Close()
}

// Save stores record, assigning an ID when it has none.
func (history *History) Save(ctx context.Context, record SessionRecord) (SessionRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	tx, err := history.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO sessions
		(id, started_at, finished_at, rounds_target, breaths_per_round, breath_cycle_seconds, max_hold_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.StartedAt.UnixMilli(),
		record.FinishedAt.UnixMilli(),
		record.Config.RoundsTarget,
		record.Config.BreathsPerRound,
		record.Config.BreathCycleSeconds,
		record.MaxHold,
	)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("insert session: %w", err)
	}

	insertRound, err := tx.PrepareContext(ctx, `INSERT INTO rounds (session_id, round, hold_seconds) VALUES (?, ?, ?)`)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("prepare round insert: %w", err)
	}
	defer insertRound.Close()

	for index, held := range record.RoundResults {
		if _, err := insertRound.ExecContext(ctx, record.ID, index+1, held); err != nil {
			return SessionRecord{}, fmt.Errorf("insert round %d: %w", index+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return SessionRecord{}, fmt.Errorf("commit session: %w", err)
	}
	return record, nil
}

// List returns up to limit sessions, most recent first. A non-positive limit returns all.
func (history *History) List(ctx context.Context, limit int) ([]SessionRecord, error) {
	query := `SELECT id, started_at, finished_at, rounds_target, breaths_per_round, breath_cycle_seconds, max_hold_seconds
		FROM sessions ORDER BY finished_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := history.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		record, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	for index := range records {
		if records[index].RoundResults, err = history.roundResults(ctx, records[index].ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Get returns the session with id.
func (history *History) Get(ctx context.Context, id string) (SessionRecord, error) {
	row := history.db.QueryRowContext(ctx, `SELECT id, started_at, finished_at, rounds_target, breaths_per_round, breath_cycle_seconds, max_hold_seconds
		FROM sessions WHERE id = ?`, id)
	record, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return SessionRecord{}, err
	}
	record.RoundResults, err = history.roundResults(ctx, id)
	if err != nil {
		return SessionRecord{}, err
	}
	return record, nil
}

// Latest returns the most recently finished session.
func (history *History) Latest(ctx context.Context) (SessionRecord, error) {
	records, err := history.List(ctx, 1)
	if err != nil {
		return SessionRecord{}, err
	}
	if len(records) == 0 {
		return SessionRecord{}, ErrSessionNotFound
	}
	return records[0], nil
}

// Delete removes a session and its rounds.
func (history *History) Delete(ctx context.Context, id string) error {
	result, err := history.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

func (history *History) roundResults(ctx context.Context, id string) ([]float64, error) {
	rows, err := history.db.QueryContext(ctx,
		`SELECT hold_seconds FROM rounds WHERE session_id = ? ORDER BY round`, id)
	if err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}
	defer rows.Close()

	var results []float64
	for rows.Next() {
		var held float64
		if err := rows.Scan(&held); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		results = append(results, held)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionRecord, error) {
	var (
		record     SessionRecord
		startedAt  int64
		finishedAt int64
	)
	err := row.Scan(
		&record.ID,
		&startedAt,
		&finishedAt,
		&record.Config.RoundsTarget,
		&record.Config.BreathsPerRound,
		&record.Config.BreathCycleSeconds,
		&record.MaxHold,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SessionRecord{}, err
		}
		return SessionRecord{}, fmt.Errorf("scan session: %w", err)
	}
	record.StartedAt = time.UnixMilli(startedAt).UTC()
	record.FinishedAt = time.UnixMilli(finishedAt).UTC()
	return record, nil
}
