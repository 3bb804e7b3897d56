package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"studyclock/internal/core/model"
	"studyclock/internal/core/timekeeper"
)

const historyFileName = "history.duckdb"

// SessionRecord is one completed study session.
type SessionRecord struct {
	ID          string
	CompletedAt time.Time
	Duration    time.Duration
	Phases      string
}

// HistorySummary aggregates every recorded session.
type HistorySummary struct {
	Sessions  int
	Studied   time.Duration
	LastEnded time.Time
}

// History stores completed sessions in DuckDB.
type History struct {
	db *sql.DB
}

// HistoryPath resolves the history database inside the per-user config directory.
func HistoryPath(appName string) (string, error) {
	return ConfigPath(appName, historyFileName)
}

// OpenHistory opens or creates the history database at path. An empty path
// opens an in-memory database.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR PRIMARY KEY,
			completed_at TIMESTAMP NOT NULL,
			duration_seconds BIGINT NOT NULL,
			phases VARCHAR NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &History{db: db}, nil
}

// Close releases the database.
func (history *History) Close() error {
	return history.db.Close()
}

// NewSessionRecord describes a session that finished at completedAt with phases.
func NewSessionRecord(phases []model.Phase, completedAt time.Time) SessionRecord {
	names := make([]string, 0, len(phases))
	for _, phase := range phases {
		names = append(names, fmt.Sprintf("%s %s", phase.Name, phase.Duration))
	}
	return SessionRecord{
		ID:          uuid.NewString(),
		CompletedAt: completedAt.UTC(),
		Duration:    model.TotalDuration(phases),
		Phases:      strings.Join(names, ", "),
	}
}

// Record inserts one session.
func (history *History) Record(ctx context.Context, record SessionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	_, err := history.db.ExecContext(ctx,
		`INSERT INTO sessions (id, completed_at, duration_seconds, phases) VALUES (?, ?, ?, ?)`,
		record.ID, record.CompletedAt.UTC(), int64(record.Duration/time.Second), record.Phases,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Summary totals all recorded sessions.
func (history *History) Summary(ctx context.Context) (HistorySummary, error) {
	var (
		count   int64
		seconds int64
		last    sql.NullTime
	)
	row := history.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			CAST(COALESCE(SUM(duration_seconds), 0) AS BIGINT),
			MAX(completed_at)
		FROM sessions
	`)
	if err := row.Scan(&count, &seconds, &last); err != nil {
		return HistorySummary{}, fmt.Errorf("summarize sessions: %w", err)
	}

	summary := HistorySummary{
		Sessions: int(count),
		Studied:  time.Duration(seconds) * time.Second,
	}
	if last.Valid {
		summary.LastEnded = last.Time
	}
	return summary, nil
}

// Recent returns up to limit sessions, newest first.
func (history *History) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := history.db.QueryContext(ctx, `
		SELECT id, completed_at, duration_seconds, phases
		FROM sessions
		ORDER BY completed_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var (
			record  SessionRecord
			seconds int64
		)
		if err := rows.Scan(&record.ID, &record.CompletedAt, &seconds, &record.Phases); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		record.Duration = time.Duration(seconds) * time.Second
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

// RecordSessions stores a record for every session_complete event until ctx
// ends or events is closed. Insert failures are logged and skipped.
func RecordSessions(ctx context.Context, history *History, events <-chan timekeeper.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Type != timekeeper.EventSessionComplete {
				continue
			}
			record := NewSessionRecord(event.Snapshot.Phases, event.At)
			if err := history.Record(ctx, record); err != nil {
				log.Printf("history: %v", err)
			}
		}
	}
}
