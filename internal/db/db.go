// Package db persists finished analysis sessions to SQLite.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/strideworks/form.report/internal/engine"
)

// ErrSessionNotFound is returned when a session id has no stored row.
var ErrSessionNotFound = errors.New("session not found")

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the SQLite database at path. Schema is
// managed by migrations; callers run MigrateUp before first use.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// modernc sqlite serializes at the driver level, but a single writer
	// keeps lock contention out of the picture entirely.
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to set %s: %w", pragma, err)
		}
	}

	return &DB{sqlDB}, nil
}

// SessionRow is the sessions table projection used by list and get.
type SessionRow struct {
	ID             string     `json:"id"`
	Exercise       string     `json:"exercise"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	RepCount       int        `json:"rep_count"`
	Classification string     `json:"classification"`
}

// CreateSession inserts a new in-progress session row.
func (db *DB) CreateSession(id, exercise string, startedAt time.Time) error {
	_, err := db.Exec(
		`INSERT INTO sessions (id, exercise, started_at) VALUES (?, ?, ?)`,
		id, exercise, startedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", id, err)
	}
	return nil
}

// SaveReport stores the final report for a session and marks it finished.
// The full report and the primary-angle trace are kept as JSON; reps and
// their errors are additionally normalized into their own tables for
// SQL-side querying. The trace is what the chart endpoint renders once the
// live session is gone.
func (db *DB) SaveReport(id string, report engine.SessionReport, trace []engine.TracePoint, finishedAt time.Time) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	traceJSON, err := json.Marshal(trace)
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE sessions
		 SET finished_at = ?, rep_count = ?, classification = ?, report_json = ?, trace_json = ?
		 WHERE id = ?`,
		finishedAt.UTC(), report.RepCount, report.Classification, string(reportJSON), string(traceJSON), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	for _, rep := range report.Reps {
		chars, err := json.Marshal(rep.Characteristics)
		if err != nil {
			return fmt.Errorf("failed to encode rep %d characteristics: %w", rep.Rep, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO reps (session_id, rep, start_frame, end_frame, depth_rating, characteristics)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, rep.Rep, rep.StartFrame, rep.EndFrame, rep.DepthRating, string(chars),
		); err != nil {
			return fmt.Errorf("failed to insert rep %d: %w", rep.Rep, err)
		}
		for _, e := range rep.Errors {
			if _, err := tx.Exec(
				`INSERT INTO rep_errors (session_id, rep, name, severity, message)
				 VALUES (?, ?, ?, ?, ?)`,
				id, rep.Rep, e.Name, string(e.Severity), e.Message,
			); err != nil {
				return fmt.Errorf("failed to insert rep %d error %s: %w", rep.Rep, e.Name, err)
			}
		}
	}

	return tx.Commit()
}

// GetReport returns the stored report for a finished session.
func (db *DB) GetReport(id string) (engine.SessionReport, error) {
	var raw sql.NullString
	err := db.QueryRow(`SELECT report_json FROM sessions WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.SessionReport{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return engine.SessionReport{}, err
	}
	if !raw.Valid {
		return engine.SessionReport{}, fmt.Errorf("session %s has no stored report", id)
	}

	var report engine.SessionReport
	if err := json.Unmarshal([]byte(raw.String), &report); err != nil {
		return engine.SessionReport{}, fmt.Errorf("failed to decode report for %s: %w", id, err)
	}
	return report, nil
}

// GetTrace returns the stored primary-angle trace for a finished session.
// Sessions saved without trace samples yield an empty slice.
func (db *DB) GetTrace(id string) ([]engine.TracePoint, error) {
	var raw sql.NullString
	err := db.QueryRow(`SELECT trace_json FROM sessions WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if !raw.Valid {
		return nil, nil
	}

	var trace []engine.TracePoint
	if err := json.Unmarshal([]byte(raw.String), &trace); err != nil {
		return nil, fmt.Errorf("failed to decode trace for %s: %w", id, err)
	}
	return trace, nil
}

// GetSession returns the session row for id.
func (db *DB) GetSession(id string) (SessionRow, error) {
	row := db.QueryRow(
		`SELECT id, exercise, started_at, finished_at, COALESCE(rep_count, 0), COALESCE(classification, '')
		 FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRow{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, err
}

// Sessions lists the most recent sessions, newest first.
func (db *DB) Sessions(limit int) ([]SessionRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(
		`SELECT id, exercise, started_at, finished_at, COALESCE(rep_count, 0), COALESCE(classification, '')
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionRow
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ErrorTotals sums per-error rep counts across all finished sessions of one
// exercise.
func (db *DB) ErrorTotals(exercise string) (map[string]int, error) {
	rows, err := db.Query(
		`SELECT e.name, COUNT(DISTINCT e.session_id || ':' || e.rep)
		 FROM rep_errors e
		 JOIN sessions s ON s.id = e.session_id
		 WHERE s.exercise = ?
		 GROUP BY e.name`, exercise)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		totals[name] = count
	}
	return totals, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionRow, error) {
	var s SessionRow
	var finished sql.NullTime
	if err := row.Scan(&s.ID, &s.Exercise, &s.StartedAt, &finished, &s.RepCount, &s.Classification); err != nil {
		return SessionRow{}, err
	}
	if finished.Valid {
		t := finished.Time
		s.FinishedAt = &t
	}
	return s, nil
}
