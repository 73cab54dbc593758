package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run represents one generate invocation
type Run struct {
	RunID        int64
	RunUUID      string
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	InputDir     string
	OutputDir    string
	Settings     string
	SourceCount  int
	SuccessCount int
	FailedCount  int
	SkippedCount int
	Status       string
}

// RunResult represents the outcome for one source within a run
type RunResult struct {
	SourceName   string
	ThumbPath    string
	Status       string
	ErrorType    string
	ErrorMessage string
	Width        int
	Height       int
	SizeBytes    int64
	DurationMS   int64
}

// CreateRun inserts a run in the running state and returns its ID.
func (db *DB) CreateRun(inputDir, outputDir, settings string, sourceCount int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (run_uuid, started_at, input_dir, output_dir, settings, source_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), time.Now().UTC(), inputDir, outputDir, settings, sourceCount)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// FinishRun stores the final counts and status of a run
func (db *DB) FinishRun(runID int64, success, failed, skipped int, status string) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = ?, success_count = ?, failed_count = ?, skipped_count = ?, status = ?
		WHERE run_id = ?
	`, time.Now().UTC(), success, failed, skipped, status, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// InsertRunResult records a result for a source in a run
func (db *DB) InsertRunResult(runID int64, r RunResult) error {
	_, err := db.Exec(`
		INSERT INTO run_results (run_id, source_name, thumb_path, status, error_type, error_message,
		                         width, height, size_bytes, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, r.SourceName, NewNullString(r.ThumbPath), r.Status, NewNullString(r.ErrorType),
		NewNullString(r.ErrorMessage), r.Width, r.Height, r.SizeBytes, r.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to insert run result: %w", err)
	}
	return nil
}

const runColumns = `run_id, run_uuid, started_at, finished_at, input_dir, output_dir, settings,
	source_count, success_count, failed_count, skipped_count, status`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.RunID,
		&r.RunUUID,
		&r.StartedAt,
		&r.FinishedAt,
		&r.InputDir,
		&r.OutputDir,
		&r.Settings,
		&r.SourceCount,
		&r.SuccessCount,
		&r.FailedCount,
		&r.SkippedCount,
		&r.Status,
	)
	return r, err
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	r, err := scanRun(db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY run_id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunResults retrieves all results for a run in insertion order
func (db *DB) GetRunResults(runID int64) ([]RunResult, error) {
	rows, err := db.Query(`
		SELECT source_name, thumb_path, status, error_type, error_message,
		       width, height, size_bytes, duration_ms
		FROM run_results
		WHERE run_id = ?
		ORDER BY result_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run results: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		var r RunResult
		var thumbPath, errorType, errorMessage sql.NullString
		if err := rows.Scan(&r.SourceName, &thumbPath, &r.Status, &errorType, &errorMessage,
			&r.Width, &r.Height, &r.SizeBytes, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.ThumbPath = thumbPath.String
		r.ErrorType = errorType.String
		r.ErrorMessage = errorMessage.String
		results = append(results, r)
	}

	return results, rows.Err()
}

// NewNullString maps "" to NULL
func NewNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
