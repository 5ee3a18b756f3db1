package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/morinote/dailynote/internal/pipeline"
)

// HistoryDB provides SQLite-based storage for stage run history.
//
// Design decision: History lives in one database under the data
// directory rather than inside the published repository. Run metadata is
// operational, not content; committing it would generate a publish-loop
// of history-only commits.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "dailynote.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // WAL error takes precedence
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Schema error takes precedence
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file location.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Stage runs record every stage execution, successful or not
	CREATE TABLE IF NOT EXISTS stage_runs (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		stage TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_date ON stage_runs(date);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON stage_runs(started_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// StageRun is one stored stage run.
type StageRun struct {
	// ID is the run's unique identifier.
	ID string

	// Date is the pipeline date the stage ran for.
	Date string

	// Stage is the stage name.
	Stage string

	// Status is pipeline.StatusSuccess or pipeline.StatusFailed.
	Status string

	// Error is the failure message, empty on success.
	Error string

	// StartedAt and FinishedAt bound the stage's execution.
	StartedAt  time.Time
	FinishedAt time.Time
}

// RecordRun implements pipeline.Recorder by inserting one stage outcome.
func (hdb *HistoryDB) RecordRun(ctx context.Context, rec pipeline.RunRecord) error {
	query := `
	INSERT INTO stage_runs (id, date, stage, status, error, started_at, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := hdb.db.ExecContext(ctx, query,
		uuid.NewString(),
		rec.Date,
		rec.Stage,
		rec.Status,
		rec.Error,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record stage run: %w", err)
	}

	return nil
}

// ListRuns retrieves stored runs, newest first. An empty date returns runs
// for all dates; limit <= 0 means no limit.
func (hdb *HistoryDB) ListRuns(ctx context.Context, date string, limit int) ([]StageRun, error) {
	query := `
	SELECT id, date, stage, status, error, started_at, finished_at
	FROM stage_runs
	WHERE 1=1
	`
	args := make([]any, 0, 2)

	if date != "" {
		query += " AND date = ?"
		args = append(args, date)
	}

	query += " ORDER BY started_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stage runs: %w", err)
	}
	defer rows.Close()

	var runs []StageRun
	for rows.Next() {
		var run StageRun
		var errMsg sql.NullString
		var started, finished string

		if err := rows.Scan(&run.ID, &run.Date, &run.Stage, &run.Status, &errMsg, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan stage run: %w", err)
		}

		run.Error = errMsg.String
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// LastRun returns the most recent run of the given stage for the date, or
// nil when the stage never ran.
func (hdb *HistoryDB) LastRun(ctx context.Context, date, stage string) (*StageRun, error) {
	query := `
	SELECT id, date, stage, status, error, started_at, finished_at
	FROM stage_runs
	WHERE date = ? AND stage = ?
	ORDER BY started_at DESC
	LIMIT 1
	`

	var run StageRun
	var errMsg sql.NullString
	var started, finished string

	err := hdb.db.QueryRowContext(ctx, query, date, stage).Scan(
		&run.ID, &run.Date, &run.Stage, &run.Status, &errMsg, &started, &finished)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stage run: %w", err)
	}

	run.Error = errMsg.String
	run.StartedAt = parseTimestamp(started)
	run.FinishedAt = parseTimestamp(finished)
	return &run, nil
}

// timestampFormats contains the timestamp formats the database may hold.
// Runs are written as RFC3339Nano; older rows may carry other forms.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
