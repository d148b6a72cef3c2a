// Package history persists check results to a local SQLite ledger so past
// runs can be reviewed with "modcheck history".
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/modcheck/internal/contract"
)

//go:embed schema.sql
var schemaSQL string

// Run is a single recorded check result.
type Run struct {
	ID         int64
	RunID      string // shared by all results of one invocation
	Binary     string // checked binary path, or "self"
	ModulePath string
	Check      string
	Passed     bool
	Version    string
	Reason     string // violation reason, empty on pass
	Timestamp  time.Time
}

// Store manages the SQLite database holding recorded check runs
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	// Handle in-memory database
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	// Ensure parent directory exists for file-based databases
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

// openAndInitStore opens the database connection and initializes schema
func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure SQLite for concurrent access with retry logic.
	// busy_timeout must come first so subsequent operations wait on locks.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}

		// Only retry on "database is locked" errors
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		delay := baseDelay * time.Duration(1<<attempt)
		time.Sleep(delay)
	}
	return lastErr
}

// initSchema applies the embedded schema
func (s *Store) initSchema() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NewRunID returns a fresh identifier for one invocation's results.
func NewRunID() string {
	return uuid.NewString()
}

// RecordResults inserts one row per check result under the given run id.
func (s *Store) RecordResults(ctx context.Context, runID, binary string, results []contract.Result) error {
	if runID == "" {
		runID = NewRunID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO check_results
		(run_id, binary, module_path, check_name, passed, version, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, res := range results {
		reason := ""
		if res.Err != nil {
			reason = res.Err.Error()
		}
		if _, err := tx.ExecContext(ctx, query,
			runID,
			binary,
			res.Module,
			res.Check,
			res.Passed(),
			res.Version,
			reason,
		); err != nil {
			return fmt.Errorf("insert check result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit check results: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent recorded results, newest first.
// When failedOnly is true only failing results are returned.
func (s *Store) RecentRuns(ctx context.Context, limit int, failedOnly bool) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, run_id, binary, module_path, check_name, passed, version, reason, timestamp
		FROM check_results`
	if failedOnly {
		query += ` WHERE passed = 0`
	}
	query += ` ORDER BY id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var version, reason sql.NullString
		if err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.Binary,
			&run.ModulePath,
			&run.Check,
			&run.Passed,
			&version,
			&reason,
			&run.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan check result row: %w", err)
		}

		if version.Valid {
			run.Version = version.String
		}
		if reason.Valid {
			run.Reason = reason.String
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check result rows: %w", err)
	}
	return runs, nil
}

// PruneBefore deletes results older than the cutoff and returns the number
// of rows removed.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM check_results WHERE timestamp < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune check results: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned rows: %w", err)
	}
	return deleted, nil
}
