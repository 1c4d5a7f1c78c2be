// Package ledger persists an optional, durable record of a run: every
// class/method the pipeline touched, its outcome, conflict count, stub
// count, and elapsed time, addressable later by run ID. It is entirely
// optional — the driver only opens a Ledger when -ledger names a DSN.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Ledger is a single run ledger connection. A run's records are written
// incrementally by every worker as it finishes a method, relying on
// database/sql's *sql.DB being safe for concurrent use; mu serializes
// only run creation (StartRun).
type Ledger struct {
	db     *sql.DB
	driver string
	mu     sync.Mutex
}

// Open parses dsn's scheme prefix to pick a driver, matching the
// convention a run invocation names its ledger with:
// "sqlite:<path>", "postgres://...", "mysql://...", "sqlserver://...".
func Open(dsn string) (*Ledger, error) {
	driverName, rest, err := splitScheme(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, rest)
	if err != nil {
		return nil, fmt.Errorf("ledger: opening %s: %w", driverName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: pinging %s: %w", driverName, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	l := &Ledger{db: db, driver: driverName}
	if err := l.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func splitScheme(dsn string) (driverName, rest string, err error) {
	idx := strings.Index(dsn, "://")
	if idx < 0 {
		idx = strings.Index(dsn, ":")
		if idx < 0 {
			return "", "", fmt.Errorf("ledger: DSN %q has no scheme", dsn)
		}
	}
	scheme, tail := dsn[:idx], dsn[idx+1:]
	tail = strings.TrimPrefix(tail, "//")

	switch scheme {
	case "sqlite", "sqlite3":
		return "sqlite3", tail, nil
	case "postgres", "postgresql":
		return "postgres", dsn, nil
	case "mysql":
		return "mysql", tail, nil
	case "sqlserver", "mssql":
		return "sqlserver", dsn, nil
	default:
		return "", "", fmt.Errorf("ledger: unsupported DSN scheme %q", scheme)
	}
}

func (l *Ledger) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tyde_runs (
			run_id TEXT PRIMARY KEY,
			started_at TIMESTAMP,
			finished_at TIMESTAMP,
			total_classes INTEGER,
			total_methods INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS tyde_method_records (
			run_id TEXT,
			class_descriptor TEXT,
			method_name TEXT,
			method_descriptor TEXT,
			status TEXT,
			conflicts INTEGER,
			stubs INTEGER,
			elapsed_ms INTEGER
		)`,
	}
	for _, s := range stmts {
		if _, err := l.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ledger: creating schema: %w", err)
		}
	}
	return nil
}

// StartRun allocates a fresh run ID and inserts its opening row.
func (l *Ledger) StartRun(ctx context.Context) (uuid.UUID, error) {
	runID := uuid.New()
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO tyde_runs (run_id, started_at) VALUES (?, ?)`,
		runID.String(), time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("ledger: starting run: %w", err)
	}
	return runID, nil
}

// FinishRun stamps a run's completion time and totals.
func (l *Ledger) FinishRun(ctx context.Context, runID uuid.UUID, totalClasses, totalMethods int) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE tyde_runs SET finished_at = ?, total_classes = ?, total_methods = ? WHERE run_id = ?`,
		time.Now().UTC(), totalClasses, totalMethods, runID.String())
	if err != nil {
		return fmt.Errorf("ledger: finishing run: %w", err)
	}
	return nil
}

// Status is one method's terminal outcome, as recorded by RecordMethod.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDecodeErr Status = "decode-error"
	StatusVerifier Status = "verifier-failed"
)

// RecordMethod appends one method's outcome to the ledger. Safe to call
// concurrently from every per-class worker goroutine.
func (l *Ledger) RecordMethod(ctx context.Context, runID uuid.UUID, classDescriptor, methodName, methodDescriptor string, status Status, conflicts, stubs int, elapsed time.Duration) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO tyde_method_records
			(run_id, class_descriptor, method_name, method_descriptor, status, conflicts, stubs, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID.String(), classDescriptor, methodName, methodDescriptor, string(status), conflicts, stubs, elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("ledger: recording method: %w", err)
	}
	return nil
}

// RunSummary is one run row, as returned by Lookup.
type RunSummary struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	TotalClasses int
	TotalMethods int
}

// Lookup fetches one run's summary row by ID. The driver itself never
// calls it.
func (l *Ledger) Lookup(ctx context.Context, runID uuid.UUID) (RunSummary, error) {
	var s RunSummary
	row := l.db.QueryRowContext(ctx,
		`SELECT run_id, started_at, finished_at, total_classes, total_methods FROM tyde_runs WHERE run_id = ?`,
		runID.String())
	if err := row.Scan(&s.RunID, &s.StartedAt, &s.FinishedAt, &s.TotalClasses, &s.TotalMethods); err != nil {
		return RunSummary{}, fmt.Errorf("ledger: looking up run %s: %w", runID, err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}
