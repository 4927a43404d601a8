package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"fixbench/internal/runner"
)

// Store keeps run history in a DuckDB database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a history database at path. An empty path opens
// an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RunRecord is one stored run summary.
type RunRecord struct {
	RunID            string
	FixturesRoot     string
	ToolchainVersion string
	StartedAt        time.Time
	FinishedAt       time.Time
	FixturesTotal    int
	Matched          int
	Mismatched       int
}

// VerdictRecord is one stored fixture verdict.
type VerdictRecord struct {
	RunID           string
	Fixture         string
	Matched         bool
	MismatchCount   int
	DurationSeconds float64
}

// Ingest stores a run and its fixture verdicts. Ingestion is idempotent:
// the run is keyed by a canonical-JSON fingerprint of its results, so
// re-ingesting the same results.json is a no-op.
func (s *Store) Ingest(ctx context.Context, results runner.Results) error {
	if s == nil || s.db == nil {
		return errors.New("history: store is closed")
	}
	if results.RunID == "" {
		return errors.New("history: run ID is empty")
	}
	canonical, err := CanonicalJSON(results)
	if err != nil {
		return fmt.Errorf("canonicalize results: %w", err)
	}
	runKey := fingerprintBytes(canonical)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, run_key, fixtures_root, toolchain_version, started_at, finished_at, fixtures_total, matched, mismatched, results)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id) DO NOTHING`,
		results.RunID,
		runKey,
		results.FixturesRoot,
		results.Toolchain.Version,
		results.StartedAt,
		results.FinishedAt,
		results.Summary.FixturesTotal,
		results.Summary.Matched,
		results.Summary.Mismatched,
		string(canonical),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, fixtureResult := range results.Fixtures {
		mismatches, err := json.Marshal(fixtureResult.Mismatches)
		if err != nil {
			return fmt.Errorf("marshal mismatches: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO verdicts (run_id, fixture, matched, mismatch_count, duration_seconds, mismatches)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (run_id, fixture) DO NOTHING`,
			results.RunID,
			fixtureResult.Fixture,
			fixtureResult.Matched,
			len(fixtureResult.Mismatches),
			fixtureResult.DurationSeconds,
			string(mismatches),
		); err != nil {
			return fmt.Errorf("insert verdict: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, fixtures_root, toolchain_version, started_at, finished_at, fixtures_total, matched, mismatched
		 FROM runs ORDER BY started_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0)
	for rows.Next() {
		var record RunRecord
		if err := rows.Scan(
			&record.RunID,
			&record.FixturesRoot,
			&record.ToolchainVersion,
			&record.StartedAt,
			&record.FinishedAt,
			&record.FixturesTotal,
			&record.Matched,
			&record.Mismatched,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// FixtureHistory returns recent verdicts for one fixture, newest run first.
// It backs flake investigation: a fixture that alternates matched states
// across unchanged toolchain versions is suspect.
func (s *Store) FixtureHistory(ctx context.Context, fixtureName string, limit int) ([]VerdictRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT v.run_id, v.fixture, v.matched, v.mismatch_count, v.duration_seconds
		 FROM verdicts v JOIN runs r ON r.run_id = v.run_id
		 WHERE v.fixture = ?
		 ORDER BY r.started_at DESC, v.run_id DESC LIMIT ?`, fixtureName, limit)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	records := make([]VerdictRecord, 0)
	for rows.Next() {
		var record VerdictRecord
		if err := rows.Scan(
			&record.RunID,
			&record.Fixture,
			&record.Matched,
			&record.MismatchCount,
			&record.DurationSeconds,
		); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
