package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/willibrandon/eventarb/internal/metrics"
)

// Fixed-width UTC timestamps so text comparison orders chronologically.
const latencyTimeLayout = "2006-01-02T15:04:05.000000000Z"

// LatencyStore persists cycle latency samples per loop run.
type LatencyStore struct {
	db *DB
}

// NewLatencyStore creates a new LatencyStore.
func NewLatencyStore(db *DB) *LatencyStore {
	return &LatencyStore{db: db}
}

// SaveBatch persists samples of one run in a transaction.
func (s *LatencyStore) SaveBatch(ctx context.Context, runID string, samples []metrics.LatencySample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cycle_latency (run_id, at, duration_ns) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		if sample.Duration < 0 {
			continue
		}
		_, err := stmt.ExecContext(ctx, runID, sample.At.UTC().Format(latencyTimeLayout), int64(sample.Duration))
		if err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetForRun returns the samples of a run, oldest first.
// If limit is 0, every sample is returned.
func (s *LatencyStore) GetForRun(ctx context.Context, runID string, limit int) ([]metrics.LatencySample, error) {
	query := `SELECT at, duration_ns FROM cycle_latency WHERE run_id = ? ORDER BY at ASC, id ASC`
	args := []any{runID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// RunLatency summarizes the stored samples of one run.
type RunLatency struct {
	RunID   string        `json:"run_id"`
	Samples int64         `json:"samples"`
	Average time.Duration `json:"average"`
	Max     time.Duration `json:"max"`
	First   time.Time     `json:"first"`
	Last    time.Time     `json:"last"`
}

// Summaries aggregates samples by run, most recent run first.
func (s *LatencyStore) Summaries(ctx context.Context, limit int) ([]RunLatency, error) {
	query := `
		SELECT run_id, COUNT(*), AVG(duration_ns), MAX(duration_ns), MIN(at), MAX(at)
		FROM cycle_latency
		GROUP BY run_id
		ORDER BY MAX(at) DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var result []RunLatency
	for rows.Next() {
		var r RunLatency
		var avg float64
		var maxNS int64
		var first, last string
		if err := rows.Scan(&r.RunID, &r.Samples, &avg, &maxNS, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Average = time.Duration(avg)
		r.Max = time.Duration(maxNS)
		r.First, _ = time.Parse(latencyTimeLayout, first)
		r.Last, _ = time.Parse(latencyTimeLayout, last)
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// Prune removes samples older than the retention period.
// Returns number of rows deleted.
func (s *LatencyStore) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC().Format(latencyTimeLayout)

	result, err := s.db.conn.ExecContext(ctx, `DELETE FROM cycle_latency WHERE at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune: %w", err)
	}

	return result.RowsAffected()
}

// scanSamples scans rows into LatencySample slice.
func scanSamples(rows *sql.Rows) ([]metrics.LatencySample, error) {
	var result []metrics.LatencySample
	for rows.Next() {
		var at string
		var ns int64
		if err := rows.Scan(&at, &ns); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		t, err := time.Parse(latencyTimeLayout, at)
		if err != nil {
			continue // Skip malformed timestamps
		}

		result = append(result, metrics.LatencySample{At: t, Duration: time.Duration(ns)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}
