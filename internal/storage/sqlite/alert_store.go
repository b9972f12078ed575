package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/willibrandon/eventarb/internal/alerts"
)

// AlertStore provides SQLite persistence for alert transitions.
type AlertStore struct {
	db *DB
}

// NewAlertStore creates a new AlertStore.
func NewAlertStore(db *DB) *AlertStore {
	return &AlertStore{db: db}
}

// DB returns the database backing the store.
func (s *AlertStore) DB() *DB {
	return s.db
}

const selectTransitions = `
	SELECT id, run_id, cycle, prev_alert_type, alert_type, text1, text2,
	       status, priority, shown_at
	FROM alert_history
`

// RecordTransition persists a change of the displayed alert and sets its ID.
func (s *AlertStore) RecordTransition(ctx context.Context, t *alerts.Transition) error {
	query := `
		INSERT INTO alert_history (run_id, cycle, prev_alert_type, alert_type, text1, text2, status, priority, shown_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.conn.ExecContext(ctx, query,
		t.RunID,
		int64(t.Cycle),
		t.PrevAlertType,
		t.AlertType,
		t.Text1,
		t.Text2,
		string(t.Status),
		int(t.Priority),
		t.ShownAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id

	return nil
}

// GetHistory returns recent transitions, newest first.
// If limit is 0, returns every stored transition.
func (s *AlertStore) GetHistory(ctx context.Context, limit int) ([]alerts.Transition, error) {
	return s.query(ctx, "", nil, limit)
}

// GetHistoryForType returns transitions to or from alertType.
func (s *AlertStore) GetHistoryForType(ctx context.Context, alertType string, limit int) ([]alerts.Transition, error) {
	return s.query(ctx, "WHERE alert_type = ? OR prev_alert_type = ?", []any{alertType, alertType}, limit)
}

// GetHistoryForRun returns the transitions of one loop run.
func (s *AlertStore) GetHistoryForRun(ctx context.Context, runID string, limit int) ([]alerts.Transition, error) {
	return s.query(ctx, "WHERE run_id = ?", []any{runID}, limit)
}

// GetHistorySince returns transitions shown at or after since.
func (s *AlertStore) GetHistorySince(ctx context.Context, since time.Time, limit int) ([]alerts.Transition, error) {
	return s.query(ctx, "WHERE shown_at >= ?", []any{since}, limit)
}

func (s *AlertStore) query(ctx context.Context, where string, args []any, limit int) ([]alerts.Transition, error) {
	query := selectTransitions + where + " ORDER BY shown_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransitions(rows)
}

// Count returns the number of stored transitions.
func (s *AlertStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM alert_history`).Scan(&n)
	return n, err
}

// TypeCount is the number of times an alert type was selected.
type TypeCount struct {
	AlertType string
	Count     int64
	LastShown time.Time
}

// CountByType aggregates transitions by the alert type they selected,
// most frequent first.
func (s *AlertStore) CountByType(ctx context.Context) ([]TypeCount, error) {
	query := `
		SELECT alert_type, COUNT(*), MAX(shown_at)
		FROM alert_history
		WHERE alert_type != ''
		GROUP BY alert_type
		ORDER BY COUNT(*) DESC, alert_type
	`

	rows, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		var last sql.NullString
		if err := rows.Scan(&tc.AlertType, &tc.Count, &last); err != nil {
			return nil, err
		}
		if last.Valid {
			tc.LastShown = parseTimestamp(last.String)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// Prune removes transitions older than the retention period.
// Returns number of deleted transitions.
func (s *AlertStore) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	query := `DELETE FROM alert_history WHERE shown_at < ?`

	result, err := s.db.conn.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// scanTransitions scans rows into a slice of Transition.
func scanTransitions(rows *sql.Rows) ([]alerts.Transition, error) {
	var out []alerts.Transition

	for rows.Next() {
		var t alerts.Transition
		var cycle int64
		var status string
		var priority int

		err := rows.Scan(
			&t.ID,
			&t.RunID,
			&cycle,
			&t.PrevAlertType,
			&t.AlertType,
			&t.Text1,
			&t.Text2,
			&status,
			&priority,
			&t.ShownAt,
		)
		if err != nil {
			return nil, err
		}

		t.Cycle = uint64(cycle)
		t.Status = alerts.Status(status)
		t.Priority = alerts.Priority(priority)

		out = append(out, t)
	}

	return out, rows.Err()
}

// Aggregates lose the column's DATETIME affinity, so MAX(shown_at) comes back
// as text in the driver's timestamp layout.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
