package sqlite

// initSchema creates the database schema if it doesn't exist.
func (db *DB) initSchema() error {
	schema := `
	-- Changes of the displayed alert
	CREATE TABLE IF NOT EXISTS alert_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		prev_alert_type TEXT NOT NULL DEFAULT '',
		alert_type TEXT NOT NULL DEFAULT '',
		text1 TEXT NOT NULL DEFAULT '',
		text2 TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 0,
		shown_at DATETIME NOT NULL
	);

	-- Indexes for common queries
	CREATE INDEX IF NOT EXISTS idx_alert_history_shown_at ON alert_history(shown_at DESC);
	CREATE INDEX IF NOT EXISTS idx_alert_history_alert_type ON alert_history(alert_type);
	CREATE INDEX IF NOT EXISTS idx_alert_history_run_id ON alert_history(run_id, cycle);

	-- Cycle latency samples, flushed at the end of a run
	CREATE TABLE IF NOT EXISTS cycle_latency (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		at TEXT NOT NULL,
		duration_ns INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cycle_latency_run_id ON cycle_latency(run_id, at);
	CREATE INDEX IF NOT EXISTS idx_cycle_latency_at ON cycle_latency(at);
	`

	_, err := db.conn.Exec(schema)
	return err
}
