package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL for the run store. Samples are kept in long form:
// one row per (run, step, node).
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	model       TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	steps       INTEGER NOT NULL,
	time_column TEXT NOT NULL,
	calendar    INTEGER NOT NULL,
	columns     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS samples (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	step   INTEGER NOT NULL,
	tick   TEXT NOT NULL,
	node   TEXT NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (run_id, step, node)
);

CREATE INDEX IF NOT EXISTS idx_samples_run_step ON samples(run_id, step);
`

// initSchema creates the tables if they do not exist yet.
func initSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}
