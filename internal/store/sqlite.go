// Package store persists generated runs in a SQLite database, so series can
// be listed, re-exported and compared after the fact.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/dbnsim/internal/sampler"
	"github.com/nvandessel/dbnsim/internal/timeline"
)

// RunStore is a SQLite-backed archive of generated runs.
type RunStore struct {
	db     *sql.DB
	dbPath string
}

// RunMeta describes one stored run.
type RunMeta struct {
	ID         string
	Model      string
	CreatedAt  time.Time
	Steps      int
	TimeColumn string
	Calendar   bool
	Columns    []string
}

// Open creates or opens the run database under dir.
func Open(dir string) (*RunStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	dbPath := filepath.Join(dir, "dbnsim.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &RunStore{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a generated frame under a fresh run ID and returns the ID.
func (s *RunStore) SaveRun(ctx context.Context, model string, frame *sampler.Frame) (string, error) {
	columns, err := json.Marshal(frame.Columns())
	if err != nil {
		return "", fmt.Errorf("encode column list: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, model, created_at, steps, time_column, calendar, columns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, model, time.Now().UTC(), frame.Len(), frame.TimeColumn(), frame.Calendar(), string(columns))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (run_id, step, tick, node, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range frame.Columns() {
		values, _ := frame.Column(name)
		for step, tick := range frame.Ticks() {
			if _, err := stmt.ExecContext(ctx, id, step, tick.String(), name, values[step]); err != nil {
				return "", fmt.Errorf("insert sample (%s, step %d): %w", name, step, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns all stored runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context) ([]RunMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, model, created_at, steps, time_column, calendar, columns
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMeta
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// GetRun returns the metadata of one run.
func (s *RunStore) GetRun(ctx context.Context, id string) (RunMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, model, created_at, steps, time_column, calendar, columns
		 FROM runs WHERE id = ?`, id)
	meta, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunMeta{}, fmt.Errorf("run %s not found", id)
	}
	return meta, err
}

// LoadRun rehydrates a stored run as a frame.
func (s *RunStore) LoadRun(ctx context.Context, id string) (*sampler.Frame, error) {
	meta, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	ticks := make([]timeline.Tick, meta.Steps)
	data := make(map[string][]float64, len(meta.Columns))
	for _, name := range meta.Columns {
		data[name] = make([]float64, meta.Steps)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT step, tick, node, value FROM samples WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			step  int
			tick  string
			node  string
			value float64
		)
		if err := rows.Scan(&step, &tick, &node, &value); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		if step < 0 || step >= meta.Steps {
			return nil, fmt.Errorf("sample step %d out of range for run %s", step, id)
		}
		if meta.Calendar {
			ts, err := time.Parse(timeline.Layout, tick)
			if err != nil {
				return nil, fmt.Errorf("parse stored tick %q: %w", tick, err)
			}
			ticks[step] = timeline.CalendarTick(step, ts)
		} else {
			ticks[step] = timeline.StepTick(step)
		}
		values, ok := data[node]
		if !ok {
			return nil, fmt.Errorf("sample for undeclared column %q in run %s", node, id)
		}
		values[step] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}

	return sampler.NewFrame(meta.TimeColumn, ticks, meta.Columns, data)
}

// DeleteRun removes a run and its samples.
func (s *RunStore) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunMeta, error) {
	var (
		meta    RunMeta
		columns string
	)
	err := row.Scan(&meta.ID, &meta.Model, &meta.CreatedAt, &meta.Steps,
		&meta.TimeColumn, &meta.Calendar, &columns)
	if err != nil {
		return RunMeta{}, err
	}
	if err := json.Unmarshal([]byte(columns), &meta.Columns); err != nil {
		return RunMeta{}, fmt.Errorf("decode column list: %w", err)
	}
	return meta, nil
}
