package store

import (
	"context"
	"strings"
	"testing"

	"github.com/nvandessel/dbnsim/internal/sampler"
	"github.com/nvandessel/dbnsim/internal/timeline"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testFrame(t *testing.T, calendar bool) *sampler.Frame {
	t.Helper()
	var ticks []timeline.Tick
	if calendar {
		var err error
		ticks, err = timeline.Calendar(3, "2024-01-01", "daily", "")
		if err != nil {
			t.Fatalf("Calendar failed: %v", err)
		}
	} else {
		ticks = timeline.Steps(3)
	}
	frame, err := sampler.NewFrame("Time", ticks, []string{"a", "b"}, map[string][]float64{
		"a": {1.5, 2.5, 3.5},
		"b": {-1, 0, 1},
	})
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	return frame
}

func TestSaveAndLoadRun(t *testing.T) {
	for _, calendar := range []bool{false, true} {
		name := "integer axis"
		if calendar {
			name = "calendar axis"
		}
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t)
			ctx := context.Background()
			frame := testFrame(t, calendar)

			id, err := s.SaveRun(ctx, "demo", frame)
			if err != nil {
				t.Fatalf("SaveRun failed: %v", err)
			}
			if id == "" {
				t.Fatal("expected a run ID")
			}

			loaded, err := s.LoadRun(ctx, id)
			if err != nil {
				t.Fatalf("LoadRun failed: %v", err)
			}
			if loaded.Len() != frame.Len() {
				t.Fatalf("expected %d rows, got %d", frame.Len(), loaded.Len())
			}
			if loaded.Calendar() != calendar {
				t.Errorf("expected calendar=%v, got %v", calendar, loaded.Calendar())
			}
			for _, col := range frame.Columns() {
				for i := 0; i < frame.Len(); i++ {
					if loaded.Value(col, i) != frame.Value(col, i) {
						t.Errorf("%s row %d: expected %g, got %g",
							col, i, frame.Value(col, i), loaded.Value(col, i))
					}
				}
			}
			for i, tick := range frame.Ticks() {
				if loaded.Ticks()[i].String() != tick.String() {
					t.Errorf("tick %d: expected %s, got %s", i, tick, loaded.Ticks()[i])
				}
			}
		})
	}
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	frame := testFrame(t, false)

	for _, model := range []string{"first", "second"} {
		if _, err := s.SaveRun(ctx, model, frame); err != nil {
			t.Fatalf("SaveRun(%s) failed: %v", model, err)
		}
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	for _, r := range runs {
		if r.Steps != 3 {
			t.Errorf("run %s: expected 3 steps, got %d", r.ID, r.Steps)
		}
		if len(r.Columns) != 2 {
			t.Errorf("run %s: expected 2 columns, got %v", r.ID, r.Columns)
		}
	}
}

func TestDeleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, "demo", testFrame(t, false))
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := s.DeleteRun(ctx, id); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := s.LoadRun(ctx, id); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error after delete, got %v", err)
	}
	if err := s.DeleteRun(ctx, id); err == nil {
		t.Error("expected error deleting a missing run")
	}
}
