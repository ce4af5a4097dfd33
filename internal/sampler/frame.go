package sampler

import (
	"fmt"

	"github.com/nvandessel/dbnsim/internal/timeline"
)

// Frame is the generated time series: one float64 column per node plus the
// time axis. Rows are timesteps in increasing order. A Frame is immutable
// once built.
type Frame struct {
	timeColumn string
	ticks      []timeline.Tick
	columns    []string
	data       map[string][]float64
}

// NewFrame assembles a frame from pre-built columns. Every column must have
// exactly one value per tick. Used by the sampler and by the run store when
// rehydrating a persisted run.
func NewFrame(timeColumn string, ticks []timeline.Tick, columns []string, data map[string][]float64) (*Frame, error) {
	for _, col := range columns {
		values, ok := data[col]
		if !ok {
			return nil, fmt.Errorf("frame column %q has no data", col)
		}
		if len(values) != len(ticks) {
			return nil, fmt.Errorf("frame column %q has %d values for %d ticks", col, len(values), len(ticks))
		}
	}
	return &Frame{timeColumn: timeColumn, ticks: ticks, columns: columns, data: data}, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.ticks) }

// TimeColumn returns the name of the time axis column.
func (f *Frame) TimeColumn() string { return f.timeColumn }

// Ticks returns the time axis. The slice is shared; treat it as read-only.
func (f *Frame) Ticks() []timeline.Tick { return f.ticks }

// Calendar reports whether the frame was generated against a calendar axis.
func (f *Frame) Calendar() bool {
	return len(f.ticks) > 0 && f.ticks[0].Calendar()
}

// Columns returns the value column names in output order, excluding the time
// column.
func (f *Frame) Columns() []string { return f.columns }

// Column returns the values of one column.
func (f *Frame) Column(name string) ([]float64, bool) {
	values, ok := f.data[name]
	return values, ok
}

// Value returns the value at (column, row). It panics on an unknown column or
// an out-of-range row, mirroring slice indexing.
func (f *Frame) Value(column string, row int) float64 {
	values, ok := f.data[column]
	if !ok {
		panic(fmt.Sprintf("sampler: no column %q in frame", column))
	}
	return values[row]
}
