// Package export writes generated frames to interchange formats: CSV for
// spreadsheets and quick inspection, Arrow IPC for columnar consumers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nvandessel/dbnsim/internal/sampler"
)

// WriteCSV writes the frame as CSV: the time column first, then one column
// per node in output order.
func WriteCSV(w io.Writer, frame *sampler.Frame) error {
	cw := csv.NewWriter(w)

	header := append([]string{frame.TimeColumn()}, frame.Columns()...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(header))
	for row := 0; row < frame.Len(); row++ {
		record[0] = frame.Ticks()[row].String()
		for i, col := range frame.Columns() {
			record[i+1] = strconv.FormatFloat(frame.Value(col, row), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", row, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
