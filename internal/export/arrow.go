package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/nvandessel/dbnsim/internal/sampler"
)

// WriteArrow writes the frame as a single-record Arrow IPC stream. The time
// column is int64 steps on an integer axis and second-precision timestamps on
// a calendar axis; node columns are float64.
func WriteArrow(w io.Writer, frame *sampler.Frame) error {
	var timeType arrow.DataType = arrow.PrimitiveTypes.Int64
	if frame.Calendar() {
		timeType = &arrow.TimestampType{Unit: arrow.Second}
	}

	fields := make([]arrow.Field, 0, len(frame.Columns())+1)
	fields = append(fields, arrow.Field{Name: frame.TimeColumn(), Type: timeType})
	for _, col := range frame.Columns() {
		fields = append(fields, arrow.Field{Name: col, Type: arrow.PrimitiveTypes.Float64})
	}
	schema := arrow.NewSchema(fields, nil)

	mem := memory.DefaultAllocator
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for _, tick := range frame.Ticks() {
		if ts, ok := tick.Time(); ok {
			builder.Field(0).(*array.TimestampBuilder).Append(arrow.Timestamp(ts.Unix()))
		} else {
			builder.Field(0).(*array.Int64Builder).Append(int64(tick.Step()))
		}
	}
	for i, col := range frame.Columns() {
		values, _ := frame.Column(col)
		builder.Field(i + 1).(*array.Float64Builder).AppendValues(values, nil)
	}

	record := builder.NewRecord()
	defer record.Release()

	aw := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := aw.Write(record); err != nil {
		aw.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return nil
}
