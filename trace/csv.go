package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CSVRecorder streams records as CSV rows. The signal columns are fixed from
// the first record written, so every row has the same shape; addresses
// appearing later are ignored rather than corrupting the table.
type CSVRecorder struct {
	w           *csv.Writer
	columns     []string
	wroteHeader bool
}

// NewCSVRecorder creates a recorder writing to w.
func NewCSVRecorder(w io.Writer) *CSVRecorder {
	return &CSVRecorder{w: csv.NewWriter(w)}
}

// Write appends one record as a CSV row, emitting the header first if needed.
func (c *CSVRecorder) Write(r Record) error {
	if !c.wroteHeader {
		c.columns = signalColumns(r)
		header := append([]string{"session", "cycle", "timestamp", "scan_us"}, c.columns...)
		if err := c.w.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		c.wroteHeader = true
	}

	row := []string{
		r.Session,
		strconv.FormatUint(r.Cycle, 10),
		r.Timestamp.Format(time.RFC3339Nano),
		strconv.FormatInt(r.ScanTime.Microseconds(), 10),
	}
	for _, col := range c.columns {
		row = append(row, cellValue(r, col))
	}
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	return nil
}

// Close flushes buffered rows.
func (c *CSVRecorder) Close() error {
	c.w.Flush()
	return c.w.Error()
}

func cellValue(r Record, addr string) string {
	if v, ok := r.Outputs[addr]; ok {
		return boolCell(v)
	}
	if v, ok := r.Memory[addr]; ok {
		return boolCell(v)
	}
	if v, ok := r.AnalogOutputs[addr]; ok {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if v, ok := r.MemoryWords[addr]; ok {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ""
}

func boolCell(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
