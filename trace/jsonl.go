package trace

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONLRecorder streams records as JSON Lines: one record object per line.
type JSONLRecorder struct {
	enc *json.Encoder
}

// NewJSONLRecorder creates a recorder writing to w.
func NewJSONLRecorder(w io.Writer) *JSONLRecorder {
	return &JSONLRecorder{enc: json.NewEncoder(w)}
}

// Write appends one record as a JSON line.
func (j *JSONLRecorder) Write(r Record) error {
	if err := j.enc.Encode(r); err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return nil
}

// Close is a no-op; the encoder writes through.
func (j *JSONLRecorder) Close() error { return nil }
