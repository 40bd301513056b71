// Package trace records scan-cycle observations from a running simulation:
// streaming CSV/JSONL writers for analysis tooling and a SQLite-backed
// session store for replay.
package trace

import (
	"sort"
	"time"

	"github.com/ladderlab-xyz/go-ladder/sim"
)

// Record is one scan observation derived from an engine snapshot.
type Record struct {
	Session       string             `json:"session"`
	Cycle         uint64             `json:"cycle"`
	Timestamp     time.Time          `json:"timestamp"`
	ScanTime      time.Duration      `json:"scanTime"`
	Outputs       map[string]bool    `json:"outputs,omitempty"`
	Memory        map[string]bool    `json:"memory,omitempty"`
	AnalogOutputs map[string]float64 `json:"analogOutputs,omitempty"`
	MemoryWords   map[string]float64 `json:"memoryWords,omitempty"`
}

// Observe builds a record from a state snapshot. The snapshot is already a
// deep copy, so the maps are referenced, not re-copied.
func Observe(session string, s *sim.State) Record {
	return Record{
		Session:       session,
		Cycle:         s.CycleCount,
		Timestamp:     time.Now(),
		ScanTime:      s.ScanTime,
		Outputs:       s.Outputs,
		Memory:        s.Memory,
		AnalogOutputs: s.AnalogOutputs,
		MemoryWords:   s.MemoryWords,
	}
}

// Recorder consumes scan records.
type Recorder interface {
	Write(Record) error
	Close() error
}

// signalColumns returns the record's address keys in stable sorted order.
func signalColumns(r Record) []string {
	var cols []string
	for a := range r.Outputs {
		cols = append(cols, a)
	}
	for a := range r.Memory {
		cols = append(cols, a)
	}
	for a := range r.AnalogOutputs {
		cols = append(cols, a)
	}
	for a := range r.MemoryWords {
		cols = append(cols, a)
	}
	sort.Strings(cols)
	return cols
}
