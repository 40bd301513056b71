package sim

import "time"

// TimerState is the runtime state of one on-delay timer instance.
type TimerState struct {
	Running bool    `json:"running"`
	Elapsed float64 `json:"elapsed"` // milliseconds
	Preset  float64 `json:"preset"`  // milliseconds
	Done    bool    `json:"done"`
}

// CounterState is the runtime state of one count-up counter instance.
type CounterState struct {
	Count  float64 `json:"count"`
	Preset float64 `json:"preset"`
	Done   bool    `json:"done"`
}

// State is the mutable runtime counterpart of a Program: flat boolean and
// numeric tables keyed by address, plus timer and counter instances. The
// engine owns exactly one live State; State() hands out deep copies so a
// caller can never observe a half-written tick.
type State struct {
	Inputs        map[string]bool    `json:"inputs"`
	Outputs       map[string]bool    `json:"outputs"`
	Memory        map[string]bool    `json:"memory"`
	AnalogInputs  map[string]float64 `json:"analogInputs"`
	AnalogOutputs map[string]float64 `json:"analogOutputs"`
	MemoryWords   map[string]float64 `json:"memoryWords"`

	Timers   map[string]*TimerState   `json:"timers"`
	Counters map[string]*CounterState `json:"counters"`

	Running    bool          `json:"isRunning"`
	ScanTime   time.Duration `json:"scanTime"`
	CycleCount uint64        `json:"cycleCount"`
}

func newState() *State {
	return &State{
		Inputs:        make(map[string]bool),
		Outputs:       make(map[string]bool),
		Memory:        make(map[string]bool),
		AnalogInputs:  make(map[string]float64),
		AnalogOutputs: make(map[string]float64),
		MemoryWords:   make(map[string]float64),
		Timers:        make(map[string]*TimerState),
		Counters:      make(map[string]*CounterState),
	}
}

// Clone creates a deep copy of the state.
func (s *State) Clone() *State {
	c := newState()
	for k, v := range s.Inputs {
		c.Inputs[k] = v
	}
	for k, v := range s.Outputs {
		c.Outputs[k] = v
	}
	for k, v := range s.Memory {
		c.Memory[k] = v
	}
	for k, v := range s.AnalogInputs {
		c.AnalogInputs[k] = v
	}
	for k, v := range s.AnalogOutputs {
		c.AnalogOutputs[k] = v
	}
	for k, v := range s.MemoryWords {
		c.MemoryWords[k] = v
	}
	for k, v := range s.Timers {
		t := *v
		c.Timers[k] = &t
	}
	for k, v := range s.Counters {
		ct := *v
		c.Counters[k] = &ct
	}
	c.Running = s.Running
	c.ScanTime = s.ScanTime
	c.CycleCount = s.CycleCount
	return c
}
