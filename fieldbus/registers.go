// Package fieldbus mirrors simulator runtime state into a Modbus-style
// register address space: discrete inputs, coils, input registers, and
// holding registers. Register assignment is deterministic from the address
// shape, so a register read means the same signal on every sync. Protocol
// framing is out of scope; this is the data plane a bus server polls.
package fieldbus

import (
	"math"
	"strconv"
	"strings"

	"github.com/ladderlab-xyz/go-ladder/ladder"
	"github.com/ladderlab-xyz/go-ladder/sim"
)

// RegisterMap is a snapshot-backed register bank. It holds the most recently
// synced values; Sync replaces them wholesale so readers never see a mix of
// two scans.
type RegisterMap struct {
	discreteInputs   map[uint16]bool
	coils            map[uint16]bool
	inputRegisters   map[uint16]uint16
	holdingRegisters map[uint16]uint16
}

// NewRegisterMap creates an empty register map.
func NewRegisterMap() *RegisterMap {
	return &RegisterMap{
		discreteInputs:   make(map[uint16]bool),
		coils:            make(map[uint16]bool),
		inputRegisters:   make(map[uint16]uint16),
		holdingRegisters: make(map[uint16]uint16),
	}
}

// Sync refreshes the register bank from a state snapshot.
func (m *RegisterMap) Sync(s *sim.State) {
	di := make(map[uint16]bool, len(s.Inputs))
	for a, v := range s.Inputs {
		if reg, ok := bitRegister(a, "I"); ok {
			di[reg] = v
		}
	}

	co := make(map[uint16]bool, len(s.Outputs)+len(s.Memory))
	for a, v := range s.Outputs {
		if reg, ok := bitRegister(a, "Q"); ok {
			co[reg] = v
		}
	}
	// Memory bits share the coil table above the Q range.
	for a, v := range s.Memory {
		if reg, ok := bitRegister(a, "M"); ok {
			co[memoryBitBase+reg] = v
		}
	}

	ir := make(map[uint16]uint16, len(s.AnalogInputs))
	for a, v := range s.AnalogInputs {
		if reg, ok := bitRegister(a, "AI"); ok {
			ir[reg] = quantize(v)
		}
	}

	hr := make(map[uint16]uint16, len(s.AnalogOutputs)+len(s.MemoryWords))
	for a, v := range s.AnalogOutputs {
		if reg, ok := bitRegister(a, "AQ"); ok {
			hr[reg] = quantize(v)
		}
	}
	for a, v := range s.MemoryWords {
		if reg, ok := wordRegister(a); ok {
			hr[memoryWordBase+reg] = quantize(v)
		}
	}

	m.discreteInputs = di
	m.coils = co
	m.inputRegisters = ir
	m.holdingRegisters = hr
}

// DiscreteInput reads a mirrored digital input bit.
func (m *RegisterMap) DiscreteInput(reg uint16) bool { return m.discreteInputs[reg] }

// Coil reads a mirrored digital output or memory bit.
func (m *RegisterMap) Coil(reg uint16) bool { return m.coils[reg] }

// InputRegister reads a mirrored analog input word.
func (m *RegisterMap) InputRegister(reg uint16) uint16 { return m.inputRegisters[reg] }

// HoldingRegister reads a mirrored analog output or memory word.
func (m *RegisterMap) HoldingRegister(reg uint16) uint16 { return m.holdingRegisters[reg] }

const (
	memoryBitBase  uint16 = 1024
	memoryWordBase uint16 = 1024
)

// bitRegister maps a "<prefix><byte>.<bit>" address to register 8*byte+bit.
func bitRegister(addr, prefix string) (uint16, bool) {
	rest, ok := strings.CutPrefix(addr, prefix)
	if !ok {
		return 0, false
	}
	bytePart, bitPart, ok := strings.Cut(rest, ".")
	if !ok {
		return 0, false
	}
	b, err1 := strconv.Atoi(bytePart)
	bit, err2 := strconv.Atoi(bitPart)
	if err1 != nil || err2 != nil || b < 0 || bit < 0 || bit > 7 {
		return 0, false
	}
	return uint16(8*b + bit), true
}

// wordRegister maps "MW<n>" to register n.
func wordRegister(addr string) (uint16, bool) {
	rest, ok := strings.CutPrefix(addr, "MW")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return uint16(n), true
}

// quantize rounds a float into the 16-bit register range.
func quantize(v float64) uint16 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(r)
}

// Mirror couples a register map to an engine: each Refresh takes one state
// snapshot and syncs the bank.
type Mirror struct {
	engine    *sim.Engine
	registers *RegisterMap
}

// NewMirror creates a mirror over an engine.
func NewMirror(engine *sim.Engine) *Mirror {
	return &Mirror{engine: engine, registers: NewRegisterMap()}
}

// Refresh syncs the register bank from the engine's current state.
func (m *Mirror) Refresh() {
	m.registers.Sync(m.engine.State())
}

// Registers returns the register bank.
func (m *Mirror) Registers() *RegisterMap { return m.registers }

// ProgramRegisters lists the register assignments of every mapped address in
// a program, for documentation and bus configuration export.
type Assignment struct {
	Address string `json:"address"`
	Table   string `json:"table"` // "discrete", "coil", "input", "holding"
	Reg     uint16 `json:"reg"`
}

// Assignments derives the register table for a program's addresses.
func Assignments(p *ladder.Program) []Assignment {
	var out []Assignment
	for _, a := range p.Addresses() {
		switch ladder.KindOf(a) {
		case ladder.DigitalInput:
			if reg, ok := bitRegister(a, "I"); ok {
				out = append(out, Assignment{a, "discrete", reg})
			}
		case ladder.DigitalOutput:
			if reg, ok := bitRegister(a, "Q"); ok {
				out = append(out, Assignment{a, "coil", reg})
			}
		case ladder.MemoryBit:
			if reg, ok := bitRegister(a, "M"); ok {
				out = append(out, Assignment{a, "coil", memoryBitBase + reg})
			}
		case ladder.AnalogInput:
			if reg, ok := bitRegister(a, "AI"); ok {
				out = append(out, Assignment{a, "input", reg})
			}
		case ladder.AnalogOutput:
			if reg, ok := bitRegister(a, "AQ"); ok {
				out = append(out, Assignment{a, "holding", reg})
			}
		case ladder.MemoryWord:
			if reg, ok := wordRegister(a); ok {
				out = append(out, Assignment{a, "holding", memoryWordBase + reg})
			}
		}
	}
	return out
}
