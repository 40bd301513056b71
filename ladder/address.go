// Package ladder defines the in-memory model of a relay-ladder program:
// networks of typed elements plus an address-to-name I/O map. The model is
// pure data; parsing lives in ladder/notation and execution in sim.
package ladder

import "regexp"

// AddressKind classifies an address by its namespace prefix.
type AddressKind string

const (
	DigitalInput  AddressKind = "digital-input"  // I<n>.<n>
	DigitalOutput AddressKind = "digital-output" // Q<n>.<n>
	MemoryBit     AddressKind = "memory-bit"     // M<n>.<n>
	AnalogInput   AddressKind = "analog-input"   // AI<n>.<n>
	AnalogOutput  AddressKind = "analog-output"  // AQ<n>.<n>
	MemoryWord    AddressKind = "memory-word"    // MW<n>
	TimerAddr     AddressKind = "timer"          // T<n>
	CounterAddr   AddressKind = "counter"        // C<n>
	UnknownAddr   AddressKind = "unknown"
)

var addressShapes = []struct {
	kind AddressKind
	re   *regexp.Regexp
}{
	{AnalogInput, regexp.MustCompile(`^AI\d+\.\d+$`)},
	{AnalogOutput, regexp.MustCompile(`^AQ\d+\.\d+$`)},
	{DigitalInput, regexp.MustCompile(`^I\d+\.\d+$`)},
	{DigitalOutput, regexp.MustCompile(`^Q\d+\.\d+$`)},
	{MemoryBit, regexp.MustCompile(`^M\d+\.\d+$`)},
	{MemoryWord, regexp.MustCompile(`^MW\d+$`)},
	{TimerAddr, regexp.MustCompile(`^T\d+$`)},
	{CounterAddr, regexp.MustCompile(`^C\d+$`)},
}

// KindOf infers the namespace of an address from its shape.
// Addresses that match no namespace return UnknownAddr; they are legal
// everywhere and simply read as zero at runtime.
func KindOf(addr string) AddressKind {
	for _, s := range addressShapes {
		if s.re.MatchString(addr) {
			return s.kind
		}
	}
	return UnknownAddr
}

// Boolean reports whether the address names a single-bit location.
func (k AddressKind) Boolean() bool {
	return k == DigitalInput || k == DigitalOutput || k == MemoryBit
}

// Numeric reports whether the address names a word-sized numeric location.
func (k AddressKind) Numeric() bool {
	return k == AnalogInput || k == AnalogOutput || k == MemoryWord
}
