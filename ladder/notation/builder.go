package notation

import (
	"github.com/ladderlab-xyz/go-ladder/ladder"
)

// Builder provides a fluent API for constructing ladder programs in code.
// Networks are numbered in creation order starting at 1. Calling Branch
// switches the current network to parallel form; elements added before the
// first Branch call form a series rung.
type Builder struct {
	prog ladder.Program
	cur  int // index of the current network, -1 before the first Network call
}

// NewBuilder creates an empty program builder.
func NewBuilder() *Builder {
	return &Builder{cur: -1}
}

// Network starts a new network with an optional label.
func (b *Builder) Network(label ...string) *Builder {
	n := ladder.Network{Number: len(b.prog.Networks) + 1}
	if len(label) > 0 {
		n.Label = label[0]
	}
	b.prog.Networks = append(b.prog.Networks, n)
	b.cur = len(b.prog.Networks) - 1
	return b
}

// Branch opens a new parallel branch in the current network. Elements added
// to the network before the first Branch call are moved into the first branch.
func (b *Builder) Branch() *Builder {
	n := &b.prog.Networks[b.cur]
	if len(n.Branches) == 0 && len(n.Elements) > 0 {
		n.Branches = append(n.Branches, ladder.Branch{Elements: n.Elements})
		n.Elements = nil
	}
	n.Branches = append(n.Branches, ladder.Branch{})
	return b
}

func (b *Builder) add(e ladder.Element) *Builder {
	n := &b.prog.Networks[b.cur]
	if len(n.Branches) > 0 {
		br := &n.Branches[len(n.Branches)-1]
		br.Elements = append(br.Elements, e)
	} else {
		n.Elements = append(n.Elements, e)
	}
	return b
}

// ContactNO adds a normally-open contact.
func (b *Builder) ContactNO(addr string) *Builder {
	return b.add(ladder.Element{Type: ladder.ContactNO, Address: addr})
}

// ContactNC adds a normally-closed contact.
func (b *Builder) ContactNC(addr string) *Builder {
	return b.add(ladder.Element{Type: ladder.ContactNC, Address: addr})
}

// DoneBit adds a contact reading the done flag of a timer or counter.
func (b *Builder) DoneBit(addr string) *Builder {
	return b.add(ladder.Element{Type: ladder.ContactNO, Address: addr, Done: true})
}

// DoneBitNC adds an inverted done-flag contact.
func (b *Builder) DoneBitNC(addr string) *Builder {
	return b.add(ladder.Element{Type: ladder.ContactNC, Address: addr, Done: true})
}

// Coil adds a level-output coil.
func (b *Builder) Coil(addr string) *Builder {
	return b.add(ladder.Element{Type: ladder.Coil, Address: addr})
}

// SetCoil adds a latching coil.
func (b *Builder) SetCoil(addr string) *Builder {
	return b.add(ladder.Element{Type: ladder.CoilSet, Address: addr})
}

// ResetCoil adds an unlatching coil.
func (b *Builder) ResetCoil(addr string) *Builder {
	return b.add(ladder.Element{Type: ladder.CoilReset, Address: addr})
}

// Timer adds an on-delay timer with a preset in milliseconds.
func (b *Builder) Timer(addr string, presetMs float64) *Builder {
	return b.add(ladder.Element{Type: ladder.TimerTON, Address: addr, Preset: presetMs})
}

// Counter adds a count-up counter with a preset count.
func (b *Builder) Counter(addr string, preset float64) *Builder {
	return b.add(ladder.Element{Type: ladder.CounterCTU, Address: addr, Preset: preset})
}

// Compare adds a comparison of an address against a literal.
func (b *Builder) Compare(t ladder.ElementType, operand string, value float64) *Builder {
	return b.add(ladder.Element{Type: t, Operand: operand, Value: value})
}

// Math adds an arithmetic element writing op1 OP op2 to dest.
func (b *Builder) Math(t ladder.ElementType, op1, op2 ladder.Operand, dest string) *Builder {
	return b.add(ladder.Element{Type: t, Op1: op1, Op2: op2, Dest: dest})
}

// Move adds a move of an operand to a destination.
func (b *Builder) Move(op ladder.Operand, dest string) *Builder {
	return b.add(ladder.Element{Type: ladder.Move, Op1: op, Dest: dest})
}

// PID adds a PID block regulating input toward setpoint, writing dest.
func (b *Builder) PID(input string, kp, ki, kd, setpoint float64, dest string) *Builder {
	return b.add(ladder.Element{
		Type:   ladder.BlockPID,
		Input:  input,
		Params: &ladder.BlockParams{Kp: kp, Ki: ki, Kd: kd, Setpoint: setpoint},
		Dest:   dest,
	})
}

// FilterAvg adds a moving-average filter over the last window samples.
func (b *Builder) FilterAvg(input string, window int, dest string) *Builder {
	return b.add(ladder.Element{
		Type:   ladder.BlockFilterAvg,
		Input:  input,
		Params: &ladder.BlockParams{Window: window},
		Dest:   dest,
	})
}

// Scale adds a linear scaling block.
func (b *Builder) Scale(input string, inMin, inMax, outMin, outMax float64, dest string) *Builder {
	return b.add(ladder.Element{
		Type:   ladder.BlockScale,
		Input:  input,
		Params: &ladder.BlockParams{InMin: inMin, InMax: inMax, OutMin: outMin, OutMax: outMax},
		Dest:   dest,
	})
}

// Map adds an explicit I/O mapping entry.
func (b *Builder) Map(addr, name string) *Builder {
	b.prog.IOMappings = append(b.prog.IOMappings, ladder.IOMapping{
		Address: addr,
		Name:    name,
		Kind:    ladder.KindOf(addr),
	})
	return b
}

// Program returns the built program. Networks with no explicit I/O mappings
// keep an empty map; callers wanting parser parity can derive one with
// DeriveIOMappings.
func (b *Builder) Program() *ladder.Program {
	p := b.prog
	return &p
}

// DeriveIOMappings fills the program's I/O map from referenced addresses,
// mirroring the parser's auto-detection fallback.
func DeriveIOMappings(p *ladder.Program) {
	if len(p.IOMappings) == 0 {
		p.IOMappings = deriveIOMappings(p)
	}
}
