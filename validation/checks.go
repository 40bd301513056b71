package validation

import (
	"fmt"
	"sort"

	"github.com/ladderlab-xyz/go-ladder/ladder"
	"github.com/ladderlab-xyz/go-ladder/sim"
)

// Validate runs all structural checks.
func (v *Validator) Validate() *Result {
	v.checkStructure()
	v.checkOutputs()
	v.checkAddressing()

	v.result.Valid = len(v.result.Errors) == 0
	v.result.Summary.Errors = len(v.result.Errors)
	v.result.Summary.Warnings = len(v.result.Warnings)
	return v.result
}

// ValidateWithRun runs structural checks, then executes a bounded number of
// scan cycles and reports which outputs ever asserted. Simulation issues are
// advisory; a program with silent outputs is a normal intermediate state
// while a user iterates.
func (v *Validator) ValidateWithRun(ticks int) *Result {
	v.Validate()

	engine := sim.New(v.program)
	engine.Start()
	for i := 0; i < ticks; i++ {
		engine.Tick()
	}
	snap := engine.State()

	report := &RunReport{Ticks: ticks, CycleCount: snap.CycleCount, ScanTime: snap.ScanTime}
	var outputs []string
	for a := range snap.Outputs {
		outputs = append(outputs, a)
	}
	sort.Strings(outputs)
	for _, a := range outputs {
		if snap.Outputs[a] {
			report.OutputsAsserted = append(report.OutputsAsserted, a)
		} else {
			report.OutputsSilent = append(report.OutputsSilent, a)
		}
	}
	v.result.Run = report

	if len(report.OutputsAsserted) == 0 && len(outputs) > 0 {
		v.AddInfo("simulation",
			fmt.Sprintf("no output asserted within %d cycles with all inputs false", ticks),
			report.OutputsSilent)
	}

	v.result.Summary.Errors = len(v.result.Errors)
	v.result.Summary.Warnings = len(v.result.Warnings)
	return v.result
}

func (v *Validator) checkStructure() {
	if len(v.program.Networks) == 0 {
		v.AddError("structure", "program has no networks", nil, "add at least one Network")
		return
	}

	for i := range v.program.Networks {
		n := &v.program.Networks[i]
		loc := []string{fmt.Sprintf("Network %d", n.Number)}

		if n.Empty() {
			v.AddWarning("structure",
				fmt.Sprintf("network %d has no elements", n.Number),
				loc, "the rung body was missing or unparseable; it is inert during simulation")
			continue
		}

		hasOutput := false
		hasCondition := false
		for _, el := range n.AllElements() {
			if el.IsOutput() {
				hasOutput = true
			} else {
				hasCondition = true
			}
		}
		if !hasOutput {
			v.AddWarning("structure",
				fmt.Sprintf("network %d has no output element", n.Number),
				loc, "add a coil, timer, counter, or data element")
		}
		if !hasCondition {
			v.AddInfo("structure",
				fmt.Sprintf("network %d is unconditional; its outputs fire every cycle", n.Number),
				loc)
		}
	}

	v.checkDuplicateCoils()
}

// checkDuplicateCoils flags the same address driven by level coils in more
// than one network: the last write wins every cycle, which is rarely what
// the author meant.
func (v *Validator) checkDuplicateCoils() {
	writers := make(map[string][]int)
	for i := range v.program.Networks {
		n := &v.program.Networks[i]
		for _, el := range n.AllElements() {
			if el.Type == ladder.Coil {
				writers[el.Address] = append(writers[el.Address], n.Number)
			}
		}
	}

	var addrs []string
	for a, nets := range writers {
		if len(nets) > 1 {
			addrs = append(addrs, a)
		}
	}
	sort.Strings(addrs)
	for _, a := range addrs {
		v.AddWarning("structure",
			fmt.Sprintf("address %s is driven by coils in networks %v; the last network wins each cycle", a, writers[a]),
			[]string{a}, "use set/reset coils or combine the rungs with parallel branches")
	}
}

func (v *Validator) checkAddressing() {
	mapped := make(map[string]bool, len(v.program.IOMappings))
	for _, m := range v.program.IOMappings {
		mapped[m.Address] = true
	}

	var unknown, unmapped []string
	for _, a := range v.program.Addresses() {
		if ladder.KindOf(a) == ladder.UnknownAddr {
			unknown = append(unknown, a)
		}
		if !mapped[a] {
			unmapped = append(unmapped, a)
		}
	}

	if len(unknown) > 0 {
		v.AddWarning("addressing",
			fmt.Sprintf("%d address(es) match no known namespace and will read as zero", len(unknown)),
			unknown, "use I/Q/M bit addresses, AI/AQ/MW word addresses, or T/C instances")
	}
	if len(unmapped) > 0 {
		v.AddInfo("addressing",
			fmt.Sprintf("%d address(es) have no I/O mapping entry", len(unmapped)),
			unmapped)
	}
}

func (v *Validator) checkOutputs() {
	for i := range v.program.Networks {
		n := &v.program.Networks[i]
		for _, el := range n.AllElements() {
			switch el.Type {
			case ladder.Coil, ladder.CoilSet, ladder.CoilReset:
				kind := ladder.KindOf(el.Address)
				if kind != ladder.DigitalOutput && kind != ladder.MemoryBit {
					v.AddWarning("addressing",
						fmt.Sprintf("network %d: coil bound to %s, which is not a Q or M address", n.Number, el.Address),
						[]string{el.Address}, "coils drive digital outputs (Q) or memory bits (M)")
				}
			}
		}
	}
}
