package ladder

import "testing"

func TestNetwork_Shape(t *testing.T) {
	series := Network{Number: 1, Elements: []Element{
		{Type: ContactNO, Address: "I0.0"},
		{Type: Coil, Address: "Q0.0"},
	}}
	if series.Parallel() || series.Empty() {
		t.Error("series network misclassified")
	}
	if got := len(series.AllElements()); got != 2 {
		t.Errorf("expected 2 elements, got %d", got)
	}

	parallel := Network{Number: 2, Branches: []Branch{
		{Elements: []Element{{Type: ContactNO, Address: "I0.0"}, {Type: Coil, Address: "Q0.0"}}},
		{Elements: []Element{{Type: ContactNO, Address: "I0.1"}}},
	}}
	if !parallel.Parallel() {
		t.Error("parallel network misclassified")
	}
	if got := len(parallel.AllElements()); got != 3 {
		t.Errorf("expected 3 flattened elements, got %d", got)
	}

	empty := Network{Number: 3}
	if !empty.Empty() {
		t.Error("empty network misclassified")
	}
}

func TestElement_Classification(t *testing.T) {
	conditions := []ElementType{ContactNO, ContactNC, CompareGT, CompareNE}
	for _, typ := range conditions {
		if !(Element{Type: typ}).IsCondition() {
			t.Errorf("%v should be a condition element", typ)
		}
	}
	outputs := []ElementType{Coil, CoilSet, CoilReset, TimerTON, CounterCTU, MathAdd, Move, BlockPID, BlockScale}
	for _, typ := range outputs {
		if !(Element{Type: typ}).IsOutput() {
			t.Errorf("%v should be an output element", typ)
		}
	}
}

func TestElement_Addresses(t *testing.T) {
	el := Element{Type: MathAdd, Op1: Addr("MW1"), Op2: Lit(5), Dest: "MW2"}
	got := el.Addresses()
	if len(got) != 2 || got[0] != "MW1" || got[1] != "MW2" {
		t.Errorf("expected [MW1 MW2], got %v", got)
	}
}

func TestProgram_Addresses(t *testing.T) {
	p := &Program{
		Networks: []Network{
			{Number: 1, Elements: []Element{
				{Type: ContactNO, Address: "I0.0"},
				{Type: ContactNO, Address: "I0.0"}, // duplicate
				{Type: Coil, Address: "Q0.0"},
			}},
		},
		IOMappings: []IOMapping{{Address: "M0.0", Name: "Flag", Kind: MemoryBit}},
	}
	got := p.Addresses()
	want := []string{"I0.0", "Q0.0", "M0.0"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestProgram_MappingLastWins(t *testing.T) {
	p := &Program{IOMappings: []IOMapping{
		{Address: "I0.0", Name: "First"},
		{Address: "I0.0", Name: "Second"},
	}}
	m, ok := p.Mapping("I0.0")
	if !ok || m.Name != "Second" {
		t.Errorf("expected last mapping to win, got %+v", m)
	}
	if _, ok := p.Mapping("Q9.9"); ok {
		t.Error("missing mapping should report !ok")
	}
}
