package sim

import (
	"testing"

	"github.com/ladderlab-xyz/go-ladder/ladder"
	"github.com/ladderlab-xyz/go-ladder/ladder/notation"
)

func engineFor(t *testing.T, text string) *Engine {
	t.Helper()
	prog, err := notation.Parse(text)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return New(prog)
}

func TestNew_NilProgramPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil program")
		}
	}()
	New(nil)
}

func TestNew_PrepopulatesAddresses(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[ AI0.0 > 5 ]--( Q0.0 )\n")
	s := e.State()

	if _, ok := s.Inputs["I0.0"]; !ok {
		t.Error("I0.0 should be pre-populated")
	}
	if _, ok := s.Outputs["Q0.0"]; !ok {
		t.Error("Q0.0 should be pre-populated")
	}
	if _, ok := s.AnalogInputs["AI0.0"]; !ok {
		t.Error("AI0.0 should be pre-populated")
	}
	if len(s.Timers) != 0 {
		t.Error("timers are created lazily, not at construction")
	}
}

func TestTick_SeriesAND(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[ I0.1 ]--( Q0.0 )\n")

	e.SetInput("I0.0", true)
	e.Tick()
	if e.GetOutput("Q0.0") {
		t.Error("one open contact should keep Q0.0 false")
	}

	e.SetInput("I0.1", true)
	e.Tick()
	if !e.GetOutput("Q0.0") {
		t.Error("both contacts closed should drive Q0.0 true")
	}

	e.SetInput("I0.0", false)
	e.Tick()
	if e.GetOutput("Q0.0") {
		t.Error("coil mirrors the condition, so Q0.0 should drop")
	}
}

func TestTick_NCContact(t *testing.T) {
	e := engineFor(t, "Network 1\n[/ I0.0 ]--( Q0.0 )\n")

	e.Tick()
	if !e.GetOutput("Q0.0") {
		t.Error("NC contact on a false input should conduct")
	}

	e.SetInput("I0.0", true)
	e.Tick()
	if e.GetOutput("Q0.0") {
		t.Error("NC contact on a true input should block")
	}
}

func TestTick_ParallelOR(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--( Q0.0 )\n[ I0.1 ]--( Q0.0 )\n")

	e.Tick()
	if e.GetOutput("Q0.0") {
		t.Error("Q0.0 should be false with both branches open")
	}

	e.SetInput("I0.0", true)
	e.Tick()
	if !e.GetOutput("Q0.0") {
		t.Error("branch A alone should drive Q0.0")
	}

	e.SetInput("I0.0", false)
	e.SetInput("I0.1", true)
	e.Tick()
	if !e.GetOutput("Q0.0") {
		t.Error("branch B alone should drive Q0.0")
	}

	e.SetInput("I0.1", false)
	e.Tick()
	if e.GetOutput("Q0.0") {
		t.Error("Q0.0 should drop with both branches open again")
	}
}

func TestTick_ParallelOutputsFireOnceWithSharedCondition(t *testing.T) {
	// The output in branch A must be driven by the OR of both branches, not
	// by its own branch alone.
	e := engineFor(t, "Network 1\n[ I0.0 ]--( Q0.0 )\n[ I0.1 ]--( Q0.1 )\n")

	e.SetInput("I0.1", true)
	e.Tick()
	if !e.GetOutput("Q0.0") || !e.GetOutput("Q0.1") {
		t.Error("both outputs should fire from the shared OR condition")
	}
}

func TestTick_SetResetLatch(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--( S M0.0 )\n\nNetwork 2\n[ I0.1 ]--( R M0.0 )\n\nNetwork 3\n[ M0.0 ]--( Q0.0 )\n")

	e.SetInput("I0.0", true)
	e.Tick()
	if !e.GetOutput("Q0.0") {
		t.Fatal("set coil should latch M0.0")
	}

	// Latch holds after the set condition drops.
	e.SetInput("I0.0", false)
	for i := 0; i < 5; i++ {
		e.Tick()
	}
	if !e.GetOutput("Q0.0") {
		t.Error("latch should hold across ticks with the condition false")
	}

	e.SetInput("I0.1", true)
	e.Tick()
	if e.GetOutput("Q0.0") {
		t.Error("reset coil should unlatch M0.0")
	}
}

func TestTick_TimerMonotonicityAndReset(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[TON T1, 100ms]\n\nNetwork 2\n[ T1.DN ]--( Q0.0 )\n")

	e.SetInput("I0.0", true)
	cycleMs := float64(CycleTime.Milliseconds())
	for i := 1; i <= 9; i++ {
		e.Tick()
		s := e.State()
		tm := s.Timers["T1"]
		if tm == nil {
			t.Fatal("timer T1 should exist after first execution")
		}
		want := cycleMs * float64(i)
		if tm.Elapsed != want {
			t.Fatalf("tick %d: expected elapsed %v, got %v", i, want, tm.Elapsed)
		}
		if tm.Done {
			t.Fatalf("tick %d: timer should not be done before preset", i)
		}
		if e.GetOutput("Q0.0") {
			t.Fatalf("tick %d: done bit should still be false", i)
		}
	}

	e.Tick() // elapsed reaches 100
	s := e.State()
	if !s.Timers["T1"].Done {
		t.Fatal("timer should be done at preset")
	}
	e.Tick()
	s = e.State()
	if got := s.Timers["T1"].Elapsed; got != 100 {
		t.Errorf("elapsed should clamp at preset, got %v", got)
	}
	if !e.GetOutput("Q0.0") {
		t.Error("done-bit contact should drive Q0.0")
	}

	// Disabling fully resets within the same tick.
	e.SetInput("I0.0", false)
	e.Tick()
	s = e.State()
	tm := s.Timers["T1"]
	if tm.Elapsed != 0 || tm.Done || tm.Running {
		t.Errorf("disabled timer should reset, got %+v", tm)
	}
}

func TestTick_InvertedDoneBit(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[TON T1, 20ms]\n\nNetwork 2\n[/ T1.DN ]--( Q0.0 )\n")

	e.Tick()
	if !e.GetOutput("Q0.0") {
		t.Error("inverted done bit should conduct while the timer is not done")
	}

	e.SetInput("I0.0", true)
	e.Tick()
	e.Tick()
	if e.GetOutput("Q0.0") {
		t.Error("inverted done bit should block once the timer is done")
	}
}

func TestTick_CounterSaturation(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[CTU C1, 3]\n\nNetwork 2\n[ C1.DN ]--( Q0.0 )\n")

	e.SetInput("I0.0", true)
	for i := 1; i <= 5; i++ {
		e.Tick()
		s := e.State()
		c := s.Counters["C1"]
		wantCount := float64(i)
		if wantCount > 3 {
			wantCount = 3
		}
		if c.Count != wantCount {
			t.Errorf("tick %d: expected count %v, got %v", i, wantCount, c.Count)
		}
		wantDone := i >= 3
		if c.Done != wantDone {
			t.Errorf("tick %d: expected done %v, got %v", i, wantDone, c.Done)
		}
	}
	if !e.GetOutput("Q0.0") {
		t.Error("counter done bit should drive Q0.0")
	}

	// Disabling retains the count; counters have no auto-reset.
	e.SetInput("I0.0", false)
	e.Tick()
	if got := e.State().Counters["C1"].Count; got != 3 {
		t.Errorf("count should be retained while disabled, got %v", got)
	}
}

func TestTick_ComparisonGates(t *testing.T) {
	e := engineFor(t, "Network 1\n[ AI0.0 >= 50 ]--( Q0.0 )\n")

	e.SetAnalogValue("AI0.0", 49.9)
	e.Tick()
	if e.GetOutput("Q0.0") {
		t.Error("49.9 >= 50 should be false")
	}

	e.SetAnalogValue("AI0.0", 50)
	e.Tick()
	if !e.GetOutput("Q0.0") {
		t.Error("50 >= 50 should be true")
	}
}

func TestTick_ArithmeticAndMove(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[ MOVE 7 => MW1 ]--[ ADD MW1 5 => MW2 ]--[ DIV MW2 0 => MW3 ]\n")

	// Disabled: no writes.
	e.Tick()
	if got := e.GetAnalogValue("MW1"); got != 0 {
		t.Errorf("disabled move should not write, got %v", got)
	}

	e.SetInput("I0.0", true)
	e.Tick()
	if got := e.GetAnalogValue("MW1"); got != 7 {
		t.Errorf("expected MW1 == 7, got %v", got)
	}
	// Same-tick visibility: ADD sees the MOVE's write from this scan.
	if got := e.GetAnalogValue("MW2"); got != 12 {
		t.Errorf("expected MW2 == 12, got %v", got)
	}
	// Division by zero degrades to zero rather than aborting the scan.
	if got := e.GetAnalogValue("MW3"); got != 0 {
		t.Errorf("expected MW3 == 0, got %v", got)
	}
}

func TestTick_LaterNetworkSeesEarlierWrites(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--( M0.0 )\n\nNetwork 2\n[ M0.0 ]--( Q0.0 )\n")

	e.SetInput("I0.0", true)
	e.Tick()
	if !e.GetOutput("Q0.0") {
		t.Error("network 2 should see network 1's write within the same tick")
	}
}

func TestTick_UnknownAddressReadsFalse(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I9.9 ]--( Q0.0 )\n\nNetwork 2\n[/ X5 ]--( Q0.1 )\n")

	e.Tick() // must not panic
	if e.GetOutput("Q0.0") {
		t.Error("unreferenced input should read false")
	}
	if !e.GetOutput("Q0.1") {
		t.Error("NC contact on an unknown address should conduct")
	}
}

func TestSetInput_BatchedUntilNextTick(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--( Q0.0 )\n")

	e.SetInput("I0.0", true)
	if e.State().Inputs["I0.0"] {
		t.Error("input write should not be visible before the next tick")
	}
	e.Tick()
	if !e.State().Inputs["I0.0"] {
		t.Error("input write should be applied at tick start")
	}
}

func TestState_SnapshotIsolation(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[TON T1, 50ms]--( Q0.0 )\n")
	e.SetInput("I0.0", true)
	e.Tick()

	snap := e.State()
	snap.Outputs["Q0.0"] = false
	snap.Timers["T1"].Elapsed = 999

	fresh := e.State()
	if !fresh.Outputs["Q0.0"] {
		t.Error("mutating a snapshot must not affect the engine")
	}
	if fresh.Timers["T1"].Elapsed == 999 {
		t.Error("timer state must be deep-copied")
	}
}

func TestStartStopReset(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[CTU C1, 10]\n")

	if e.IsRunning() {
		t.Error("engine should start in Stopped")
	}
	e.Start()
	if !e.IsRunning() {
		t.Error("Start should move to Running")
	}
	e.Stop()
	if e.IsRunning() {
		t.Error("Stop should move to Stopped")
	}

	e.SetInput("I0.0", true)
	e.Tick()
	e.Tick()
	if e.State().CycleCount != 2 {
		t.Errorf("expected 2 cycles, got %d", e.State().CycleCount)
	}

	e.Reset()
	s := e.State()
	if s.CycleCount != 0 || len(s.Counters) != 0 || s.Running {
		t.Errorf("reset should discard runtime state, got %+v", s)
	}
	if s.Inputs["I0.0"] {
		t.Error("reset should re-initialize inputs to false")
	}
}

func TestTick_EmptyNetworkIsInert(t *testing.T) {
	prog := &ladder.Program{Networks: []ladder.Network{{Number: 1}}}
	e := New(prog)
	e.Tick() // must not panic
	if e.State().CycleCount != 1 {
		t.Error("cycle counter should still advance")
	}
}

func TestTick_OutputOnlyRungFiresEveryCycle(t *testing.T) {
	e := engineFor(t, "Network 1\n[ MOVE 3 => MW1 ]\n")
	e.Tick()
	if got := e.GetAnalogValue("MW1"); got != 3 {
		t.Errorf("unconditional rung should execute, got %v", got)
	}
}
