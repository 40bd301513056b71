package sim

import (
	"math"
	"testing"
)

func TestScale_LinearMapping(t *testing.T) {
	e := engineFor(t, "Network 1\n[SCALE AI0.0, 0, 27648, 0, 100 => AQ0.0]\n")

	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{27648, 100},
		{13824, 50},
		{-100, 0},    // clamped low
		{30000, 100}, // clamped high
	}
	for _, c := range cases {
		e.SetAnalogValue("AI0.0", c.in)
		e.Tick()
		if got := e.GetAnalogValue("AQ0.0"); got != c.want {
			t.Errorf("scale(%v): expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestScale_DegenerateRange(t *testing.T) {
	e := engineFor(t, "Network 1\n[SCALE AI0.0, 5, 5, 10, 20 => AQ0.0]\n")
	e.SetAnalogValue("AI0.0", 5)
	e.Tick()
	if got := e.GetAnalogValue("AQ0.0"); got != 10 {
		t.Errorf("degenerate input range should write OutMin, got %v", got)
	}
}

func TestFilterAvg_WindowMean(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[AVG AI0.0, 3 => MW1]\n")
	e.SetInput("I0.0", true)

	samples := []float64{3, 6, 9, 12}
	means := []float64{3, 4.5, 6, 9} // mean of last 3 samples each tick
	for i, s := range samples {
		e.SetAnalogValue("AI0.0", s)
		e.Tick()
		if got := e.GetAnalogValue("MW1"); got != means[i] {
			t.Errorf("tick %d: expected mean %v, got %v", i+1, means[i], got)
		}
	}

	// Disabling clears the sample window.
	e.SetInput("I0.0", false)
	e.Tick()
	e.SetInput("I0.0", true)
	e.SetAnalogValue("AI0.0", 100)
	e.Tick()
	if got := e.GetAnalogValue("MW1"); got != 100 {
		t.Errorf("window should restart after disable, got %v", got)
	}
}

func TestPID_ConvergesTowardSetpoint(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[PID AI0.0, 2, 0.5, 0, 50 => AQ0.0]\n")
	e.SetInput("I0.0", true)

	// Constant process value below setpoint: output must be positive and the
	// integral term must grow it monotonically.
	e.SetAnalogValue("AI0.0", 40)
	var prev float64
	for i := 0; i < 5; i++ {
		e.Tick()
		out := e.GetAnalogValue("AQ0.0")
		if out <= prev {
			t.Fatalf("tick %d: expected growing output, got %v after %v", i+1, out, prev)
		}
		prev = out
	}

	// First tick: P term 2*10 plus one integral step 0.5*10*dt.
	e.Reset()
	e.SetInput("I0.0", true)
	e.SetAnalogValue("AI0.0", 40)
	e.Tick()
	dt := CycleTime.Seconds()
	want := 2*10 + 0.5*10*dt
	if got := e.GetAnalogValue("AQ0.0"); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected first output %v, got %v", want, got)
	}
}

func TestPID_DisableResetsState(t *testing.T) {
	e := engineFor(t, "Network 1\n[ I0.0 ]--[PID AI0.0, 1, 1, 0, 50 => AQ0.0]\n")

	e.SetInput("I0.0", true)
	e.SetAnalogValue("AI0.0", 0)
	for i := 0; i < 10; i++ {
		e.Tick()
	}
	accumulated := e.GetAnalogValue("AQ0.0")

	e.SetInput("I0.0", false)
	e.Tick()
	e.SetInput("I0.0", true)
	e.Tick()

	// After the disable, the integral restarts from zero, so the fresh output
	// must be below the accumulated one.
	if got := e.GetAnalogValue("AQ0.0"); got >= accumulated {
		t.Errorf("integral should reset on disable: fresh %v vs accumulated %v", got, accumulated)
	}
}
