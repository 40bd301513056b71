// Package sim executes ladder programs one deterministic scan cycle at a
// time, reproducing controller semantics for contacts, coils, timers,
// counters, comparisons, arithmetic, and analog function blocks.
//
// The engine has no internal clock: Tick is a plain synchronous function and
// any periodic scheduling belongs to the caller (or the Run convenience
// driver). Simulation is advisory, not safety-critical: unknown addresses
// read as zero and never abort a scan.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/ladderlab-xyz/go-ladder/ladder"
)

// CycleTime is the fixed nominal scan-cycle duration. Timer accumulation
// advances by this amount per tick regardless of wall-clock jitter, which
// keeps simulation deterministic under any external drive rate.
const CycleTime = 10 * time.Millisecond

// Engine executes one Program. Engines are independent of each other; a
// single engine serializes ticks and external mutation internally.
type Engine struct {
	program *ladder.Program

	mu          sync.RWMutex
	state       *State
	blocks      map[string]*blockState
	pendingBool map[string]bool
	pendingNum  map[string]float64
	cancel      context.CancelFunc
}

// New creates an engine from a parsed program. Every address referenced by an
// element or I/O mapping is pre-populated with a zero value; timer and
// counter instances are created lazily on first execution. A nil program is a
// contract violation, not a recoverable condition.
func New(program *ladder.Program) *Engine {
	if program == nil {
		panic(ladder.ErrNilProgram)
	}
	e := &Engine{
		program:     program,
		blocks:      make(map[string]*blockState),
		pendingBool: make(map[string]bool),
		pendingNum:  make(map[string]float64),
	}
	e.state = e.initialState()
	return e
}

func (e *Engine) initialState() *State {
	s := newState()
	for _, a := range e.program.Addresses() {
		switch ladder.KindOf(a) {
		case ladder.DigitalInput:
			s.Inputs[a] = false
		case ladder.DigitalOutput:
			s.Outputs[a] = false
		case ladder.MemoryBit:
			s.Memory[a] = false
		case ladder.AnalogInput:
			s.AnalogInputs[a] = 0
		case ladder.AnalogOutput:
			s.AnalogOutputs[a] = 0
		case ladder.MemoryWord:
			s.MemoryWords[a] = 0
		}
	}
	return s
}

// Program returns the program this engine executes.
func (e *Engine) Program() *ladder.Program { return e.program }

// SetInput records a digital input write. Writes are batched and take effect
// atomically at the start of the next tick, never mid-tick.
func (e *Engine) SetInput(address string, value bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingBool[address] = value
}

// SetAnalogValue records an analog input or memory word write, batched like
// SetInput.
func (e *Engine) SetAnalogValue(address string, value float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingNum[address] = value
}

// GetOutput reads a digital output. Unknown addresses read false.
func (e *Engine) GetOutput(address string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Outputs[address]
}

// GetAnalogValue reads a numeric address. Unknown addresses read zero.
func (e *Engine) GetAnalogValue(address string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readNumber(address)
}

// State returns a deep-copied snapshot of the runtime state.
func (e *Engine) State() *State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// Start moves the engine to Running. Ticks driven through Run only execute
// while running; direct Tick calls are always honored so tests need no
// wall-clock setup.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Running = true
}

// Stop moves the engine to Stopped. There is no in-flight work to cancel;
// stopping simply ceases scanning.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Running = false
}

// IsRunning reports whether the engine is in the Running state.
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Running
}

// Reset discards all runtime state and re-initializes it from the program.
// Valid from either engine state; always lands in Stopped.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.initialState()
	e.blocks = make(map[string]*blockState)
	e.pendingBool = make(map[string]bool)
	e.pendingNum = make(map[string]float64)
}

// Tick runs one full scan cycle: apply batched external writes, evaluate
// every network in document order with immediate write visibility, then
// advance the cycle counter and record the diagnostic scan time.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.applyPending()

	start := time.Now()
	for i := range e.program.Networks {
		e.evalNetwork(&e.program.Networks[i])
	}
	e.state.CycleCount++
	e.state.ScanTime = time.Since(start)
}

// Run drives Tick from a ticker until the context is canceled. A slow tick
// skips cycles rather than queuing backlog (ticker semantics). The engine is
// started before the first cycle; canceling the context stops it.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	e.mu.Lock()
	if e.cancel != nil {
		e.mu.Unlock()
		return
	}
	childCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.state.Running = true
	e.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-childCtx.Done():
				e.mu.Lock()
				e.state.Running = false
				e.cancel = nil
				e.mu.Unlock()
				return
			case <-ticker.C:
				if e.IsRunning() {
					e.Tick()
				}
			}
		}
	}()
}

// Halt cancels a Run loop if one is active and stops the engine.
func (e *Engine) Halt() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.state.Running = false
}

func (e *Engine) applyPending() {
	for a, v := range e.pendingBool {
		e.writeBool(a, v)
		delete(e.pendingBool, a)
	}
	for a, v := range e.pendingNum {
		e.writeNumber(a, v)
		delete(e.pendingNum, a)
	}
}

// evalNetwork evaluates one rung. Series rungs keep a running AND condition;
// parallel rungs OR the per-branch conditions and then fire every output
// collected from any branch once with the shared result.
func (e *Engine) evalNetwork(n *ladder.Network) {
	if n.Empty() {
		return
	}

	if n.Parallel() {
		cond := false
		var outputs []ladder.Element
		for _, br := range n.Branches {
			branchCond := true
			for _, el := range br.Elements {
				if el.IsCondition() {
					branchCond = branchCond && e.evalCondition(el)
				} else {
					outputs = append(outputs, el)
				}
			}
			cond = cond || branchCond
		}
		for _, el := range outputs {
			e.execOutput(el, cond)
		}
		return
	}

	cond := true
	for _, el := range n.Elements {
		if el.IsCondition() {
			cond = cond && e.evalCondition(el)
		} else {
			e.execOutput(el, cond)
		}
	}
}

func (e *Engine) evalCondition(el ladder.Element) bool {
	switch el.Type {
	case ladder.ContactNO:
		return e.readContact(el)
	case ladder.ContactNC:
		return !e.readContact(el)
	}

	x := e.readNumber(el.Operand)
	switch el.Type {
	case ladder.CompareGT:
		return x > el.Value
	case ladder.CompareLT:
		return x < el.Value
	case ladder.CompareEQ:
		return x == el.Value
	case ladder.CompareGE:
		return x >= el.Value
	case ladder.CompareLE:
		return x <= el.Value
	case ladder.CompareNE:
		return x != el.Value
	}
	return false
}

// readContact resolves a contact read. A done-bit contact reads the done flag
// of the timer or counter instance; the NC form inverts that flag at the call
// site, it does not read a separate "not done" address.
func (e *Engine) readContact(el ladder.Element) bool {
	if el.Done {
		switch ladder.KindOf(el.Address) {
		case ladder.TimerAddr:
			if t := e.state.Timers[el.Address]; t != nil {
				return t.Done
			}
		case ladder.CounterAddr:
			if c := e.state.Counters[el.Address]; c != nil {
				return c.Done
			}
		}
		return false
	}
	return e.readBool(el.Address)
}

func (e *Engine) readBool(addr string) bool {
	switch ladder.KindOf(addr) {
	case ladder.DigitalInput:
		return e.state.Inputs[addr]
	case ladder.DigitalOutput:
		return e.state.Outputs[addr]
	case ladder.MemoryBit:
		return e.state.Memory[addr]
	}
	return false
}

func (e *Engine) readNumber(addr string) float64 {
	switch ladder.KindOf(addr) {
	case ladder.AnalogInput:
		return e.state.AnalogInputs[addr]
	case ladder.AnalogOutput:
		return e.state.AnalogOutputs[addr]
	case ladder.MemoryWord:
		return e.state.MemoryWords[addr]
	}
	return 0
}

func (e *Engine) writeBool(addr string, v bool) {
	switch ladder.KindOf(addr) {
	case ladder.DigitalInput:
		e.state.Inputs[addr] = v
	case ladder.DigitalOutput:
		e.state.Outputs[addr] = v
	default:
		e.state.Memory[addr] = v
	}
}

func (e *Engine) writeNumber(addr string, v float64) {
	switch ladder.KindOf(addr) {
	case ladder.AnalogInput:
		e.state.AnalogInputs[addr] = v
	case ladder.AnalogOutput:
		e.state.AnalogOutputs[addr] = v
	default:
		e.state.MemoryWords[addr] = v
	}
}

func (e *Engine) resolve(op ladder.Operand) float64 {
	if op.IsLiteral {
		return op.Literal
	}
	return e.readNumber(op.Address)
}

// execOutput executes one output element driven by the rung condition.
// Outputs never contribute to the condition.
func (e *Engine) execOutput(el ladder.Element, cond bool) {
	switch el.Type {
	case ladder.Coil:
		// Level output: mirrors the condition every tick.
		e.writeBool(el.Address, cond)

	case ladder.CoilSet:
		// Latch: writes true while enabled, never writes false.
		if cond {
			e.writeBool(el.Address, true)
		}

	case ladder.CoilReset:
		// Unlatch: writes false while enabled.
		if cond {
			e.writeBool(el.Address, false)
		}

	case ladder.TimerTON:
		e.execTimer(el, cond)

	case ladder.CounterCTU:
		e.execCounter(el, cond)

	case ladder.MathAdd, ladder.MathSub, ladder.MathMul, ladder.MathDiv:
		if cond {
			e.writeNumber(el.Dest, e.compute(el))
		}

	case ladder.Move:
		if cond {
			e.writeNumber(el.Dest, e.resolve(el.Op1))
		}

	case ladder.BlockPID:
		e.execPID(el, cond)

	case ladder.BlockFilterAvg:
		e.execFilterAvg(el, cond)

	case ladder.BlockScale:
		e.execScale(el, cond)
	}
}

func (e *Engine) execTimer(el ladder.Element, cond bool) {
	t := e.state.Timers[el.Address]
	if t == nil {
		t = &TimerState{Preset: el.Preset}
		e.state.Timers[el.Address] = t
	}
	if cond {
		t.Running = true
		t.Elapsed += float64(CycleTime.Milliseconds())
		if t.Elapsed > t.Preset {
			t.Elapsed = t.Preset
		}
		t.Done = t.Elapsed >= t.Preset
	} else {
		// No pause-and-hold mode: disabling fully resets the timer.
		t.Running = false
		t.Elapsed = 0
		t.Done = false
	}
}

func (e *Engine) execCounter(el ladder.Element, cond bool) {
	c := e.state.Counters[el.Address]
	if c == nil {
		c = &CounterState{Preset: el.Preset}
		e.state.Counters[el.Address] = c
	}
	// Per-tick increment while enabled, not rising-edge detection. The fast
	// scan rate approximates edge counting and consumers depend on it.
	if cond && c.Count < c.Preset {
		c.Count++
	}
	c.Done = c.Count >= c.Preset
}

func (e *Engine) compute(el ladder.Element) float64 {
	a := e.resolve(el.Op1)
	b := e.resolve(el.Op2)
	switch el.Type {
	case ladder.MathAdd:
		return a + b
	case ladder.MathSub:
		return a - b
	case ladder.MathMul:
		return a * b
	default:
		if b == 0 {
			return 0
		}
		return a / b
	}
}
