package sim

import "github.com/ladderlab-xyz/go-ladder/ladder"

// blockState holds the per-instance runtime state of an analog function
// block. Like timers, blocks are instantiated lazily and fully reset while
// their rung condition is false.
type blockState struct {
	integral float64
	prevErr  float64
	primed   bool
	samples  []float64
}

func blockKey(el ladder.Element) string {
	return string(el.Type) + ":" + el.Input + ">" + el.Dest
}

func (e *Engine) block(el ladder.Element) *blockState {
	k := blockKey(el)
	st := e.blocks[k]
	if st == nil {
		st = &blockState{}
		e.blocks[k] = st
	}
	return st
}

// execPID runs one positional PID step with dt fixed to the scan-cycle
// duration. The derivative term is suppressed on the first enabled tick so a
// fresh error history cannot produce a kick.
func (e *Engine) execPID(el ladder.Element, cond bool) {
	st := e.block(el)
	if !cond {
		st.integral = 0
		st.prevErr = 0
		st.primed = false
		return
	}

	dt := CycleTime.Seconds()
	p := el.Params
	err := p.Setpoint - e.readNumber(el.Input)

	st.integral += err * dt
	var deriv float64
	if st.primed {
		deriv = (err - st.prevErr) / dt
	}
	st.prevErr = err
	st.primed = true

	e.writeNumber(el.Dest, p.Kp*err+p.Ki*st.integral+p.Kd*deriv)
}

// execFilterAvg maintains a ring of the last Window samples of the input and
// writes their mean.
func (e *Engine) execFilterAvg(el ladder.Element, cond bool) {
	st := e.block(el)
	if !cond {
		st.samples = st.samples[:0]
		return
	}

	window := el.Params.Window
	if window < 1 {
		window = 1
	}
	st.samples = append(st.samples, e.readNumber(el.Input))
	if len(st.samples) > window {
		st.samples = st.samples[len(st.samples)-window:]
	}

	var sum float64
	for _, s := range st.samples {
		sum += s
	}
	e.writeNumber(el.Dest, sum/float64(len(st.samples)))
}

// execScale linearly maps the input from [InMin, InMax] to [OutMin, OutMax],
// clamping to the output range. A degenerate input range writes OutMin.
func (e *Engine) execScale(el ladder.Element, cond bool) {
	if !cond {
		return
	}

	p := el.Params
	if p.InMax == p.InMin {
		e.writeNumber(el.Dest, p.OutMin)
		return
	}

	x := e.readNumber(el.Input)
	y := p.OutMin + (x-p.InMin)*(p.OutMax-p.OutMin)/(p.InMax-p.InMin)

	lo, hi := p.OutMin, p.OutMax
	if lo > hi {
		lo, hi = hi, lo
	}
	if y < lo {
		y = lo
	}
	if y > hi {
		y = hi
	}
	e.writeNumber(el.Dest, y)
}
