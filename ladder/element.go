package ladder

// ElementType identifies the variant of a ladder element.
type ElementType string

const (
	ContactNO  ElementType = "contact-no"
	ContactNC  ElementType = "contact-nc"
	Coil       ElementType = "coil"
	CoilSet    ElementType = "coil-set"
	CoilReset  ElementType = "coil-reset"
	TimerTON   ElementType = "timer"
	CounterCTU ElementType = "counter"

	CompareGT ElementType = "gt"
	CompareLT ElementType = "lt"
	CompareEQ ElementType = "eq"
	CompareGE ElementType = "ge"
	CompareLE ElementType = "le"
	CompareNE ElementType = "ne"

	MathAdd ElementType = "add"
	MathSub ElementType = "sub"
	MathMul ElementType = "mul"
	MathDiv ElementType = "div"
	Move    ElementType = "move"

	BlockPID       ElementType = "pid"
	BlockFilterAvg ElementType = "filter-avg"
	BlockScale     ElementType = "scale"
)

// Operand is either an address reference or a numeric literal.
type Operand struct {
	Address   string  `json:"address,omitempty"`
	Literal   float64 `json:"literal,omitempty"`
	IsLiteral bool    `json:"isLiteral,omitempty"`
}

// Addr returns an address operand.
func Addr(a string) Operand { return Operand{Address: a} }

// Lit returns a literal operand.
func Lit(v float64) Operand { return Operand{Literal: v, IsLiteral: true} }

// BlockParams carries the typed parameters of the advanced function blocks.
// Only the fields relevant to the block's type are set.
type BlockParams struct {
	// PID
	Kp       float64 `json:"kp,omitempty"`
	Ki       float64 `json:"ki,omitempty"`
	Kd       float64 `json:"kd,omitempty"`
	Setpoint float64 `json:"setpoint,omitempty"`

	// FilterAvg
	Window int `json:"window,omitempty"`

	// Scale
	InMin  float64 `json:"inMin,omitempty"`
	InMax  float64 `json:"inMax,omitempty"`
	OutMin float64 `json:"outMin,omitempty"`
	OutMax float64 `json:"outMax,omitempty"`
}

// Element is one typed element of a network. Elements are immutable once
// parsed; all runtime state lives in the simulator.
//
// Field use by variant:
//   - contacts, coils: Address (Done marks a timer/counter done-bit contact)
//   - timer: Address + Preset (milliseconds)
//   - counter: Address + Preset (count)
//   - comparisons: Operand address + Value literal
//   - arithmetic: Op1, Op2, Dest
//   - move: Op1, Dest
//   - pid / filter-avg / scale: Input, Params, Dest
type Element struct {
	Type    ElementType `json:"type"`
	Address string      `json:"address,omitempty"`
	Done    bool        `json:"done,omitempty"`
	Preset  float64     `json:"preset,omitempty"`

	Operand string  `json:"operand,omitempty"`
	Value   float64 `json:"value,omitempty"`

	Op1  Operand `json:"op1,omitempty"`
	Op2  Operand `json:"op2,omitempty"`
	Dest string  `json:"dest,omitempty"`

	Input  string       `json:"input,omitempty"`
	Params *BlockParams `json:"params,omitempty"`
}

// IsCondition reports whether the element participates in the rung condition
// (contacts and comparisons AND their result into it).
func (e Element) IsCondition() bool {
	switch e.Type {
	case ContactNO, ContactNC, CompareGT, CompareLT, CompareEQ, CompareGE, CompareLE, CompareNE:
		return true
	}
	return false
}

// IsOutput reports whether the element is driven by the rung condition
// without contributing to it.
func (e Element) IsOutput() bool {
	return !e.IsCondition()
}

// Addresses returns every address the element references, in field order.
// Literal operands contribute nothing.
func (e Element) Addresses() []string {
	var addrs []string
	add := func(a string) {
		if a != "" {
			addrs = append(addrs, a)
		}
	}
	add(e.Address)
	add(e.Operand)
	if !e.Op1.IsLiteral {
		add(e.Op1.Address)
	}
	if !e.Op2.IsLiteral {
		add(e.Op2.Address)
	}
	add(e.Dest)
	add(e.Input)
	return addrs
}
