package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ladderlab-xyz/go-ladder/ladder"
)

// Generate renders a Program back into notation text. Reparsing the output
// yields the same network count, the same element sequence per network, and
// the same I/O map cardinality.
func Generate(p *ladder.Program) string {
	var b strings.Builder

	for i := range p.Networks {
		n := &p.Networks[i]
		if n.Label != "" {
			fmt.Fprintf(&b, "Network %d: %s\n", n.Number, n.Label)
		} else {
			fmt.Fprintf(&b, "Network %d\n", n.Number)
		}
		if n.Parallel() {
			for _, br := range n.Branches {
				b.WriteString(renderLine(br.Elements))
				b.WriteByte('\n')
			}
		} else if len(n.Elements) > 0 {
			b.WriteString(renderLine(n.Elements))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	if len(p.IOMappings) > 0 {
		b.WriteString("I/O Mapping:\n")
		for _, m := range p.IOMappings {
			fmt.Fprintf(&b, "%s - %s\n", m.Address, m.Name)
		}
	}

	return b.String()
}

func renderLine(elements []ladder.Element) string {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = renderElement(e)
	}
	return strings.Join(parts, "--")
}

func renderElement(e ladder.Element) string {
	switch e.Type {
	case ladder.ContactNO:
		return "[ " + contactAddr(e) + " ]"
	case ladder.ContactNC:
		return "[/ " + contactAddr(e) + " ]"
	case ladder.Coil:
		return "( " + e.Address + " )"
	case ladder.CoilSet:
		return "( S " + e.Address + " )"
	case ladder.CoilReset:
		return "( R " + e.Address + " )"
	case ladder.TimerTON:
		return fmt.Sprintf("[TON %s, %sms]", e.Address, f(e.Preset))
	case ladder.CounterCTU:
		return fmt.Sprintf("[CTU %s, %s]", e.Address, f(e.Preset))
	case ladder.CompareGT, ladder.CompareLT, ladder.CompareEQ,
		ladder.CompareGE, ladder.CompareLE, ladder.CompareNE:
		return fmt.Sprintf("[ %s %s %s ]", e.Operand, compareOp(e.Type), f(e.Value))
	case ladder.MathAdd, ladder.MathSub, ladder.MathMul, ladder.MathDiv:
		return fmt.Sprintf("[ %s %s %s => %s ]", arithOp(e.Type), operand(e.Op1), operand(e.Op2), e.Dest)
	case ladder.Move:
		return fmt.Sprintf("[ MOVE %s => %s ]", operand(e.Op1), e.Dest)
	case ladder.BlockPID:
		return fmt.Sprintf("[PID %s, %s, %s, %s, %s => %s]",
			e.Input, f(e.Params.Kp), f(e.Params.Ki), f(e.Params.Kd), f(e.Params.Setpoint), e.Dest)
	case ladder.BlockFilterAvg:
		return fmt.Sprintf("[AVG %s, %d => %s]", e.Input, e.Params.Window, e.Dest)
	case ladder.BlockScale:
		return fmt.Sprintf("[SCALE %s, %s, %s, %s, %s => %s]",
			e.Input, f(e.Params.InMin), f(e.Params.InMax), f(e.Params.OutMin), f(e.Params.OutMax), e.Dest)
	}
	return ""
}

func contactAddr(e ladder.Element) string {
	if e.Done {
		return e.Address + ".DN"
	}
	return e.Address
}

func compareOp(t ladder.ElementType) string {
	switch t {
	case ladder.CompareGT:
		return ">"
	case ladder.CompareLT:
		return "<"
	case ladder.CompareEQ:
		return "=="
	case ladder.CompareGE:
		return ">="
	case ladder.CompareLE:
		return "<="
	default:
		return "!="
	}
}

func arithOp(t ladder.ElementType) string {
	switch t {
	case ladder.MathAdd:
		return "ADD"
	case ladder.MathSub:
		return "SUB"
	case ladder.MathMul:
		return "MUL"
	default:
		return "DIV"
	}
}

func operand(o ladder.Operand) string {
	if o.IsLiteral {
		return f(o.Literal)
	}
	return o.Address
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
