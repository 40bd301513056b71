package notation

import (
	"regexp"
	"strconv"

	"github.com/ladderlab-xyz/go-ladder/ladder"
)

// addr is the shape of a plain address token inside bracket/paren delimiters.
const addr = `[A-Z]{1,2}\d+(?:\.\d+)?`

// num is a plain numeric literal, optionally signed and fractional.
const num = `-?\d+(?:\.\d+)?`

// pattern pairs one element grammar with its constructor. The table below is
// tried strictly in order: the done-bit forms come before the plain contact
// forms, and S/R coils before the generic coil, because the generic patterns
// are textual superstrings of the specific ones. Each successful match blanks
// its span so no later pattern can reclassify it; offsets are kept so matches
// can be re-sorted into document order afterwards.
type pattern struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) ladder.Element
}

var elementPatterns = []pattern{
	{
		name: "done-bit-no",
		re:   regexp.MustCompile(`\[\s*([TC]\d+)\.DN\s*\]`),
		build: func(m []string) ladder.Element {
			return ladder.Element{Type: ladder.ContactNO, Address: m[1], Done: true}
		},
	},
	{
		name: "done-bit-nc",
		re:   regexp.MustCompile(`\[\s*/\s*([TC]\d+)\.DN\s*\]`),
		build: func(m []string) ladder.Element {
			return ladder.Element{Type: ladder.ContactNC, Address: m[1], Done: true}
		},
	},
	{
		name: "contact-nc",
		re:   regexp.MustCompile(`\[\s*/\s*(` + addr + `)\s*\]`),
		build: func(m []string) ladder.Element {
			return ladder.Element{Type: ladder.ContactNC, Address: m[1]}
		},
	},
	{
		name: "contact-no",
		re:   regexp.MustCompile(`\[\s*(` + addr + `)\s*\]`),
		build: func(m []string) ladder.Element {
			return ladder.Element{Type: ladder.ContactNO, Address: m[1]}
		},
	},
	{
		name: "coil-set",
		re:   regexp.MustCompile(`\(\s*S\s+(` + addr + `)\s*\)`),
		build: func(m []string) ladder.Element {
			return ladder.Element{Type: ladder.CoilSet, Address: m[1]}
		},
	},
	{
		name: "coil-reset",
		re:   regexp.MustCompile(`\(\s*R\s+(` + addr + `)\s*\)`),
		build: func(m []string) ladder.Element {
			return ladder.Element{Type: ladder.CoilReset, Address: m[1]}
		},
	},
	{
		name: "coil",
		re:   regexp.MustCompile(`\(\s*(` + addr + `)\s*\)`),
		build: func(m []string) ladder.Element {
			return ladder.Element{Type: ladder.Coil, Address: m[1]}
		},
	},
	{
		name: "timer",
		re:   regexp.MustCompile(`\[\s*TON\s+(T\d+)\s*,\s*(\d+)\s*ms\s*\]`),
		build: func(m []string) ladder.Element {
			ms, _ := strconv.ParseFloat(m[2], 64)
			return ladder.Element{Type: ladder.TimerTON, Address: m[1], Preset: ms}
		},
	},
	{
		name: "counter",
		re:   regexp.MustCompile(`\[\s*CTU\s+(C\d+)\s*,\s*(\d+)\s*\]`),
		build: func(m []string) ladder.Element {
			n, _ := strconv.ParseFloat(m[2], 64)
			return ladder.Element{Type: ladder.CounterCTU, Address: m[1], Preset: n}
		},
	},
	{
		name: "compare",
		re:   regexp.MustCompile(`\[\s*(` + addr + `)\s*(>=|<=|==|!=|>|<)\s*(` + num + `)\s*\]`),
		build: func(m []string) ladder.Element {
			v, _ := strconv.ParseFloat(m[3], 64)
			return ladder.Element{Type: compareType(m[2]), Operand: m[1], Value: v}
		},
	},
	{
		name: "arith",
		re:   regexp.MustCompile(`\[\s*(ADD|SUB|MUL|DIV)\s+(\S+)\s+(\S+)\s*=>\s*(` + addr + `)\s*\]`),
		build: func(m []string) ladder.Element {
			return ladder.Element{
				Type: arithType(m[1]),
				Op1:  parseOperand(m[2]),
				Op2:  parseOperand(m[3]),
				Dest: m[4],
			}
		},
	},
	{
		name: "move",
		re:   regexp.MustCompile(`\[\s*MOVE\s+(\S+)\s*=>\s*(` + addr + `)\s*\]`),
		build: func(m []string) ladder.Element {
			return ladder.Element{Type: ladder.Move, Op1: parseOperand(m[1]), Dest: m[2]}
		},
	},
	{
		name: "pid",
		re: regexp.MustCompile(`\[\s*PID\s+(` + addr + `)\s*,\s*(` + num + `)\s*,\s*(` + num +
			`)\s*,\s*(` + num + `)\s*,\s*(` + num + `)\s*=>\s*(` + addr + `)\s*\]`),
		build: func(m []string) ladder.Element {
			return ladder.Element{
				Type:  ladder.BlockPID,
				Input: m[1],
				Params: &ladder.BlockParams{
					Kp:       parseFloat(m[2]),
					Ki:       parseFloat(m[3]),
					Kd:       parseFloat(m[4]),
					Setpoint: parseFloat(m[5]),
				},
				Dest: m[6],
			}
		},
	},
	{
		name: "filter-avg",
		re:   regexp.MustCompile(`\[\s*AVG\s+(` + addr + `)\s*,\s*(\d+)\s*=>\s*(` + addr + `)\s*\]`),
		build: func(m []string) ladder.Element {
			w, _ := strconv.Atoi(m[2])
			return ladder.Element{
				Type:   ladder.BlockFilterAvg,
				Input:  m[1],
				Params: &ladder.BlockParams{Window: w},
				Dest:   m[3],
			}
		},
	},
	{
		name: "scale",
		re: regexp.MustCompile(`\[\s*SCALE\s+(` + addr + `)\s*,\s*(` + num + `)\s*,\s*(` + num +
			`)\s*,\s*(` + num + `)\s*,\s*(` + num + `)\s*=>\s*(` + addr + `)\s*\]`),
		build: func(m []string) ladder.Element {
			return ladder.Element{
				Type:  ladder.BlockScale,
				Input: m[1],
				Params: &ladder.BlockParams{
					InMin:  parseFloat(m[2]),
					InMax:  parseFloat(m[3]),
					OutMin: parseFloat(m[4]),
					OutMax: parseFloat(m[5]),
				},
				Dest: m[6],
			}
		},
	},
}

func compareType(op string) ladder.ElementType {
	switch op {
	case ">":
		return ladder.CompareGT
	case "<":
		return ladder.CompareLT
	case "==":
		return ladder.CompareEQ
	case ">=":
		return ladder.CompareGE
	case "<=":
		return ladder.CompareLE
	default:
		return ladder.CompareNE
	}
}

func arithType(op string) ladder.ElementType {
	switch op {
	case "ADD":
		return ladder.MathAdd
	case "SUB":
		return ladder.MathSub
	case "MUL":
		return ladder.MathMul
	default:
		return ladder.MathDiv
	}
}

var numRe = regexp.MustCompile(`^` + num + `$`)

// parseOperand treats a token as a literal iff it is a plain number;
// anything else is an address reference.
func parseOperand(tok string) ladder.Operand {
	if numRe.MatchString(tok) {
		return ladder.Lit(parseFloat(tok))
	}
	return ladder.Addr(tok)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// match is one recognized element with the character offset it started at.
type match struct {
	offset  int
	element ladder.Element
}

// scanLine extracts every element of one body line. Patterns are applied in
// priority order; matched spans are blanked before lower-priority patterns
// run, then matches are sorted by offset to restore left-to-right order.
func scanLine(line string) []ladder.Element {
	work := []byte(line)
	var matches []match

	for _, p := range elementPatterns {
		locs := p.re.FindAllSubmatchIndex(work, -1)
		for _, loc := range locs {
			groups := make([]string, len(loc)/2)
			for g := 0; g < len(loc)/2; g++ {
				if loc[2*g] >= 0 {
					groups[g] = string(work[loc[2*g]:loc[2*g+1]])
				}
			}
			matches = append(matches, match{offset: loc[0], element: p.build(groups)})
		}
		// Blank consumed spans so superstring patterns cannot rematch them.
		for _, loc := range locs {
			for i := loc[0]; i < loc[1]; i++ {
				work[i] = ' '
			}
		}
	}

	sortMatches(matches)

	elements := make([]ladder.Element, len(matches))
	for i, m := range matches {
		elements[i] = m.element
	}
	return elements
}

func sortMatches(ms []match) {
	// Insertion sort; lines hold a handful of elements.
	for i := 1; i < len(ms); i++ {
		for j := i; j > 0 && ms[j].offset < ms[j-1].offset; j-- {
			ms[j], ms[j-1] = ms[j-1], ms[j]
		}
	}
}
