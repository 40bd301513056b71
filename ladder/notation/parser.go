// Package notation parses the textual relay-ladder notation into a
// ladder.Program and regenerates notation text from one.
//
// The grammar is line oriented: a "Network <n>[: <label>]" header opens a
// network, subsequent lines holding ladder syntax form its body (one line is
// a series rung, several lines are parallel OR branches), and a trailing
// "I/O Mapping:" section lists "<address> - <description>" entries.
package notation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ladderlab-xyz/go-ladder/ladder"
)

var (
	networkHeaderRe = regexp.MustCompile(`^\s*Network\s+(\d+)\s*(?::\s*(.+?))?\s*$`)
	ioHeaderRe      = regexp.MustCompile(`^\s*I/O\s+Mapping\s*:`)
	ioEntryRe       = regexp.MustCompile(`^\s*([A-Z]{1,2}\d+(?:\.\d+)?)\s*-\s*(.*\S)?\s*$`)
	tableRowRe      = regexp.MustCompile(`(?m)^\s*\|.*\|.*\|`)
)

// Parse converts notation text into a Program. It fails with a
// *ladder.FormatError when the input cannot be safely interpreted as ladder
// notation; the error message tells the producer what to emit instead.
func Parse(text string) (*ladder.Program, error) {
	// The primary producer is a generative process, so format drift shows up
	// as documentation prose: bold markup or markdown tables. Catch it before
	// any segmentation.
	if strings.Contains(text, "**") {
		return nil, ladder.Formatf(ladder.RuleMarkup,
			"bold markup (**) found; use plain text headers like \"Network 1:\", not markdown formatting")
	}
	if tableRowRe.MatchString(text) {
		return nil, ladder.Formatf(ladder.RuleTable,
			"markdown table row found; emit ladder notation lines, not tables")
	}

	prog := &ladder.Program{}
	var (
		current   *networkAccum
		inMapping bool
	)

	flush := func() {
		if current != nil {
			prog.Networks = append(prog.Networks, current.network())
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if m := networkHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			inMapping = false
			num, _ := strconv.Atoi(m[1])
			current = &networkAccum{number: num, label: strings.TrimSpace(m[2])}
			continue
		}
		if ioHeaderRe.MatchString(line) {
			flush()
			inMapping = true
			continue
		}
		if inMapping {
			if m := ioEntryRe.FindStringSubmatch(line); m != nil {
				prog.IOMappings = append(prog.IOMappings, ladder.IOMapping{
					Address:     m[1],
					Name:        m[2],
					Kind:        ladder.KindOf(m[1]),
					Description: m[2],
				})
			}
			continue
		}
		if current != nil && hasLadderSyntax(line) {
			current.bodyLines = append(current.bodyLines, line)
		}
	}
	flush()

	if len(prog.Networks) == 0 {
		return nil, ladder.Formatf(ladder.RuleNoNetwork,
			"no network headers found; start each rung with a plain \"Network <n>:\" line")
	}

	if len(prog.IOMappings) == 0 {
		prog.IOMappings = deriveIOMappings(prog)
	}

	return prog, nil
}

// networkAccum collects the body lines of one network until it is flushed.
type networkAccum struct {
	number    int
	label     string
	bodyLines []string
}

// network parses the accumulated body. More than one body line means the
// lines are parallel OR branches; a single line is a flat series rung. A line
// that yields no elements is not an error here: the network simply ends up
// empty and the validator flags it.
func (a *networkAccum) network() ladder.Network {
	n := ladder.Network{Number: a.number, Label: a.label}
	switch len(a.bodyLines) {
	case 0:
	case 1:
		n.Elements = scanLine(a.bodyLines[0])
	default:
		for _, line := range a.bodyLines {
			n.Branches = append(n.Branches, ladder.Branch{Elements: scanLine(line)})
		}
	}
	return n
}

// hasLadderSyntax reports whether a line contains element delimiters.
func hasLadderSyntax(line string) bool {
	return strings.ContainsAny(line, "[(")
}

// deriveIOMappings synthesizes one mapping per distinct referenced address
// when the text had no explicit I/O Mapping section.
func deriveIOMappings(p *ladder.Program) []ladder.IOMapping {
	var mappings []ladder.IOMapping
	for _, a := range p.Addresses() {
		mappings = append(mappings, ladder.IOMapping{
			Address: a,
			Name:    a,
			Kind:    ladder.KindOf(a),
		})
	}
	return mappings
}

// MustParse parses notation text and panics on error. Test helper.
func MustParse(text string) *ladder.Program {
	p, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("notation: %v", err))
	}
	return p
}
