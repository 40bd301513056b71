package ladder

// Branch is one parallel path of a network.
type Branch struct {
	Elements []Element `json:"elements"`
}

// Network is one ladder rung: either a single series of elements (implicit
// AND) or a set of parallel branches (OR). A network with no elements and no
// branches is inert but legal; it evaluates to nothing.
type Network struct {
	Number   int       `json:"number"`
	Label    string    `json:"label,omitempty"`
	Comment  string    `json:"comment,omitempty"`
	Elements []Element `json:"elements,omitempty"`
	Branches []Branch  `json:"branches,omitempty"`
}

// Parallel reports whether the network has OR branches.
func (n *Network) Parallel() bool { return len(n.Branches) > 0 }

// Empty reports whether the network has no elements at all.
func (n *Network) Empty() bool {
	if len(n.Elements) > 0 {
		return false
	}
	for _, b := range n.Branches {
		if len(b.Elements) > 0 {
			return false
		}
	}
	return true
}

// AllElements returns every element of the network in document order,
// flattening branches.
func (n *Network) AllElements() []Element {
	if !n.Parallel() {
		return n.Elements
	}
	var out []Element
	for _, b := range n.Branches {
		out = append(out, b.Elements...)
	}
	return out
}

// IOMapping associates an address with a display name. It is documentation
// consumed by validators and renderers, never authoritative over behavior.
type IOMapping struct {
	Address     string      `json:"address"`
	Name        string      `json:"name"`
	Kind        AddressKind `json:"kind"`
	Description string      `json:"description,omitempty"`
}

// Program is an ordered list of networks plus the I/O map. It is built once
// by the parser and never mutated by the simulator, which keeps its own
// runtime state keyed by address.
type Program struct {
	Networks   []Network   `json:"networks"`
	IOMappings []IOMapping `json:"ioMappings,omitempty"`
}

// Mapping returns the I/O mapping for an address. Duplicate mappings are
// legal; the last one wins.
func (p *Program) Mapping(addr string) (IOMapping, bool) {
	for i := len(p.IOMappings) - 1; i >= 0; i-- {
		if p.IOMappings[i].Address == addr {
			return p.IOMappings[i], true
		}
	}
	return IOMapping{}, false
}

// Addresses returns every distinct address referenced by any element or I/O
// mapping, in first-appearance order.
func (p *Program) Addresses() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(a string) {
		if a != "" && !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	for i := range p.Networks {
		for _, el := range p.Networks[i].AllElements() {
			for _, a := range el.Addresses() {
				add(a)
			}
		}
	}
	for _, m := range p.IOMappings {
		add(m.Address)
	}
	return out
}

// NetworkByNumber returns the network with the given 1-based number.
func (p *Program) NetworkByNumber(num int) *Network {
	for i := range p.Networks {
		if p.Networks[i].Number == num {
			return &p.Networks[i]
		}
	}
	return nil
}
