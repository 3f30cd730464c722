// Package netlist defines the universal netlist model shared by the Altium
// and Cadence decoders and consumed by the trace engine. The model keeps two
// inversely-indexed views of the same connectivity relation so that both
// net→pins and pin→net lookups are O(1).
package netlist

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// NC is the sentinel net name for unconnected pins. Decoders normalize an
// empty net name to NC.
const NC = "NC"

// PinEntry describes what a single component pin connects to. Name is the
// pin's logical name and is set only when it differs from the pin identifier
// (e.g. "VIN" on pin "1"); otherwise the entry is just the net name.
type PinEntry struct {
	Name string
	Net  string
}

// MarshalJSON emits the compact form: a bare net-name string when the pin
// carries no separate logical name, the {name, net} pair otherwise.
func (p PinEntry) MarshalJSON() ([]byte, error) {
	if p.Name == "" {
		return json.Marshal(p.Net)
	}
	return json.Marshal(struct {
		Name string `json:"name"`
		Net  string `json:"net"`
	}{p.Name, p.Net})
}

// UnmarshalJSON accepts both the bare-string and the {name, net} forms.
func (p *PinEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Name = ""
		p.Net = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
		Net  string `json:"net"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("pin entry must be a string or {name, net}: %w", err)
	}
	p.Name = obj.Name
	p.Net = obj.Net
	return nil
}

// Component is one schematic component instance keyed by refdes.
type Component struct {
	MPN         string              `json:"-"`
	Description string              `json:"description,omitempty"`
	Comment     string              `json:"comment,omitempty"`
	Value       string              `json:"value,omitempty"`
	Pins        map[string]PinEntry `json:"pins"`
}

// componentJSON is the wire shape: mpn is always present and null when absent.
type componentJSON struct {
	MPN         *string             `json:"mpn"`
	Description string              `json:"description,omitempty"`
	Comment     string              `json:"comment,omitempty"`
	Value       string              `json:"value,omitempty"`
	Pins        map[string]PinEntry `json:"pins"`
}

// MarshalJSON renders MPN as null when the component has none.
func (c *Component) MarshalJSON() ([]byte, error) {
	out := componentJSON{
		Description: c.Description,
		Comment:     c.Comment,
		Value:       c.Value,
		Pins:        c.Pins,
	}
	if c.MPN != "" {
		mpn := c.MPN
		out.MPN = &mpn
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Component) UnmarshalJSON(data []byte) error {
	var in componentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.MPN != nil {
		c.MPN = *in.MPN
	} else {
		c.MPN = ""
	}
	c.Description = in.Description
	c.Comment = in.Comment
	c.Value = in.Value
	c.Pins = in.Pins
	if c.Pins == nil {
		c.Pins = make(map[string]PinEntry)
	}
	return nil
}

// SetMPN trims and stores an MPN; whitespace-only input is treated as absent.
func (c *Component) SetMPN(mpn string) {
	c.MPN = strings.TrimSpace(mpn)
}

// Netlist is the universal model: the net index (net → refdes → pin ids) and
// the component index (refdes → component). Reference designators and pin
// identifiers are canonicalized to upper case; net names stay case-sensitive.
type Netlist struct {
	Nets       map[string]map[string][]string `json:"nets"`
	Components map[string]*Component          `json:"components"`
}

// New returns an empty netlist.
func New() *Netlist {
	return &Netlist{
		Nets:       make(map[string]map[string][]string),
		Components: make(map[string]*Component),
	}
}

// Canonical upper-cases a refdes or pin identifier.
func Canonical(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// EnsureComponent returns the component for refdes, creating it if absent.
func (n *Netlist) EnsureComponent(refdes string) *Component {
	refdes = Canonical(refdes)
	c, ok := n.Components[refdes]
	if !ok {
		c = &Component{Pins: make(map[string]PinEntry)}
		n.Components[refdes] = c
	}
	return c
}

// Connect records that pin of refdes sits on net, updating both indexes.
// An empty net name is normalized to NC. NC pins are recorded on the
// component only; the sentinel never appears as a key in the net index.
// The pin's logical name, when it differs from the pin id, is preserved
// across repeated connects.
func (n *Netlist) Connect(net, refdes, pin, pinName string) {
	refdes = Canonical(refdes)
	pin = Canonical(pin)
	if net == "" {
		net = NC
	}
	if net == NC {
		c := n.EnsureComponent(refdes)
		entry := c.Pins[pin]
		if pinName != "" && !strings.EqualFold(pinName, pin) {
			entry.Name = pinName
		}
		entry.Net = NC
		c.Pins[pin] = entry
		return
	}

	byRef, ok := n.Nets[net]
	if !ok {
		byRef = make(map[string][]string)
		n.Nets[net] = byRef
	}
	found := false
	for _, p := range byRef[refdes] {
		if p == pin {
			found = true
			break
		}
	}
	if !found {
		byRef[refdes] = append(byRef[refdes], pin)
	}

	c := n.EnsureComponent(refdes)
	entry := c.Pins[pin]
	if pinName != "" && !strings.EqualFold(pinName, pin) {
		entry.Name = pinName
	}
	entry.Net = net
	c.Pins[pin] = entry
}

// ResolvePin locates (refdes, pin) case-insensitively and returns the
// canonical identifiers with the pin entry.
func (n *Netlist) ResolvePin(refdes, pin string) (string, string, PinEntry, bool) {
	refdes = Canonical(refdes)
	pin = Canonical(pin)
	c, ok := n.Components[refdes]
	if !ok {
		return "", "", PinEntry{}, false
	}
	entry, ok := c.Pins[pin]
	if !ok {
		return "", "", PinEntry{}, false
	}
	return refdes, pin, entry, true
}

// NetNames returns all net names sorted lexicographically.
func (n *Netlist) NetNames() []string {
	names := make([]string, 0, len(n.Nets))
	for name := range n.Nets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Refdeses returns all reference designators in natural order.
func (n *Netlist) Refdeses() []string {
	refs := make([]string, 0, len(n.Components))
	for r := range n.Components {
		refs = append(refs, r)
	}
	SortNatural(refs)
	return refs
}

// Merge folds other into n. Nets merge by name (shared names are the
// off-page connection mechanism across sheets); components merge by refdes.
// Unnamed nets from other that collide with n's are renumbered past the
// highest UnnamedNet index in either model, so they never fuse.
func (n *Netlist) Merge(other *Netlist) {
	next := max(n.nextUnnamedIndex(), other.nextUnnamedIndex())
	renamed := make(map[string]string)
	for net, byRef := range other.Nets {
		target := net
		if strings.HasPrefix(net, "UnnamedNet") {
			if _, exists := n.Nets[net]; exists {
				target = fmt.Sprintf("UnnamedNet%d", next)
				next++
			}
			renamed[net] = target
		}
		for refdes, pins := range byRef {
			for _, pin := range pins {
				name := ""
				if c, ok := other.Components[refdes]; ok {
					name = c.Pins[pin].Name
				}
				n.Connect(target, refdes, pin, name)
			}
		}
	}
	for refdes, c := range other.Components {
		dst := n.EnsureComponent(refdes)
		if dst.MPN == "" {
			dst.MPN = c.MPN
		}
		if dst.Description == "" {
			dst.Description = c.Description
		}
		if dst.Comment == "" {
			dst.Comment = c.Comment
		}
		if dst.Value == "" {
			dst.Value = c.Value
		}
		for pin, entry := range c.Pins {
			if _, ok := dst.Pins[pin]; ok {
				continue
			}
			if t, ok := renamed[entry.Net]; ok {
				entry.Net = t
			}
			dst.Pins[pin] = entry
		}
	}
}

func (n *Netlist) nextUnnamedIndex() int {
	next := 0
	for net := range n.Nets {
		var k int
		if _, err := fmt.Sscanf(net, "UnnamedNet%d", &k); err == nil && k >= next {
			next = k + 1
		}
	}
	return next
}

// Validate checks the model symmetry invariants: every (net, refdes, pin)
// triple in the net index has a matching component pin entry with the same
// embedded net, and vice versa.
func (n *Netlist) Validate() error {
	for net, byRef := range n.Nets {
		for refdes, pins := range byRef {
			c, ok := n.Components[refdes]
			if !ok {
				return fmt.Errorf("net %q references unknown component %q", net, refdes)
			}
			for _, pin := range pins {
				entry, ok := c.Pins[pin]
				if !ok {
					return fmt.Errorf("net %q references unknown pin %s.%s", net, refdes, pin)
				}
				if entry.Net != net {
					return fmt.Errorf("pin %s.%s carries net %q but is indexed under %q", refdes, pin, entry.Net, net)
				}
			}
		}
	}
	for refdes, c := range n.Components {
		for pin, entry := range c.Pins {
			if entry.Net == "" {
				return fmt.Errorf("pin %s.%s has no net", refdes, pin)
			}
			if entry.Net == NC {
				continue
			}
			found := false
			for _, p := range n.Nets[entry.Net][refdes] {
				if p == pin {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("pin %s.%s carries net %q but is missing from the net index", refdes, pin, entry.Net)
			}
		}
	}
	return nil
}
