package trace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/netlens/netlens/internal/netlist"
)

// FromNet traverses the XNET rooted at netName and returns the aggregated
// result. Ground nets are refused; unknown nets are a semantic query error.
func FromNet(model *netlist.Netlist, netName string, opts Options) (*Result, error) {
	if netlist.IsGroundNet(netName) {
		return nil, fmt.Errorf("%w: %q is a ground net and cannot be queried; trace from a signal net instead", ErrGroundNet, netName)
	}
	if _, ok := model.Nets[netName]; !ok {
		return nil, fmt.Errorf("%w: %q; use the net listing to find valid net names", ErrUnknownNet, netName)
	}

	t := &traversal{model: model, opts: opts}
	t.run(netName)

	components := foldByRefdes(t.records, model)
	result := &Result{
		StartingPoint:   netName,
		Net:             netName,
		TotalComponents: len(components),
		VisitedNets:     t.visitedOrder,
		CircuitHash:     Fingerprint(components),
		Skipped:         t.skipCounts,
		components:      components,
	}
	result.ComponentsByMPN = aggregate(components, opts)
	result.UniqueConfigurations = len(result.ComponentsByMPN)
	return result, nil
}

// FromPin resolves a REFDES.PIN spec to its net and traverses from there.
// NC pins yield an empty result with the nc- fingerprint; pins on ground
// nets are refused.
func FromPin(model *netlist.Netlist, spec string, opts Options) (*Result, error) {
	refdes, pin, err := splitPinSpec(spec)
	if err != nil {
		return nil, err
	}
	canonRef, canonPin, entry, ok := model.ResolvePin(refdes, pin)
	if !ok {
		if _, exists := model.Components[netlist.Canonical(refdes)]; !exists {
			return nil, fmt.Errorf("%w: %q; use the component listing to find valid designators", ErrUnknownComponent, refdes)
		}
		return nil, fmt.Errorf("%w: %s has no pin %q", ErrUnknownPin, netlist.Canonical(refdes), pin)
	}
	startingPoint := canonRef + "." + canonPin

	if entry.Net == netlist.NC {
		return &Result{
			StartingPoint:   startingPoint,
			Net:             netlist.NC,
			ComponentsByMPN: []Aggregate{},
			VisitedNets:     []string{},
			CircuitHash:     "nc-" + startingPoint,
		}, nil
	}
	if netlist.IsGroundNet(entry.Net) {
		return nil, fmt.Errorf("%w: pin %s is connected to %q, a ground net that cannot be queried", ErrGroundNet, startingPoint, entry.Net)
	}

	result, err := FromNet(model, entry.Net, opts)
	if err != nil {
		return nil, err
	}
	result.StartingPoint = startingPoint
	result.Net = entry.Net
	return result, nil
}

// splitPinSpec parses REFDES.PIN.
func splitPinSpec(spec string) (refdes, pin string, err error) {
	parts := strings.SplitN(spec, ".", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("%w: %q (expected REFDES.PIN, e.g. U1.7)", ErrInvalidPinSpec, spec)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// traversal holds the per-call state of one breadth-first exploration.
type traversal struct {
	model *netlist.Netlist
	opts  Options

	queue        []string
	visitedNets  map[string]bool
	visitedOrder []string
	visitedPins  map[string]bool
	records      []PinRecord

	skipCounts  map[string]int
	skippedOnce map[string]bool
}

func (t *traversal) run(start string) {
	t.visitedNets = map[string]bool{start: true}
	t.visitedOrder = []string{start}
	t.visitedPins = make(map[string]bool)
	t.queue = []string{start}

	for len(t.queue) > 0 {
		net := t.queue[0]
		t.queue = t.queue[1:]
		t.visitNet(net)
	}
}

// visitNet processes one dequeued net: it emits every pin on the net, then
// continues through each passive component to the nets on its other pins.
func (t *traversal) visitNet(net string) {
	byRef := t.model.Nets[net]
	refs := make([]string, 0, len(byRef))
	for refdes := range byRef {
		refs = append(refs, refdes)
	}
	netlist.SortNatural(refs)

	for _, refdes := range refs {
		comp := t.model.Components[refdes]
		if t.filtered(refdes, comp) {
			continue
		}

		for _, pin := range sortedPins(byRef[refdes]) {
			t.emit(refdes, pin, net, comp)
		}

		if !netlist.IsPassive(refdes) {
			continue
		}
		t.followPassive(refdes, comp)
	}
}

// followPassive walks the passive's remaining pins. Each newly reached net
// is inspected before being enqueued: active endpoints are reported
// immediately, and the net continues the traversal only when it carries a
// further passive and is not a power or ground rail.
func (t *traversal) followPassive(refdes string, comp *netlist.Component) {
	pins := make([]string, 0, len(comp.Pins))
	for pin := range comp.Pins {
		pins = append(pins, pin)
	}
	netlist.SortNatural(pins)

	for _, pin := range pins {
		if t.visitedPins[refdes+"."+pin] {
			continue
		}
		next := comp.Pins[pin].Net
		t.emit(refdes, pin, next, comp)
		if next == netlist.NC {
			continue
		}
		if t.visitedNets[next] {
			continue
		}
		t.visitedNets[next] = true
		t.visitedOrder = append(t.visitedOrder, next)

		if t.inspect(next, refdes) && !netlist.IsStopNet(next) {
			t.queue = append(t.queue, next)
		}
	}
}

// inspect reports the endpoints of a newly reached net without entering it:
// active components have their pins on the net emitted once, and the return
// value says whether the net carries an onward passive worth following.
func (t *traversal) inspect(net, arrivedVia string) bool {
	byRef := t.model.Nets[net]
	refs := make([]string, 0, len(byRef))
	for refdes := range byRef {
		refs = append(refs, refdes)
	}
	netlist.SortNatural(refs)

	followable := false
	for _, refdes := range refs {
		comp := t.model.Components[refdes]
		if t.filtered(refdes, comp) {
			continue
		}
		if netlist.IsPassive(refdes) {
			if refdes != arrivedVia {
				followable = true
			}
			continue
		}
		for _, pin := range sortedPins(byRef[refdes]) {
			t.emit(refdes, pin, net, comp)
		}
	}
	return followable
}

// emit appends a pin record unless the pin was already visited.
func (t *traversal) emit(refdes, pin, net string, comp *netlist.Component) {
	key := refdes + "." + pin
	if t.visitedPins[key] {
		return
	}
	t.visitedPins[key] = true
	rec := PinRecord{Refdes: refdes, Pin: pin, Net: net}
	if comp != nil {
		rec.MPN = comp.MPN
		rec.Description = comp.Description
		rec.Comment = comp.Comment
		rec.Value = comp.Value
		rec.DNS = netlist.IsDNS(comp)
	}
	t.records = append(t.records, rec)
}

// filtered applies the skip-prefix and DNS filters, keeping per-prefix skip
// counters (each designator counts once).
func (t *traversal) filtered(refdes string, comp *netlist.Component) bool {
	for _, prefix := range t.opts.SkipTypes {
		p := strings.ToUpper(prefix)
		if p == "" || !strings.HasPrefix(refdes, p) {
			continue
		}
		if t.skippedOnce == nil {
			t.skippedOnce = make(map[string]bool)
			t.skipCounts = make(map[string]int)
		}
		if !t.skippedOnce[refdes] {
			t.skippedOnce[refdes] = true
			t.skipCounts[p]++
		}
		return true
	}
	if !t.opts.IncludeDNS && netlist.IsDNS(comp) {
		return true
	}
	return false
}

func sortedPins(pins []string) []string {
	out := make([]string, len(pins))
	copy(out, pins)
	netlist.SortNatural(out)
	return out
}

// foldByRefdes groups the flat pin-record list into per-component results.
// Pins sharing a net coalesce into one connection; connections order by the
// natural order of their first pin.
func foldByRefdes(records []PinRecord, model *netlist.Netlist) []ComponentResult {
	order := []string{}
	byRef := make(map[string][]PinRecord)
	for _, rec := range records {
		if _, ok := byRef[rec.Refdes]; !ok {
			order = append(order, rec.Refdes)
		}
		byRef[rec.Refdes] = append(byRef[rec.Refdes], rec)
	}

	results := make([]ComponentResult, 0, len(order))
	for _, refdes := range order {
		recs := byRef[refdes]
		netOrder := []string{}
		pinsByNet := make(map[string][]string)
		for _, rec := range recs {
			if _, ok := pinsByNet[rec.Net]; !ok {
				netOrder = append(netOrder, rec.Net)
			}
			pinsByNet[rec.Net] = append(pinsByNet[rec.Net], rec.Pin)
		}
		connections := make([]Connection, 0, len(netOrder))
		for _, net := range netOrder {
			pins := pinsByNet[net]
			netlist.SortNatural(pins)
			connections = append(connections, Connection{Pins: pins, Net: net})
		}
		sortConnections(connections)

		result := ComponentResult{Refdes: refdes, Connections: connections}
		if comp, ok := model.Components[refdes]; ok {
			result.MPN = comp.MPN
			result.Description = comp.Description
			result.Comment = comp.Comment
			result.Value = comp.Value
			result.DNS = netlist.IsDNS(comp)
		}
		results = append(results, result)
	}
	return results
}

// sortConnections orders connections by the natural order of their first pin.
func sortConnections(connections []Connection) {
	sort.SliceStable(connections, func(i, j int) bool {
		a, b := connections[i], connections[j]
		if len(a.Pins) == 0 || len(b.Pins) == 0 {
			return len(a.Pins) > len(b.Pins)
		}
		return netlist.CompareNatural(a.Pins[0], b.Pins[0]) < 0
	})
}
