package altium

import (
	"fmt"
	"strconv"

	"github.com/netlens/netlens/internal/netlist"
)

// RawNet is one electrically connected device group with its derived name.
// An empty name means no label, power port, or pin could name the net; the
// universal-model projection substitutes UnnamedNet<k>.
type RawNet struct {
	Name    string
	Devices []*device
}

// ExtractNets groups the forest's connectable devices and names each group.
func ExtractNets(roots []*Record) []RawNet {
	groups := groupDevices(connectables(roots))
	nets := make([]RawNet, 0, len(groups))
	for _, group := range groups {
		nets = append(nets, RawNet{Name: netName(group), Devices: group})
	}
	return nets
}

// netName derives a net's name. Label and power-port text wins; otherwise
// the lexicographically smallest (refdes, pin) among member pins yields
// Net<refdes>_<pin>; otherwise the net stays unnamed.
func netName(group []*device) string {
	for _, d := range group {
		if text := d.globalText(); text != "" {
			return text
		}
	}

	bestRef, bestPin := "", ""
	for _, d := range group {
		if d.rec.Tag() != TagPin {
			continue
		}
		refdes := pinOwnerRefdes(d.rec)
		pin := pinNumber(d.rec)
		if refdes == "" || pin == "" {
			continue
		}
		if bestRef == "" || refdes < bestRef || (refdes == bestRef && pinLess(pin, bestPin)) {
			bestRef, bestPin = refdes, pin
		}
	}
	if bestRef != "" {
		return fmt.Sprintf("Net%s_%s", bestRef, bestPin)
	}
	return ""
}

// pinLess compares pin numbers numerically when both parse as integers and
// lexicographically otherwise.
func pinLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// pinNumber is the pin's identifier within its component.
func pinNumber(pin *Record) string {
	return pin.Get("Designator", "DESIGNATOR")
}

// pinOwnerRefdes resolves a pin's reference designator from the designator
// child of its owner component.
func pinOwnerRefdes(pin *Record) string {
	owner := pin.Parent
	if owner == nil || owner.Tag() != TagComponent {
		return ""
	}
	return componentRefdes(owner)
}

// componentRefdes is the text of the component's first designator child.
func componentRefdes(comp *Record) string {
	for _, child := range comp.Children {
		if child.Tag() == TagDesignator {
			return child.Get("Text", "TEXT")
		}
	}
	return ""
}

// ProjectNets folds the raw nets into the universal model. Nets containing
// only a single pin and nothing else carry no connection information and are
// suppressed; unnamed surviving nets receive UnnamedNet<k> names.
func ProjectNets(nets []RawNet, model *netlist.Netlist) {
	unnamed := 0
	for _, net := range nets {
		pinCount := 0
		for _, d := range net.Devices {
			if d.rec.Tag() == TagPin {
				pinCount++
			}
		}
		if pinCount == 0 {
			continue
		}
		if pinCount == 1 && len(net.Devices) == 1 {
			continue
		}

		name := net.Name
		if name == "" {
			name = fmt.Sprintf("UnnamedNet%d", unnamed)
			unnamed++
		}
		for _, d := range net.Devices {
			if d.rec.Tag() != TagPin {
				continue
			}
			refdes := pinOwnerRefdes(d.rec)
			pin := pinNumber(d.rec)
			if refdes == "" || pin == "" || !netlist.IsValidRefdes(refdes) {
				continue
			}
			model.Connect(name, refdes, pin, d.rec.Get("Name", "NAME"))
		}
	}
}
