package altium

import (
	"strings"

	"github.com/netlens/netlens/internal/netlist"
)

// Parameter names with dedicated meaning on component records.
const (
	paramMPN     = "Manufacturer Part Number"
	paramComment = "Comment"
	paramValue   = "Value"
)

// ExtractComponents walks the forest and registers every component record in
// the model. Pin nets stay empty here; ProjectNets back-fills them once the
// connectivity groups are known.
func ExtractComponents(roots []*Record, model *netlist.Netlist) {
	var walk func(r *Record)
	walk = func(r *Record) {
		if r.Tag() == TagComponent {
			extractComponent(r, model)
		}
		for _, child := range r.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
}

func extractComponent(comp *Record, model *netlist.Netlist) {
	refdes := componentRefdes(comp)
	if refdes == "" || !netlist.IsValidRefdes(refdes) {
		return
	}

	params := make(map[string]string)
	for _, child := range comp.Children {
		if child.Tag() != TagParameter {
			continue
		}
		name := child.Get("Name", "NAME")
		if name == "" {
			continue
		}
		params[name] = child.Get("Text", "TEXT")
	}

	c := model.EnsureComponent(refdes)
	if mpn := strings.TrimSpace(params[paramMPN]); mpn != "" {
		c.MPN = mpn
	}
	if value := strings.TrimSpace(params[paramValue]); value != "" {
		c.Value = value
	}
	if comment := resolveComment(params); comment != "" && comment != c.Value {
		c.Comment = comment
	}

	current := comp.Get("CurrentPartId", "CURRENTPARTID")
	for _, child := range comp.Children {
		if child.Tag() != TagPin {
			continue
		}
		ownerPart := child.Get("OwnerPartId", "OWNERPARTID")
		if ownerPart != "" && current != "" && ownerPart != current {
			continue
		}
		pin := pinNumber(child)
		if pin == "" {
			continue
		}
		pin = netlist.Canonical(pin)
		if _, ok := c.Pins[pin]; ok {
			continue
		}
		entry := netlist.PinEntry{}
		if name := child.Get("Name", "NAME"); name != "" && !strings.EqualFold(name, pin) {
			entry.Name = name
		}
		c.Pins[pin] = entry
	}
}

// resolveComment returns the component's comment, following a leading-'='
// indirection into another parameter by case-insensitive name. A dangling
// indirection drops the comment.
func resolveComment(params map[string]string) string {
	comment := strings.TrimSpace(params[paramComment])
	if comment == "" {
		return ""
	}
	if !strings.HasPrefix(comment, "=") {
		return comment
	}
	target := strings.TrimSpace(comment[1:])
	for name, value := range params {
		if strings.EqualFold(name, target) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
