package cadence

import (
	"fmt"

	"github.com/netlens/netlens/internal/netlist"
)

// Files names the companion triple a Cadence export comprises.
type Files struct {
	Net  string // pstxnet.dat
	Part string // pstxprt.dat
	Chip string // pstchip.dat
}

// ParseDesign decodes the three companion files and joins them into the
// universal netlist model.
func ParseDesign(files Files) (*netlist.Netlist, error) {
	nets, err := ParseNetFile(files.Net)
	if err != nil {
		return nil, err
	}
	parts, err := ParsePartsFile(files.Part)
	if err != nil {
		return nil, err
	}
	chips, err := ParseChipFile(files.Chip)
	if err != nil {
		return nil, err
	}
	return Join(nets, parts, chips), nil
}

// Join cross-references the three parsed files. Net endpoints with
// instance-path refdeses are filtered out; chip part definitions enrich pins
// with their logical names and components with their VALUE property.
func Join(nets []NetEntry, parts *PartsFile, chips []ChipPart) *netlist.Netlist {
	model := netlist.New()

	chipByName := make(map[string]*ChipPart, len(chips))
	for i := range chips {
		chipByName[chips[i].PartName] = &chips[i]
	}

	for _, part := range parts.Parts {
		if !netlist.IsValidRefdes(part.Refdes) {
			continue
		}
		c := model.EnsureComponent(part.Refdes)
		c.SetMPN(part.MPN)
		c.Description = part.Description
	}

	for _, net := range nets {
		for _, node := range net.Nodes {
			if !netlist.IsValidRefdes(node.Refdes) {
				continue
			}
			c := model.EnsureComponent(node.Refdes)
			pinName := ""
			if chip := chipForRefdes(node.Refdes, parts, chipByName); chip != nil {
				if name := logicalPinName(chip, node.Pin); name != "" && name != node.Pin {
					pinName = name
				}
				if value, ok := chip.Body["VALUE"]; ok && c.Value == "" {
					c.Value = value
				}
			}
			model.Connect(net.Name, node.Refdes, node.Pin, pinName)
		}
	}
	return model
}

func chipForRefdes(refdes string, parts *PartsFile, chipByName map[string]*ChipPart) *ChipPart {
	partName, ok := parts.PartNames[refdes]
	if !ok {
		return nil
	}
	return chipByName[partName]
}

// logicalPinName inverts the chip's name → number pin map for one number.
func logicalPinName(chip *ChipPart, number string) string {
	for name, num := range chip.Pins {
		if num == number {
			return name
		}
	}
	return ""
}

// MissingFilesError formats the fatal diagnostic for an incomplete triple.
func MissingFilesError(missing []string) error {
	return fmt.Errorf("incomplete Cadence netlist export (missing %v); re-export the design with pstxnet.dat, pstxprt.dat, and pstchip.dat", missing)
}
