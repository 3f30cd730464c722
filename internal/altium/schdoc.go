package altium

import (
	"fmt"

	"github.com/netlens/netlens/internal/cfb"
	"github.com/netlens/netlens/internal/netlist"
)

// fileHeaderStream is the stream inside the compound document that carries
// the schematic record stream.
const fileHeaderStream = "FileHeader"

// ParseSchDoc decodes one .SchDoc compound document into the universal
// netlist model.
func ParseSchDoc(path string) (*netlist.Netlist, error) {
	reader, err := cfb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schematic container: %w", err)
	}
	data, err := reader.ReadStream(fileHeaderStream)
	if err != nil {
		return nil, fmt.Errorf("failed to read schematic stream: %w", err)
	}
	return Decode(data)
}

// Decode parses the raw FileHeader stream bytes into the universal model.
func Decode(data []byte) (*netlist.Netlist, error) {
	stream, err := ParseStream(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record stream: %w", err)
	}
	roots := BuildHierarchy(stream.Body)

	model := netlist.New()
	ExtractComponents(roots, model)
	ProjectNets(ExtractNets(roots), model)

	// Pins that survived extraction but landed on no net (or only on a
	// suppressed single-pin net) are unconnected.
	for _, c := range model.Components {
		for pin, entry := range c.Pins {
			if entry.Net == "" {
				entry.Net = netlist.NC
				c.Pins[pin] = entry
			}
		}
	}
	return model, nil
}
