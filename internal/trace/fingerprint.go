package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/netlens/netlens/internal/netlist"
)

// emptyFingerprint is the identifier of the empty circuit.
const emptyFingerprint = "0000000000000000"

// canonicalComponent is the fixed-field-order serialization unit of the
// fingerprint; field order matters because the JSON encoding feeds the hash.
type canonicalComponent struct {
	Refdes      string                `json:"refdes"`
	MPN         string                `json:"mpn"`
	Connections []canonicalConnection `json:"connections"`
}

type canonicalConnection struct {
	Pins []string `json:"pins"`
	Net  string   `json:"net"`
}

// Fingerprint derives the 16-hex-character topology identifier of a set of
// traversed components. Any two traversals of the same circuit yield the
// same value regardless of starting point or input ordering.
func Fingerprint(components []ComponentResult) string {
	if len(components) == 0 {
		return emptyFingerprint
	}

	canonical := make([]canonicalComponent, 0, len(components))
	for _, comp := range components {
		cc := canonicalComponent{Refdes: comp.Refdes, MPN: comp.MPN}
		for _, conn := range comp.Connections {
			pins := make([]string, len(conn.Pins))
			copy(pins, conn.Pins)
			netlist.SortNatural(pins)
			cc.Connections = append(cc.Connections, canonicalConnection{Pins: pins, Net: conn.Net})
		}
		sort.SliceStable(cc.Connections, func(i, j int) bool {
			return cc.Connections[i].Net < cc.Connections[j].Net
		})
		canonical = append(canonical, cc)
	}
	sort.SliceStable(canonical, func(i, j int) bool {
		return netlist.CompareNatural(canonical[i].Refdes, canonical[j].Refdes) < 0
	})

	serialized, err := json.Marshal(canonical)
	if err != nil {
		// Marshaling plain strings and slices cannot fail.
		return emptyFingerprint
	}
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])[:16]
}
