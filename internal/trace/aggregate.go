package trace

import (
	"sort"
	"strings"

	"github.com/netlens/netlens/internal/netlist"
)

const missingMPNNote = "no MPN or description available for this component; part data may be incomplete in the source schematic"

// aggregate folds per-component results into components_by_mpn entries
// keyed by (mpn-or-description, sorted net pair, dns flag), with orientation
// sub-grouping inside each entry. Output order is count descending, ties
// broken by the natural order of the group's first designator.
func aggregate(components []ComponentResult, opts Options) []Aggregate {
	type group struct {
		first        ComponentResult
		members      []ComponentResult
		orientations map[string]*Orientation
		orientOrder  []string
	}

	order := []string{}
	groups := make(map[string]*group)
	var singletons []Aggregate

	for _, comp := range components {
		if comp.MPN == "" && comp.Description == "" {
			// Nothing to group on; pass through with an advisory note.
			singletons = append(singletons, Aggregate{
				Value:       comp.Value,
				Comment:     comp.Comment,
				DNS:         comp.DNS,
				Count:       1,
				Refdes:      []string{comp.Refdes},
				Connections: comp.Connections,
				Notes:       []string{missingMPNNote},
			})
			continue
		}

		key := groupKey(comp)
		g, ok := groups[key]
		if !ok {
			g = &group{first: comp, orientations: make(map[string]*Orientation)}
			groups[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, comp)

		okey := orientationKey(comp.Connections)
		o, ok := g.orientations[okey]
		if !ok {
			o = &Orientation{Connections: comp.Connections}
			g.orientations[okey] = o
			g.orientOrder = append(g.orientOrder, okey)
		}
		o.Count++
		o.Refdes = append(o.Refdes, comp.Refdes)
	}

	out := make([]Aggregate, 0, len(order)+len(singletons))
	for _, key := range order {
		g := groups[key]
		agg := Aggregate{
			MPN:         g.first.MPN,
			Description: g.first.Description,
			Value:       g.first.Value,
			Comment:     g.first.Comment,
			Count:       len(g.members),
		}
		if opts.IncludeDNS {
			agg.DNS = g.first.DNS
		}

		if len(g.orientations) == 1 {
			o := g.orientations[g.orientOrder[0]]
			agg.Refdes = o.Refdes
			agg.Connections = o.Connections
		} else {
			orientations := make([]Orientation, 0, len(g.orientOrder))
			for _, okey := range g.orientOrder {
				orientations = append(orientations, *g.orientations[okey])
			}
			sort.SliceStable(orientations, func(i, j int) bool {
				if orientations[i].Count != orientations[j].Count {
					return orientations[i].Count > orientations[j].Count
				}
				return netlist.CompareNatural(orientations[i].Refdes[0], orientations[j].Refdes[0]) < 0
			})
			agg.Orientations = orientations
		}
		out = append(out, agg)
	}
	out = append(out, singletons...)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return netlist.CompareNatural(firstRefdes(out[i]), firstRefdes(out[j])) < 0
	})
	return out
}

// groupKey identifies an aggregate bucket: part identity, the sorted set of
// nets it bridges, and whether it is stuffed.
func groupKey(comp ComponentResult) string {
	identity := comp.MPN
	if identity == "" {
		identity = comp.Description
	}
	nets := make([]string, 0, len(comp.Connections))
	for _, conn := range comp.Connections {
		nets = append(nets, conn.Net)
	}
	sort.Strings(nets)
	dns := "0"
	if comp.DNS {
		dns = "1"
	}
	return identity + "\x00" + strings.Join(nets, "\x00") + "\x00" + dns
}

// orientationKey captures the exact pins-per-net wiring, e.g.
// "1,2:NET_A|3:NET_B".
func orientationKey(connections []Connection) string {
	parts := make([]string, 0, len(connections))
	for _, conn := range connections {
		parts = append(parts, strings.Join(conn.Pins, ",")+":"+conn.Net)
	}
	return strings.Join(parts, "|")
}

func firstRefdes(agg Aggregate) string {
	if len(agg.Refdes) > 0 {
		return agg.Refdes[0]
	}
	if len(agg.Orientations) > 0 && len(agg.Orientations[0].Refdes) > 0 {
		return agg.Orientations[0].Refdes[0]
	}
	return ""
}
