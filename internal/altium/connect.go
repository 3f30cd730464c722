package altium

import (
	"sort"
)

// device is one connectable schematic object with its precomputed geometry.
type device struct {
	rec   *Record
	verts []Point
	segs  []Segment
}

// globalText returns the off-page connection name for power ports and net
// labels, empty otherwise.
func (d *device) globalText() string {
	switch d.rec.Tag() {
	case TagPowerPort, TagNetLabel:
		return d.rec.Get("Text", "TEXT")
	}
	return ""
}

// connectables walks the forest and emits every wire, pin, net label, and
// power port. Pins are emitted only when they belong to the realized part of
// a multi-section component: OwnerPartId must equal the parent's
// CurrentPartId, with absence of either treated as a match.
func connectables(roots []*Record) []*device {
	var out []*device
	var walk func(r *Record)
	walk = func(r *Record) {
		switch r.Tag() {
		case TagWire, TagNetLabel, TagPowerPort:
			out = append(out, newDevice(r))
		case TagPin:
			if pinInCurrentPart(r) {
				out = append(out, newDevice(r))
			}
		}
		for _, child := range r.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return out
}

func pinInCurrentPart(pin *Record) bool {
	ownerPart := pin.Get("OwnerPartId", "OWNERPARTID")
	if ownerPart == "" || pin.Parent == nil {
		return true
	}
	current := pin.Parent.Get("CurrentPartId", "CURRENTPARTID")
	if current == "" {
		return true
	}
	return ownerPart == current
}

func newDevice(r *Record) *device {
	verts := vertices(r)
	return &device{rec: r, verts: verts, segs: segments(verts)}
}

// connected applies the two connection rules: a vertex of one device lying
// on a segment of the other, or a shared non-empty global name between power
// ports and net labels.
func connected(a, b *device) bool {
	for _, v := range a.verts {
		for _, s := range b.segs {
			if s.contains(v) {
				return true
			}
		}
	}
	for _, v := range b.verts {
		for _, s := range a.segs {
			if s.contains(v) {
				return true
			}
		}
	}
	if ta := a.globalText(); ta != "" && ta == b.globalText() {
		return true
	}
	return false
}

// unionFind is a disjoint-set forest with path compression and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}

// cellSize matches the coordinate scaling factor: one base unit per cell.
const cellSize = coordScale

type cell struct {
	X, Y int
}

// groupDevices partitions the devices into electrically connected sets.
//
// A grid spatial index bounds the pairwise connectivity checks to devices
// sharing a cell, an exact-point multimap unions vertex-coincident devices
// up front, and global-name buckets union off-page connections. Expected
// cost is O(n·k) for average cell occupancy k.
func groupDevices(devices []*device) [][]*device {
	uf := newUnionFind(len(devices))

	// Exact vertex coincidence.
	byPoint := make(map[Point][]int)
	for i, d := range devices {
		for _, v := range d.verts {
			byPoint[v] = append(byPoint[v], i)
		}
	}
	for _, ids := range byPoint {
		for _, id := range ids[1:] {
			uf.union(ids[0], id)
		}
	}

	// Grid index over segment bounding boxes.
	byCell := make(map[cell][]int)
	cellsOf := make([][]cell, len(devices))
	for i, d := range devices {
		seen := make(map[cell]bool)
		for _, s := range d.segs {
			x0, x1 := floorDiv(min(s.A.X, s.B.X), cellSize), floorDiv(max(s.A.X, s.B.X), cellSize)
			y0, y1 := floorDiv(min(s.A.Y, s.B.Y), cellSize), floorDiv(max(s.A.Y, s.B.Y), cellSize)
			for cx := x0; cx <= x1; cx++ {
				for cy := y0; cy <= y1; cy++ {
					c := cell{cx, cy}
					if !seen[c] {
						seen[c] = true
						cellsOf[i] = append(cellsOf[i], c)
						byCell[c] = append(byCell[c], i)
					}
				}
			}
		}
	}
	for i, d := range devices {
		candidates := make(map[int]bool)
		for _, c := range cellsOf[i] {
			for _, j := range byCell[c] {
				if j != i {
					candidates[j] = true
				}
			}
		}
		for j := range candidates {
			if uf.find(i) == uf.find(j) {
				continue
			}
			if connected(d, devices[j]) {
				uf.union(i, j)
			}
		}
	}

	// Off-page connections by shared name.
	byName := make(map[string][]int)
	for i, d := range devices {
		if text := d.globalText(); text != "" {
			byName[text] = append(byName[text], i)
		}
	}
	for _, ids := range byName {
		for _, id := range ids[1:] {
			uf.union(ids[0], id)
		}
	}

	// Each disjoint set becomes one net, members ordered by record index.
	sets := make(map[int][]*device)
	for i, d := range devices {
		root := uf.find(i)
		sets[root] = append(sets[root], d)
	}
	roots := make([]int, 0, len(sets))
	for root := range sets {
		roots = append(roots, root)
	}
	sort.Ints(roots)
	groups := make([][]*device, 0, len(sets))
	for _, root := range roots {
		members := sets[root]
		sort.Slice(members, func(a, b int) bool {
			return members[a].rec.Index < members[b].rec.Index
		})
		groups = append(groups, members)
	}
	return groups
}

// floorDiv is integer division rounding toward negative infinity, so that
// negative coordinates land in the correct grid cell.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
