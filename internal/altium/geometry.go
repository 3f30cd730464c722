package altium

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
)

// coordScale converts schematic base units to the integer coordinate space
// the connectivity analysis runs in. Fractional attribute parts are already
// expressed in the scaled space.
const coordScale = 10000

// Point is a scaled schematic coordinate.
type Point struct {
	X, Y int
}

// Segment is a line segment between two points; a single-point device
// degenerates to A == B.
type Segment struct {
	A, B Point
}

// contains reports whether p lies on the segment, using axis-aligned bound
// checks on both axes (the connectivity test the schematic format implies:
// wires and pins run orthogonally).
func (s Segment) contains(p Point) bool {
	return min(s.A.X, s.B.X) <= p.X && p.X <= max(s.A.X, s.B.X) &&
		min(s.A.Y, s.B.Y) <= p.Y && p.Y <= max(s.A.Y, s.B.Y)
}

// coord reads a scaled coordinate: round(base*10000 + frac). Both the
// mixed-case attribute spelling and its all-caps alias are accepted.
func coord(r *Record, baseKeys, fracKeys []string) int {
	base := 0.0
	if v := r.Get(baseKeys...); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			base = f
		}
	}
	frac := 0.0
	if v := r.Get(fracKeys...); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			frac = f
		}
	}
	return int(math.Round(base*coordScale + frac))
}

func locationX(r *Record) int {
	return coord(r, []string{"Location.X", "LOCATION.X"}, []string{"Location.X_Frac", "LOCATION.X_FRAC"})
}

func locationY(r *Record) int {
	return coord(r, []string{"Location.Y", "LOCATION.Y"}, []string{"Location.Y_Frac", "LOCATION.Y_FRAC"})
}

func pinLength(r *Record) int {
	return coord(r, []string{"PinLength", "PINLENGTH"}, []string{"PinLength_Frac", "PINLENGTH_FRAC"})
}

var wireXKeyRe = regexp.MustCompile(`^X(\d+)$`)

// vertices computes the device's coordinate list.
//
// Pins get two vertices: the origin and the endpoint the pin extends to,
// with the direction encoded in the low two bits of PinConglomerate as
// quarter turns. Wires carry N numbered vertex pairs. Everything else is a
// single point at its location.
func vertices(r *Record) []Point {
	switch r.Tag() {
	case TagPin:
		origin := Point{locationX(r), locationY(r)}
		length := pinLength(r)
		rotation := 0
		if v := r.Get("PinConglomerate", "PINCONGLOMERATE"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				rotation = n & 0x03
			}
		}
		end := origin
		switch rotation {
		case 0:
			end.X += length
		case 1:
			end.Y += length
		case 2:
			end.X -= length
		case 3:
			end.Y -= length
		}
		return []Point{origin, end}

	case TagWire:
		var indices []int
		for key := range r.Attrs {
			m := wireXKeyRe.FindStringSubmatch(key)
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			indices = append(indices, n)
		}
		sort.Ints(indices)
		points := make([]Point, 0, len(indices))
		for _, n := range indices {
			x := coord(r,
				[]string{fmt.Sprintf("X%d", n)},
				[]string{fmt.Sprintf("X%d_Frac", n), fmt.Sprintf("X%d_FRAC", n)})
			y := coord(r,
				[]string{fmt.Sprintf("Y%d", n)},
				[]string{fmt.Sprintf("Y%d_Frac", n), fmt.Sprintf("Y%d_FRAC", n)})
			points = append(points, Point{x, y})
		}
		return points

	default:
		return []Point{{locationX(r), locationY(r)}}
	}
}

// segments converts a vertex list to the segments connectivity tests run
// against: consecutive pairs for wires, origin-to-endpoint for pins, and a
// degenerate point segment for single-vertex devices.
func segments(verts []Point) []Segment {
	if len(verts) == 0 {
		return nil
	}
	if len(verts) == 1 {
		return []Segment{{verts[0], verts[0]}}
	}
	segs := make([]Segment, 0, len(verts)-1)
	for i := 0; i+1 < len(verts); i++ {
		segs = append(segs, Segment{verts[i], verts[i+1]})
	}
	return segs
}
