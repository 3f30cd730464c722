package trace

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for the topology fingerprint:
// - Empty input produces the all-zero identifier
// - Component ordering does not affect the value
// - Connection and pin ordering do not affect the value
// - Different topologies produce different values

func TestFingerprint_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0000000000000000", Fingerprint(nil))
	assert.Equal(t, "0000000000000000", Fingerprint([]ComponentResult{}))
}

func TestFingerprint_OrderIndependence(t *testing.T) {
	t.Parallel()

	r1 := ComponentResult{Refdes: "R1", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("B", "2")}}
	r2 := ComponentResult{Refdes: "R2", MPN: "20k", Connections: []Connection{conn("B", "1"), conn("C", "2")}}

	a := Fingerprint([]ComponentResult{r1, r2})
	b := Fingerprint([]ComponentResult{r2, r1})
	assert.Equal(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), a)
}

func TestFingerprint_ConnectionOrderIndependence(t *testing.T) {
	t.Parallel()

	forward := ComponentResult{Refdes: "R1", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("B", "2")}}
	reversed := ComponentResult{Refdes: "R1", MPN: "10k", Connections: []Connection{conn("B", "2"), conn("A", "1")}}
	assert.Equal(t, Fingerprint([]ComponentResult{forward}), Fingerprint([]ComponentResult{reversed}))

	pins := ComponentResult{Refdes: "U1", MPN: "IC", Connections: []Connection{conn("A", "2", "1", "10")}}
	sorted := ComponentResult{Refdes: "U1", MPN: "IC", Connections: []Connection{conn("A", "1", "2", "10")}}
	assert.Equal(t, Fingerprint([]ComponentResult{pins}), Fingerprint([]ComponentResult{sorted}))
}

func TestFingerprint_DistinguishesTopologies(t *testing.T) {
	t.Parallel()

	a := Fingerprint([]ComponentResult{{Refdes: "R1", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("B", "2")}}})
	b := Fingerprint([]ComponentResult{{Refdes: "R1", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("C", "2")}}})
	c := Fingerprint([]ComponentResult{{Refdes: "R1", MPN: "22k", Connections: []Connection{conn("A", "1"), conn("B", "2")}}})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}
