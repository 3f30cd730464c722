package netlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareNatural_NumericRuns(t *testing.T) {
	t.Parallel()

	// Numeric runs compare as integers: U2 sorts before U10.
	assert.Negative(t, CompareNatural("U2", "U10"))
	assert.Positive(t, CompareNatural("U10", "U2"))
	assert.Zero(t, CompareNatural("U7", "U7"))
}

func TestCompareNatural_CaseInsensitiveText(t *testing.T) {
	t.Parallel()

	assert.Zero(t, CompareNatural("r1", "R1"))
	assert.Negative(t, CompareNatural("C1", "r1"))
}

func TestCompareNatural_ShorterPrefixFirst(t *testing.T) {
	t.Parallel()

	assert.Negative(t, CompareNatural("A1", "A1B"))
	assert.Positive(t, CompareNatural("A1B", "A1"))
}

func TestCompareNatural_LeadingZeros(t *testing.T) {
	t.Parallel()

	// 007 and 7 are numerically equal; longer digit strings win only on value.
	assert.Zero(t, CompareNatural("U007", "U7"))
	assert.Negative(t, CompareNatural("U007", "U8"))
	assert.Negative(t, CompareNatural("U9", "U010"))
}

func TestSortNatural(t *testing.T) {
	t.Parallel()

	items := []string{"U10", "U2", "R1", "A1", "U1", "C10", "C2"}
	SortNatural(items)
	assert.Equal(t, []string{"A1", "C2", "C10", "R1", "U1", "U2", "U10"}, items)
}

func TestSortNatural_MixedAlphanumericPins(t *testing.T) {
	t.Parallel()

	// BGA pin identifiers mix letters and digits.
	items := []string{"B2", "A10", "A2", "B1", "A1"}
	SortNatural(items)
	assert.Equal(t, []string{"A1", "A2", "A10", "B1", "B2"}, items)
}
