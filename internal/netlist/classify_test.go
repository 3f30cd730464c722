package netlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGroundNet(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"GND", "gnd", "VSS", "AGND", "DGND", "PGND", "SGND", "CGND"} {
		assert.True(t, IsGroundNet(name), name)
	}
	for _, name := range []string{"GND1", "AGND_SENSE", "SIG", "VCC", ""} {
		assert.False(t, IsGroundNet(name), name)
	}
}

func TestIsPowerNet(t *testing.T) {
	t.Parallel()

	powered := []string{
		"VCC", "VCC_3V3", "VDD", "VDDIO", "VIN", "VOUT_5V", "VBAT", "VBUS", "VSYS",
		"PP3V3", "PN5V", "LD_PP1V8", "LD_PN12V", "PWR_MAIN", "RAIL_CORE",
		"3V3", "5V", "+5V", "-12V", "+VBATT",
	}
	for _, name := range powered {
		assert.True(t, IsPowerNet(name), name)
	}

	unpowered := []string{"SIG", "GND", "SDA", "RESET_N", "+", "-", "CLK_24M"}
	for _, name := range unpowered {
		assert.False(t, IsPowerNet(name), name)
	}
}

func TestIsStopNet(t *testing.T) {
	t.Parallel()

	assert.True(t, IsStopNet("GND"))
	assert.True(t, IsStopNet("+3V3"))
	assert.False(t, IsStopNet("SDA"))
}

func TestIsPassive(t *testing.T) {
	t.Parallel()

	for _, refdes := range []string{"R1", "r22", "RS5", "FR3", "L1", "C47", "FB2"} {
		assert.True(t, IsPassive(refdes), refdes)
	}
	for _, refdes := range []string{"U1", "Q3", "D2", "J1", "T1", "X1"} {
		assert.False(t, IsPassive(refdes), refdes)
	}
}

func TestIsValidRefdes(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"U1", "r10", "FB_2", "C3"} {
		assert.True(t, IsValidRefdes(s), s)
	}
	// Instance paths and other junk must be filtered during decoding.
	for _, s := range []string{"@top.u1", "X.Y", "U1:A", "U1(2)", "1U", "", "_R1"} {
		assert.False(t, IsValidRefdes(s), s)
	}
}

func TestIsDNS(t *testing.T) {
	t.Parallel()

	cases := []struct {
		comp *Component
		want bool
	}{
		{&Component{MPN: "RES-DNP-0402"}, true},
		{&Component{Description: "10k resistor, dns"}, true},
		{&Component{Comment: "Do Not Stuff"}, true},
		{&Component{Description: "do not populate for rev B"}, true},
		{&Component{Comment: "NOT POPULATED"}, true},
		{&Component{Description: "no pop"}, true},
		{&Component{MPN: "DNI"}, true},
		{&Component{MPN: "CRCW04021K00"}, false},
		{&Component{Description: "dnsmasq controller"}, false}, // no word boundary
		{nil, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsDNS(tc.comp))
	}
}
