package netlist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the universal model:
// - Connect maintains both indexes and the symmetry invariant
// - Refdes and pin identifiers canonicalize to upper case
// - Empty net names normalize to NC; NC never enters the net index
// - PinEntry JSON round-trips both the bare-string and {name, net} forms
// - Component JSON renders a null MPN when absent
// - Merge joins sheets by net name and renumbers colliding unnamed nets
// - Validate detects broken symmetry

func TestConnect_SymmetryInvariant(t *testing.T) {
	t.Parallel()

	model := New()
	model.Connect("SIG", "R1", "1", "")
	model.Connect("GND_SENSE", "r1", "2", "")
	model.Connect("SIG", "U1", "A1", "VIN")

	require.NoError(t, model.Validate())

	assert.Equal(t, []string{"1"}, model.Nets["SIG"]["R1"])
	assert.Equal(t, []string{"A1"}, model.Nets["SIG"]["U1"])
	assert.Equal(t, "SIG", model.Components["R1"].Pins["1"].Net)
	assert.Equal(t, "GND_SENSE", model.Components["R1"].Pins["2"].Net)

	// Logical pin name preserved when it differs from the identifier.
	assert.Equal(t, "VIN", model.Components["U1"].Pins["A1"].Name)
}

func TestConnect_CanonicalizesIdentifiers(t *testing.T) {
	t.Parallel()

	model := New()
	model.Connect("SIG", "u1", "a1", "")
	model.Connect("SIG", "U1", "A1", "")

	// Same pin both times: no duplicates.
	assert.Equal(t, []string{"A1"}, model.Nets["SIG"]["U1"])
	assert.Len(t, model.Components, 1)
}

func TestConnect_EmptyNetBecomesNC(t *testing.T) {
	t.Parallel()

	model := New()
	model.Connect("", "U1", "7", "")

	assert.Equal(t, NC, model.Components["U1"].Pins["7"].Net)
	// The sentinel never appears as a net index key.
	assert.NotContains(t, model.Nets, NC)
	require.NoError(t, model.Validate())
}

func TestPinEntry_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	bare := PinEntry{Net: "SIG"}
	data, err := json.Marshal(bare)
	require.NoError(t, err)
	assert.Equal(t, `"SIG"`, string(data))

	named := PinEntry{Name: "VIN", Net: "SIG"}
	data, err = json.Marshal(named)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"VIN","net":"SIG"}`, string(data))

	var decoded PinEntry
	require.NoError(t, json.Unmarshal([]byte(`"SIG"`), &decoded))
	assert.Equal(t, bare, decoded)
	require.NoError(t, json.Unmarshal([]byte(`{"name":"VIN","net":"SIG"}`), &decoded))
	assert.Equal(t, named, decoded)
}

func TestComponent_JSONNullMPN(t *testing.T) {
	t.Parallel()

	comp := &Component{Pins: map[string]PinEntry{"1": {Net: "SIG"}}}
	data, err := json.Marshal(comp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mpn":null,"pins":{"1":"SIG"}}`, string(data))

	comp.SetMPN("  LM317  ")
	data, err = json.Marshal(comp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mpn":"LM317","pins":{"1":"SIG"}}`, string(data))
}

func TestSetMPN_WhitespaceOnlyIsAbsent(t *testing.T) {
	t.Parallel()

	comp := &Component{}
	comp.SetMPN("   ")
	assert.Empty(t, comp.MPN)
}

func TestMerge_SharedNetNamesJoinSheets(t *testing.T) {
	t.Parallel()

	sheet1 := New()
	sheet1.Connect("SCL", "U1", "3", "")
	sheet2 := New()
	sheet2.Connect("SCL", "R5", "1", "")
	sheet2.Connect("+3V3", "R5", "2", "")

	sheet1.Merge(sheet2)
	require.NoError(t, sheet1.Validate())

	// Off-page connection: both endpoints now share SCL.
	assert.Len(t, sheet1.Nets["SCL"], 2)
	assert.Equal(t, []string{"1"}, sheet1.Nets["SCL"]["R5"])
}

func TestMerge_RenumbersCollidingUnnamedNets(t *testing.T) {
	t.Parallel()

	sheet1 := New()
	sheet1.Connect("UnnamedNet0", "R1", "1", "")
	sheet1.Connect("UnnamedNet0", "R2", "1", "")
	sheet2 := New()
	sheet2.Connect("UnnamedNet0", "R3", "1", "")
	sheet2.Connect("UnnamedNet0", "R4", "1", "")

	sheet1.Merge(sheet2)
	require.NoError(t, sheet1.Validate())

	// Distinct anonymous nets must not fuse just because both sheets
	// started numbering at zero.
	assert.Len(t, sheet1.Nets["UnnamedNet0"], 2)
	assert.Contains(t, sheet1.Nets, "UnnamedNet1")
	assert.Len(t, sheet1.Nets["UnnamedNet1"], 2)
}

func TestValidate_DetectsBrokenSymmetry(t *testing.T) {
	t.Parallel()

	model := New()
	model.Connect("SIG", "R1", "1", "")
	// Corrupt the component side.
	model.Components["R1"].Pins["1"] = PinEntry{Net: "OTHER"}
	assert.Error(t, model.Validate())
}

func TestResolvePin_CaseInsensitive(t *testing.T) {
	t.Parallel()

	model := New()
	model.Connect("SIG", "U1", "A1", "")

	refdes, pin, entry, ok := model.ResolvePin("u1", "a1")
	require.True(t, ok)
	assert.Equal(t, "U1", refdes)
	assert.Equal(t, "A1", pin)
	assert.Equal(t, "SIG", entry.Net)

	_, _, _, ok = model.ResolvePin("U2", "1")
	assert.False(t, ok)
}

func TestNetlist_JSONRoundTripIsStructurallyIdentical(t *testing.T) {
	t.Parallel()

	model := New()
	model.Connect("SIG", "R1", "1", "")
	model.Connect("OUT", "R1", "2", "")
	model.Connect("OUT", "U1", "B2", "EN")
	model.Components["U1"].SetMPN("IC-123")
	model.Components["U1"].Description = "regulator"

	data, err := json.Marshal(model)
	require.NoError(t, err)

	var decoded Netlist
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, model.Nets, decoded.Nets)
	assert.Equal(t, model.Components, decoded.Components)
}
