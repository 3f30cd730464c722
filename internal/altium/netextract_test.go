package altium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netlens/netlens/internal/netlist"
)

// Test Plan for hierarchy and net extraction:
// - Wires, pins, labels, and power ports group into nets by geometry
// - Identical power-port text unions arbitrarily distant devices
// - Net naming priority: label text, then Net<refdes>_<pin>
// - Single-pin nets are suppressed; their pins become NC
// - Component extraction: MPN, value, =Value comment indirection
// - Multi-part components only realize pins of the current part
// - An empty schematic decodes to an empty model without error

// The synthetic schematic wired below:
//
//	R1 pin 1 (ends at 13,10) ── wire (13,10)-(13,20) ── label SIG_IN
//	R1 pin 2 (ends at 17,10) ── power port +3V3 at (17,10)
//	U1 pin 3 (at 500,500)    ── power port +3V3 at (500,500)
func schematicStream() []byte {
	return encodeStream(
		"HEADER=Protel for Windows - Schematic Capture Binary File Version 5.0",
		"RECORD=1|CurrentPartId=1",
		"RECORD=34|OwnerIndex=0|Text=R1",
		"RECORD=41|OwnerIndex=0|Name=Manufacturer Part Number|Text=RC0402-10K",
		"RECORD=41|OwnerIndex=0|Name=Value|Text=10k",
		"RECORD=41|OwnerIndex=0|Name=Comment|Text==Value",
		"RECORD=2|OwnerIndex=0|OwnerPartId=1|Designator=1|Location.X=10|Location.Y=10|PinLength=3|PinConglomerate=0",
		"RECORD=2|OwnerIndex=0|OwnerPartId=1|Designator=2|Location.X=20|Location.Y=10|PinLength=3|PinConglomerate=2",
		"RECORD=27|X1=13|Y1=10|X2=13|Y2=20",
		"RECORD=25|Location.X=13|Location.Y=15|Text=SIG_IN",
		"RECORD=17|Location.X=17|Location.Y=10|Text=+3V3",
		"RECORD=17|Location.X=500|Location.Y=500|Text=+3V3",
		"RECORD=1|CurrentPartId=1",
		"RECORD=34|OwnerIndex=11|Text=U1",
		"RECORD=41|OwnerIndex=11|Name=Manufacturer Part Number|Text=REG-LDO",
		"RECORD=2|OwnerIndex=11|OwnerPartId=1|Designator=3|Name=VIN|Location.X=500|Location.Y=500|PinLength=0|PinConglomerate=0",
	)
}

func TestDecode_SyntheticSchematic(t *testing.T) {
	t.Parallel()

	model, err := Decode(schematicStream())
	require.NoError(t, err)
	require.NoError(t, model.Validate())

	// Wire + label name the net; the pin rides along.
	require.Contains(t, model.Nets, "SIG_IN")
	assert.Equal(t, []string{"1"}, model.Nets["SIG_IN"]["R1"])

	// Distant power ports with identical text union into one net.
	require.Contains(t, model.Nets, "+3V3")
	assert.Equal(t, []string{"2"}, model.Nets["+3V3"]["R1"])
	assert.Equal(t, []string{"3"}, model.Nets["+3V3"]["U1"])

	// Component properties.
	r1 := model.Components["R1"]
	require.NotNil(t, r1)
	assert.Equal(t, "RC0402-10K", r1.MPN)
	assert.Equal(t, "10k", r1.Value)
	// Comment resolved via =Value indirection equals the value: dropped.
	assert.Empty(t, r1.Comment)

	// Pin logical name survives onto the universal model.
	u1 := model.Components["U1"]
	require.NotNil(t, u1)
	assert.Equal(t, "VIN", u1.Pins["3"].Name)
	assert.Equal(t, "+3V3", u1.Pins["3"].Net)
}

func TestDecode_EmptySchematic(t *testing.T) {
	t.Parallel()

	model, err := Decode(encodeStream("HEADER=Protel for Windows"))
	require.NoError(t, err)
	assert.Empty(t, model.Nets)
	assert.Empty(t, model.Components)
}

func TestDecode_SinglePinNetSuppressed(t *testing.T) {
	t.Parallel()

	// A lone pin touching nothing: its net carries no information.
	model, err := Decode(encodeStream(
		"RECORD=1|CurrentPartId=1",
		"RECORD=34|OwnerIndex=0|Text=U1",
		"RECORD=2|OwnerIndex=0|OwnerPartId=1|Designator=7|Location.X=900|Location.Y=900|PinLength=1|PinConglomerate=0",
	))
	require.NoError(t, err)

	assert.Empty(t, model.Nets)
	assert.Equal(t, netlist.NC, model.Components["U1"].Pins["7"].Net)
}

func TestDecode_MultiPartPinGating(t *testing.T) {
	t.Parallel()

	// Pin of part 2 on a component realized as part 1 never connects.
	model, err := Decode(encodeStream(
		"RECORD=1|CurrentPartId=1",
		"RECORD=34|OwnerIndex=0|Text=U1",
		"RECORD=2|OwnerIndex=0|OwnerPartId=1|Designator=1|Location.X=10|Location.Y=10|PinLength=2|PinConglomerate=0",
		"RECORD=2|OwnerIndex=0|OwnerPartId=2|Designator=8|Location.X=10|Location.Y=10|PinLength=2|PinConglomerate=0",
		"RECORD=17|Location.X=12|Location.Y=10|Text=VCC_INT",
	))
	require.NoError(t, err)

	require.Contains(t, model.Nets, "VCC_INT")
	assert.Equal(t, []string{"1"}, model.Nets["VCC_INT"]["U1"])
	assert.NotContains(t, model.Components["U1"].Pins, "8")
}

func TestDecode_UnnamedNet(t *testing.T) {
	t.Parallel()

	// Two pins joined by a wire with no label or port: the net gets the
	// smallest (refdes, pin) name.
	model, err := Decode(encodeStream(
		"RECORD=1|CurrentPartId=1",
		"RECORD=34|OwnerIndex=0|Text=R5",
		"RECORD=2|OwnerIndex=0|OwnerPartId=1|Designator=2|Location.X=10|Location.Y=10|PinLength=2|PinConglomerate=0",
		"RECORD=1|CurrentPartId=1",
		"RECORD=34|OwnerIndex=3|Text=R4",
		"RECORD=2|OwnerIndex=3|OwnerPartId=1|Designator=1|Location.X=14|Location.Y=10|PinLength=2|PinConglomerate=2",
	))
	require.NoError(t, err)

	// Pin endpoints meet at (12,10): NetR4_1 beats NetR5_2 lexicographically.
	require.Contains(t, model.Nets, "NetR4_1")
	assert.Equal(t, []string{"1"}, model.Nets["NetR4_1"]["R4"])
	assert.Equal(t, []string{"2"}, model.Nets["NetR4_1"]["R5"])
}

func TestDecode_CommentIndirectionKept(t *testing.T) {
	t.Parallel()

	// Comment resolving to a parameter that differs from Value is kept.
	model, err := Decode(encodeStream(
		"RECORD=1|CurrentPartId=1",
		"RECORD=34|OwnerIndex=0|Text=C1",
		"RECORD=41|OwnerIndex=0|Name=Value|Text=100n",
		"RECORD=41|OwnerIndex=0|Name=Rating|Text=16V X7R",
		"RECORD=41|OwnerIndex=0|Name=Comment|Text==Rating",
		"RECORD=2|OwnerIndex=0|OwnerPartId=1|Designator=1|Location.X=10|Location.Y=10|PinLength=1|PinConglomerate=0",
		"RECORD=2|OwnerIndex=0|OwnerPartId=1|Designator=2|Location.X=10|Location.Y=20|PinLength=1|PinConglomerate=0",
	))
	require.NoError(t, err)

	c1 := model.Components["C1"]
	require.NotNil(t, c1)
	assert.Equal(t, "16V X7R", c1.Comment)
	assert.Equal(t, "100n", c1.Value)
}

func TestDecode_DanglingCommentIndirectionDropped(t *testing.T) {
	t.Parallel()

	model, err := Decode(encodeStream(
		"RECORD=1|CurrentPartId=1",
		"RECORD=34|OwnerIndex=0|Text=C2",
		"RECORD=41|OwnerIndex=0|Name=Comment|Text==Nothing",
	))
	require.NoError(t, err)
	assert.Empty(t, model.Components["C2"].Comment)
}

func TestVertices_PinRotation(t *testing.T) {
	t.Parallel()

	pin := func(conglomerate string) *Record {
		return &Record{Attrs: map[string]string{
			"RECORD":          "2",
			"Location.X":      "10",
			"Location.Y":      "10",
			"PinLength":       "3",
			"PinConglomerate": conglomerate,
		}}
	}

	// Low two bits encode quarter turns.
	assert.Equal(t, []Point{{100000, 100000}, {130000, 100000}}, vertices(pin("0")))
	assert.Equal(t, []Point{{100000, 100000}, {100000, 130000}}, vertices(pin("1")))
	assert.Equal(t, []Point{{100000, 100000}, {70000, 100000}}, vertices(pin("2")))
	assert.Equal(t, []Point{{100000, 100000}, {100000, 70000}}, vertices(pin("3")))
	// Higher conglomerate bits are display flags, not rotation.
	assert.Equal(t, []Point{{100000, 100000}, {100000, 130000}}, vertices(pin("33")))
}

func TestVertices_FractionalCoordinates(t *testing.T) {
	t.Parallel()

	label := &Record{Attrs: map[string]string{
		"RECORD":          "25",
		"Location.X":      "10",
		"Location.X_Frac": "5000",
		"Location.Y":      "-3",
	}}
	assert.Equal(t, []Point{{105000, -30000}}, vertices(label))
}

func TestVertices_WireVertexOrder(t *testing.T) {
	t.Parallel()

	wire := &Record{Attrs: map[string]string{
		"RECORD": "27",
		"X2":     "5", "Y2": "5",
		"X1": "0", "Y1": "0",
		"X10": "9", "Y10": "9",
	}}
	assert.Equal(t, []Point{{0, 0}, {50000, 50000}, {90000, 90000}}, vertices(wire))
}
