package footer

import (
	"testing"

	"github.com/bpio-project/bpio/comm"
	"github.com/bpio-project/bpio/internal/bpwrite"
	"github.com/bpio-project/bpio/wire"
	"github.com/stretchr/testify/require"
)

// memReaderAt lets the test drive footer.Open against an in-memory fixture
// instead of a real file.
type memReaderAt struct{ data []byte }

func (m memReaderAt) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, m.data[off:])
	return n, nil
}

func buildSampleFile(t *testing.T, bigEndian bool) []byte {
	t.Helper()

	b := bpwrite.New(bigEndian)

	// Leading pad byte keeps every real PayloadOffset below non-zero: 0
	// collides with wire.NoPayloadOffset and would be misread as "no
	// payload offset recorded, recover it from a legacy header" by
	// anything that reads these blocks through the planner.
	_ = b.AppendPayload([]byte{0})

	tempOff := b.AppendPayload([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	nameOff := b.AppendPayload([]byte("writer-a\x00"))

	b.AppendPG(bpwrite.PGSpec{
		GroupName:     "S3D",
		IsColumnMajor: false,
		TimeIndexName: "time",
		TimeStep:      0,
		PGOffset:      0,
	})

	b.AppendVar(bpwrite.VarSpec{
		GroupName: "S3D",
		VarPath:   "/S3D/temperature",
		VarName:   "temperature",
		VarID:     1,
		Type:      wire.TypeDouble,
		Characteristics: []bpwrite.CharSpec{
			{
				Offset:        0,
				PayloadOffset: tempOff,
				Dims: []bpwrite.DimTriple{
					{Local: 1, Global: 0, Offset: 0}, // time axis
					{Local: 1, Global: 1, Offset: 0},
				},
				TimeStep: 0,
			},
		},
	})

	b.AppendVar(bpwrite.VarSpec{
		GroupName: "S3D",
		VarPath:   "/S3D/writer_name",
		VarName:   "writer_name",
		VarID:     2,
		Type:      wire.TypeString,
		Characteristics: []bpwrite.CharSpec{
			{Offset: 100, PayloadOffset: nameOff, TimeStep: 0},
		},
	})

	b.AppendInlineAttr(bpwrite.InlineAttrSpec{
		GroupName: "S3D",
		AttrPath:  "/S3D/units",
		AttrName:  "units",
		Type:      wire.TypeString,
		Value:     []byte("kelvin\x00"),
	})

	b.AppendRefAttr(bpwrite.RefAttrSpec{
		GroupName:  "S3D",
		AttrPath:   "/S3D/temperature_ref",
		AttrName:   "temperature_ref",
		Type:       wire.TypeDouble,
		RefVarID:   1,
		RefVarPath: "/S3D/temperature",
	})

	return b.Build()
}

func TestOpenParsesAllSections(t *testing.T) {
	for _, bigEndian := range []bool{false, true} {
		data := buildSampleFile(t, bigEndian)
		r := memReaderAt{data: data}

		catalogs, err := Open(r, int64(len(data)), comm.SingleProcess{})
		require.NoError(t, err, "bigEndian=%v", bigEndian)

		require.Equal(t, bigEndian, catalogs.Minifooter.FileIsBigEndian)
		require.Len(t, catalogs.PGs, 1)
		require.Equal(t, "S3D", catalogs.PGs[0].Name)
		require.False(t, catalogs.PGs[0].IsColumnMajor)

		require.Len(t, catalogs.Variables, 2)
		temp := catalogs.Variables[0]
		require.Equal(t, "/S3D/temperature", temp.VarPath)
		require.Equal(t, uint32(1), temp.VarID)
		require.Equal(t, wire.TypeDouble, temp.Type)
		require.Len(t, temp.Characteristics, 1)
		require.Len(t, temp.Characteristics[0].Dims, 2)
		require.True(t, temp.Characteristics[0].Dims[0].IsTimeAxis())

		str := catalogs.Variables[1]
		require.Equal(t, wire.TypeString, str.Type)

		require.Len(t, catalogs.Attributes, 2)
		units := catalogs.Attributes[0]
		require.True(t, units.Inline)
		require.Equal(t, []byte("kelvin\x00"), units.Value)

		ref := catalogs.Attributes[1]
		require.False(t, ref.Inline)
		require.Equal(t, uint32(1), ref.RefVarID)
		require.Equal(t, "/S3D/temperature", ref.RefVarPath)
	}
}

func TestOpenRejectsTooSmallFile(t *testing.T) {
	r := memReaderAt{data: make([]byte, 4)}
	_, err := Open(r, 4, comm.SingleProcess{})
	require.Error(t, err)
}

func TestParseVariablesRejectsZeroCharacteristics(t *testing.T) {
	b := bpwrite.New(false)
	// A payload byte keeps the pgs index offset non-zero, so the minifooter
	// is valid and the error comes from the variable index.
	_ = b.AppendPayload([]byte{0})
	b.AppendVar(bpwrite.VarSpec{
		GroupName:       "G",
		VarPath:         "/G/v",
		VarName:         "v",
		VarID:           1,
		Type:            wire.TypeInteger,
		Characteristics: nil,
	})

	data := b.Build()
	r := memReaderAt{data: data}

	_, err := Open(r, int64(len(data)), comm.SingleProcess{})
	require.Error(t, err)
}
