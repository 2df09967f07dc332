package bpio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/internal/bpwrite"
	"github.com/bpio-project/bpio/wire"
	"github.com/stretchr/testify/require"
)

func writeSampleFile(t *testing.T) string {
	t.Helper()

	b := bpwrite.New(false)

	// A leading payload byte keeps the pgs index offset non-zero;
	// wire.ParseMinifooter rejects a zero pgs index offset as invalid.
	_ = b.AppendPayload([]byte{0xaa})
	nameOff := b.AppendPayload(wire.AppendString(nil, "writer-a", endian.GetLittleEndianEngine()))

	b.AppendPG(bpwrite.PGSpec{GroupName: "S3D", TimeStep: 0, PGOffset: 0})

	b.AppendVar(bpwrite.VarSpec{
		GroupName: "S3D", VarPath: "/S3D/count", VarName: "count",
		VarID: 1, Type: wire.TypeInteger,
		Characteristics: []bpwrite.CharSpec{
			{Offset: 0, Value: []byte{7, 0, 0, 0}, TimeStep: 0},
		},
	})

	b.AppendVar(bpwrite.VarSpec{
		GroupName: "S3D", VarPath: "/S3D/writer_name", VarName: "writer_name",
		VarID: 2, Type: wire.TypeString,
		Characteristics: []bpwrite.CharSpec{
			{Offset: 1, PayloadOffset: nameOff, TimeStep: 0},
		},
	})

	b.AppendInlineAttr(bpwrite.InlineAttrSpec{
		GroupName: "S3D", AttrPath: "/S3D/units", AttrName: "units",
		Type: wire.TypeString, Value: []byte("kelvin\x00"),
	})

	b.AppendRefAttr(bpwrite.RefAttrSpec{
		GroupName: "S3D", AttrPath: "/S3D/count_ref", AttrName: "count_ref",
		Type: wire.TypeInteger, RefVarID: 1, RefVarPath: "/S3D/count",
	})

	data := b.Build()

	path := filepath.Join(t.TempDir(), "sample.bp")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func TestOpenCloseLifecycle(t *testing.T) {
	path := writeSampleFile(t)

	f, err := Open(path)
	require.NoError(t, err)
	require.Len(t, f.groupOrder, 1)
	require.Equal(t, "S3D", f.groupOrder[0])

	require.NoError(t, f.Close())
	require.NoError(t, f.Close()) // idempotent
}

func TestOpenGroupAndOpenGroupByID(t *testing.T) {
	path := writeSampleFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	g, err := f.OpenGroup("S3D")
	require.NoError(t, err)
	require.NotNil(t, g)

	_, err = f.OpenGroup("missing")
	require.ErrorIs(t, err, errs.ErrInvalidGroup)

	byID, err := f.OpenGroupByID(0)
	require.NoError(t, err)
	require.NotNil(t, byID)

	_, err = f.OpenGroupByID(5)
	require.Error(t, err)
}

func TestInquireScalarVariable(t *testing.T) {
	path := writeSampleFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	g, err := f.OpenGroup("S3D")
	require.NoError(t, err)

	desc, err := g.Inquire("/S3D/count")
	require.NoError(t, err)
	require.Equal(t, uint32(1), desc.VarID)
	require.Equal(t, 0, desc.NDim)
	require.Equal(t, -1, desc.TimeDim)
	require.Equal(t, []byte{7, 0, 0, 0}, desc.Value)

	_, err = g.Inquire("nope")
	require.ErrorIs(t, err, errs.ErrInvalidVarName)

	byID, err := g.InquireByID(1)
	require.NoError(t, err)
	require.Equal(t, "count", byID.VarName)

	_, err = g.InquireByID(99)
	require.ErrorIs(t, err, errs.ErrInvalidVarID)
}

func TestReadScalarVariable(t *testing.T) {
	path := writeSampleFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	g, err := f.OpenGroup("S3D")
	require.NoError(t, err)

	dest := make([]byte, 4)
	n, err := g.Read("/S3D/count", nil, nil, dest)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{7, 0, 0, 0}, dest)

	dest2 := make([]byte, 4)
	n, err = g.ReadByID(1, nil, nil, dest2)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, dest, dest2)

	_, err = g.Read("nope", nil, nil, dest)
	require.ErrorIs(t, err, errs.ErrInvalidVarName)
}

func TestReadStringVariable(t *testing.T) {
	path := writeSampleFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	g, err := f.OpenGroup("S3D")
	require.NoError(t, err)

	dest := make([]byte, len("writer-a"))
	n, err := g.Read("/S3D/writer_name", nil, nil, dest)
	require.NoError(t, err)
	require.Equal(t, "writer-a", string(dest[:n]))
}

func TestGetAttributeInlineAndRef(t *testing.T) {
	path := writeSampleFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	g, err := f.OpenGroup("S3D")
	require.NoError(t, err)

	typ, size, value, err := g.GetAttribute("/S3D/units")
	require.NoError(t, err)
	require.Equal(t, wire.TypeString, typ)
	require.Equal(t, len("kelvin\x00"), size)
	require.Equal(t, []byte("kelvin\x00"), value)

	typ, size, value, err = g.GetAttribute("/S3D/count_ref")
	require.NoError(t, err)
	require.Equal(t, wire.TypeInteger, typ)
	require.Equal(t, 4, size)
	require.Equal(t, []byte{7, 0, 0, 0}, value)

	_, _, _, err = g.GetAttribute("nope")
	require.ErrorIs(t, err, errs.ErrInvalidAttrName)

	// units was indexed first (discovery order), count_ref second.
	typ, size, value, err = g.GetAttributeByID(0)
	require.NoError(t, err)
	require.Equal(t, wire.TypeString, typ)
	require.Equal(t, len("kelvin\x00"), size)
	require.Equal(t, []byte("kelvin\x00"), value)

	_, _, _, err = g.GetAttributeByID(99)
	require.ErrorIs(t, err, errs.ErrInvalidAttrID)
}

func TestGroupCloseRejectsFurtherCalls(t *testing.T) {
	path := writeSampleFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	g, err := f.OpenGroup("S3D")
	require.NoError(t, err)
	require.NoError(t, g.Close())

	_, err = g.Inquire("/S3D/count")
	require.ErrorIs(t, err, errs.ErrClosed)

	_, _, _, err = g.GetAttribute("/S3D/units")
	require.ErrorIs(t, err, errs.ErrClosed)
}

func TestDescribeSummarizesFileAndGroup(t *testing.T) {
	path := writeSampleFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	fileSummary := f.Describe()
	require.Contains(t, fileSummary, "1 group(s)")
	require.Contains(t, fileSummary, "S3D")
	require.Contains(t, fileSummary, "2 variable(s)")
	require.Contains(t, fileSummary, "2 attribute(s)")

	g, err := f.OpenGroup("S3D")
	require.NoError(t, err)

	groupSummary := g.Describe()
	require.Contains(t, groupSummary, "count")
	require.Contains(t, groupSummary, "writer_name")
	require.Contains(t, groupSummary, "units")
	require.Contains(t, groupSummary, "count_ref")
}

func TestOpenRejectsMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.bp"))
	require.ErrorIs(t, err, errs.ErrFileOpen)
}
