package dims

import (
	"testing"

	"github.com/bpio-project/bpio/catalog"
	"github.com/stretchr/testify/require"
)

func TestMaterializeScalarSingleBlock(t *testing.T) {
	m := Materialize(nil, RowMajor, 0, 0, 1)
	require.Equal(t, 0, m.NDim)
	require.Equal(t, -1, m.TimeDim)
}

func TestMaterializeScalarMultiBlockBecomesTimeSeries(t *testing.T) {
	m := Materialize(nil, RowMajor, 0, 3, 4)
	require.Equal(t, 1, m.NDim)
	require.Equal(t, []uint64{4}, m.Dims)
	require.Equal(t, 0, m.TimeDim)
}

func TestMaterializeLocalArray(t *testing.T) {
	triples := []catalog.DimTriple{
		{Local: 1, Global: 0, Offset: 0}, // time axis marker
		{Local: 10, Global: 0, Offset: 0},
		{Local: 20, Global: 0, Offset: 0},
	}

	m := Materialize(triples, RowMajor, 0, 5, 1)
	require.Equal(t, 3, m.NDim)
	require.Equal(t, 0, m.TimeDim)
	require.Equal(t, []uint64{6, 10, 20}, m.Dims)
}

func TestMaterializeGlobalArrayRowMajorTimeAxisFirst(t *testing.T) {
	triples := []catalog.DimTriple{
		{Local: 1, Global: 0, Offset: 0}, // time
		{Local: 10, Global: 100, Offset: 0},
		{Local: 10, Global: 100, Offset: 0},
	}

	m := Materialize(triples, RowMajor, 0, 9, 1)
	require.Equal(t, 3, m.NDim)
	require.Equal(t, 0, m.TimeDim)
	require.Equal(t, []uint64{10, 100, 100}, m.Dims)
	require.Empty(t, m.Warnings)
}

func TestMaterializeGlobalArrayStructuralMismatchWarns(t *testing.T) {
	// Column-major file expects the time axis last; put it first instead.
	triples := []catalog.DimTriple{
		{Local: 1, Global: 0, Offset: 0}, // time, unexpectedly first
		{Local: 10, Global: 100, Offset: 0},
	}

	m := Materialize(triples, ColumnMajor, 0, 9, 1)
	require.Len(t, m.Warnings, 1)
	require.Contains(t, m.Warnings[0], "time axis found at position 0")
}

func TestMaterializeGlobalArrayNoTimeAxis(t *testing.T) {
	triples := []catalog.DimTriple{
		{Local: 10, Global: 100, Offset: 0},
		{Local: 20, Global: 200, Offset: 0},
	}

	m := Materialize(triples, RowMajor, 0, 0, 1)
	require.Equal(t, -1, m.TimeDim)
	require.Equal(t, []uint64{100, 200}, m.Dims)
}

func TestReorderSameOrderIsNoop(t *testing.T) {
	m := Materialized{NDim: 2, Dims: []uint64{3, 4}, TimeDim: 0}
	got := Reorder(m, RowMajor, RowMajor)
	require.Equal(t, m, got)
}

func TestReorderReversesDimsAndRemapsTimeDim(t *testing.T) {
	m := Materialized{NDim: 3, Dims: []uint64{6, 10, 20}, TimeDim: 0}
	got := Reorder(m, RowMajor, ColumnMajor)

	require.Equal(t, []uint64{20, 10, 6}, got.Dims)
	require.Equal(t, 2, got.TimeDim)
}

func TestReorderScalarUnaffected(t *testing.T) {
	m := Materialized{NDim: 0, TimeDim: -1}
	got := Reorder(m, RowMajor, ColumnMajor)
	require.Equal(t, m, got)
}

func TestReverseU64(t *testing.T) {
	s := []uint64{1, 2, 3, 4, 5}
	reverseU64(s)
	require.Equal(t, []uint64{5, 4, 3, 2, 1}, s)

	even := []uint64{1, 2, 3, 4}
	reverseU64(even)
	require.Equal(t, []uint64{4, 3, 2, 1}, even)
}

func TestIsTimeAxis(t *testing.T) {
	require.True(t, catalog.DimTriple{Local: 1, Global: 0}.IsTimeAxis())
	require.False(t, catalog.DimTriple{Local: 1, Global: 1}.IsTimeAxis())
	require.False(t, catalog.DimTriple{Local: 2, Global: 0}.IsTimeAxis())
}
