// Package dims materializes a variable's caller-facing shape from its raw
// characteristics (§4.6): detecting the time axis, splicing it into the
// dimension list, and reversing order when the caller's array-order
// convention differs from the file's.
//
// Grounded on the reference reader's common_read_get_dimensions (and its
// companion common_read_get_dimensioncharacteristics / swap_order), ported
// faithfully rather than simplified: the structural-mismatch case that
// function only warns about is reproduced here as a non-fatal Warning,
// resolving spec.md §9 open question (b) in favor of "warn, don't fail"
// (see DESIGN.md).
package dims

import (
	"fmt"

	"github.com/bpio-project/bpio/catalog"
)

// Order is the array-ordering convention of a file or a caller.
type Order int

const (
	RowMajor    Order = iota // C order: fastest-changing axis last
	ColumnMajor              // Fortran order: fastest-changing axis first
)

func (o Order) String() string {
	if o == ColumnMajor {
		return "column-major"
	}

	return "row-major"
}

func orderOf(isColumnMajor bool) Order {
	if isColumnMajor {
		return ColumnMajor
	}

	return RowMajor
}

// Materialized is the §4.6 output: (ndim, dims, timedim) plus any
// structural warnings observed while deriving them.
type Materialized struct {
	NDim     int
	Dims     []uint64
	TimeDim  int // index into Dims, or -1
	Warnings []string
}

// Materialize computes a variable's shape in fileOrder (the order the file
// was written in), given the representative characteristic (any block's
// dims describe the same logical shape) and the file's observed time-step
// range. It does not yet reverse for the caller's order — call Reorder for
// that, mirroring the reference reader's two-step
// get_dimensions-then-swap_order sequence.
func Materialize(dimsTriples []catalog.DimTriple, fileOrder Order, tidxStart, tidxStop int, blockCount int) Materialized {
	ntimesteps := uint64(tidxStop - tidxStart + 1)

	if len(dimsTriples) == 0 {
		// Scalar, unless there are multiple blocks across time (a string or
		// scalar value recorded once per time step); per §9 open question
		// (a), the reference source has no determinate rule for how a
		// scalar's time axis is dimensioned, so bpio follows the one
		// concrete signal available: more than one characteristic for an
		// otherwise-scalar variable means one value per time step.
		if blockCount > 1 {
			return Materialized{NDim: 1, Dims: []uint64{ntimesteps}, TimeDim: 0}
		}

		return Materialized{NDim: 0, TimeDim: -1}
	}

	isGlobal := false
	for _, d := range dimsTriples {
		if d.Global != 0 {
			isGlobal = true
			break
		}
	}

	if !isGlobal {
		return materializeLocal(dimsTriples, ntimesteps)
	}

	return materializeGlobal(dimsTriples, fileOrder, ntimesteps)
}

func materializeLocal(triples []catalog.DimTriple, ntimesteps uint64) Materialized {
	dims := make([]uint64, len(triples))
	timedim := -1

	for i, d := range triples {
		dims[i] = d.Local
		if d.IsTimeAxis() && len(triples) > 1 {
			timedim = i
			dims[i] = ntimesteps
		}
	}

	return Materialized{NDim: len(dims), Dims: dims, TimeDim: timedim}
}

func materializeGlobal(triples []catalog.DimTriple, fileOrder Order, ntimesteps uint64) Materialized {
	var warnings []string

	expectedTimeAxis := 0
	if fileOrder == ColumnMajor {
		expectedTimeAxis = len(triples) - 1
	}

	timeAxis := -1
	for i, d := range triples {
		if d.IsTimeAxis() {
			timeAxis = i
			break
		}
	}

	if timeAxis >= 0 && timeAxis != expectedTimeAxis {
		warnings = append(warnings, fmt.Sprintf(
			"time axis found at position %d, expected %d for the file's declared array order", timeAxis, expectedTimeAxis))
	}

	dims := make([]uint64, 0, len(triples))
	resultTimeDim := -1

	for i, d := range triples {
		if i == timeAxis {
			dims = append(dims, ntimesteps)
			resultTimeDim = len(dims) - 1

			continue
		}

		dims = append(dims, d.Global)
	}

	return Materialized{NDim: len(dims), Dims: dims, TimeDim: resultTimeDim, Warnings: warnings}
}

// Reorder reverses dims and remaps timedim when the caller's order differs
// from the file's, per the trailing rule of §4.6 ("After materialization,
// if the caller's array order differs from the file's, reverse dims[] and
// remap timedim"). The planner applies the same reversal to each block's
// dimension triples in §4.8 step A; the caller's start/count are taken as
// given, already in the caller's order.
func Reorder(m Materialized, fileOrder, callerOrder Order) Materialized {
	if fileOrder == callerOrder || m.NDim <= 1 {
		return m
	}

	reversed := make([]uint64, m.NDim)
	for i, v := range m.Dims {
		reversed[m.NDim-1-i] = v
	}

	timeDim := m.TimeDim
	if timeDim >= 0 {
		timeDim = m.NDim - 1 - timeDim
	}

	return Materialized{NDim: m.NDim, Dims: reversed, TimeDim: timeDim, Warnings: m.Warnings}
}

// reverseU64 reverses a []uint64 in place.
func reverseU64(s []uint64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
