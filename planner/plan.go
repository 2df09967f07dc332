// Package planner implements §4.8: turning a caller's (start, count)
// hyperslab request against a variable's catalog record into a sequence
// of positioned reads, one per overlapping process-group block, with the
// axis folding and strided copy needed to avoid reading more than the
// blocks actually touched by the request.
//
// Grounded on the reference reader's common_read_schedule_read /
// common_read_perform_reads pairing in original_source/src/common_read.c,
// collapsed into a single synchronous Read call since bpio has no
// separate schedule/perform phases (§4.8 preamble).
package planner

import (
	"fmt"
	"io"

	"github.com/bpio-project/bpio/catalog"
	"github.com/bpio-project/bpio/codec"
	"github.com/bpio-project/bpio/dims"
	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/wire"
)

// Reader is the positioned-read capability the planner needs from an open
// file; satisfied by *os.File and by test fixtures alike.
type Reader interface {
	io.ReaderAt
}

// Transform is a decode hook for a block's on-disk payload (e.g.
// decompressing it). Read does not call it: whatever Request.Transform
// holds, blocks are read directly via positioned reads against the source
// and copied as stored.
type Transform func(encoded []byte) (decoded []byte, err error)

// Request bundles everything the planner needs to satisfy one read:
// the variable's catalog record, every process group of the group it
// belongs to (Read picks out the ones for each requested time step), and
// the file's and caller's array-order conventions.
type Request struct {
	Var    catalog.VariableIndexRecord
	PGs    []catalog.ProcessGroup // the owning group's PGs, in on-disk offset order
	Source Reader
	Engine endian.EndianEngine // the file's own byte order, for the legacy payload-offset recovery path

	FileOrder   dims.Order
	CallerOrder dims.Order

	TidxStart, TidxStop int

	ChangeEndianness bool
	Transform        Transform
}

// Read implements §4.8 steps A-F: it materializes the variable's caller-
// facing shape, validates the request against it, then for every
// requested time step finds the overlapping blocks and strided-copies
// the intersection of each into dest. dest must be large enough to hold
// the full requested hyperslab (Π count[i] elements of the variable's
// type); Read returns the number of bytes written.
func Read(req Request, start, count []uint64, dest []byte) (int, error) {
	if len(req.Var.Characteristics) == 0 {
		return 0, fmt.Errorf("%w: variable %q has no characteristics", errs.ErrCorruptedVariable, req.Var.VarName)
	}

	if req.Var.Type == wire.TypeString {
		return readStringSeries(req, start, count, dest)
	}

	elementSize, err := codec.FixedElementSize(req.Var.Type)
	if err != nil {
		return 0, err
	}

	rep := req.Var.Characteristics[0].Dims
	materialized := dims.Materialize(rep, req.FileOrder, req.TidxStart, req.TidxStop, len(req.Var.Characteristics))
	oriented := dims.Reorder(materialized, req.FileOrder, req.CallerOrder)

	if len(start) != oriented.NDim || len(count) != oriented.NDim {
		return 0, fmt.Errorf("%w: variable %q has %d dimensions, request has %d", errs.ErrOutOfBound, req.Var.VarName, oriented.NDim, len(start))
	}

	for i := 0; i < oriented.NDim; i++ {
		if start[i]+count[i] > oriented.Dims[i] {
			return 0, fmt.Errorf("%w: axis %d request [%d,%d) exceeds extent %d", errs.ErrOutOfBound, i, start[i], start[i]+count[i], oriented.Dims[i])
		}
	}

	startTime, countTime := req.TidxStart, 1
	spatialStart, spatialCount := start, count

	if oriented.TimeDim >= 0 {
		startTime = req.TidxStart + int(start[oriented.TimeDim])
		countTime = int(count[oriented.TimeDim])
		spatialStart = dropAxis(start, oriented.TimeDim)
		spatialCount = dropAxis(count, oriented.TimeDim)
	}

	elemsPerStep := uint64(1)
	for _, c := range spatialCount {
		elemsPerStep *= c
	}

	written := 0

	for step := 0; step < countTime; step++ {
		t := startTime + step
		dstBase := uint64(step) * elemsPerStep * uint64(elementSize)

		n, err := readTimestep(req, t, spatialStart, spatialCount, dest[dstBase:], elementSize)
		if err != nil {
			return written, err
		}

		written += n
	}

	return written, nil
}

// readStringSeries handles wire.TypeString variables, which the format
// never gives a fixed width or a hyperslab shape: each characteristic is
// one complete string value, one per time step it was written at. start
// and count, if given, select a contiguous run of those time steps
// (axis 0); an empty start/count reads the variable's one and only
// value. Strings are written back to back into dest with no padding, so
// dest must be sized for the concatenation of whichever values are
// selected.
func readStringSeries(req Request, start, count []uint64, dest []byte) (int, error) {
	chars := req.Var.Characteristics

	selected := chars
	if len(start) == 1 && len(count) == 1 {
		from := int(start[0])
		to := from + int(count[0])
		if from < 0 || to > len(chars) {
			return 0, fmt.Errorf("%w: variable %q has %d string values, request is [%d,%d)", errs.ErrOutOfBound, req.Var.VarName, len(chars), from, to)
		}
		selected = chars[from:to]
	} else if len(start) != 0 {
		return 0, fmt.Errorf("%w: string variable %q takes at most one (time) axis", errs.ErrOutOfBound, req.Var.VarName)
	}

	written := 0
	for _, ch := range selected {
		value := ch.Value
		if len(value) == 0 {
			payloadOffset, err := payloadBase(req, ch)
			if err != nil {
				return written, err
			}

			size, err := stringPayloadSize(req, payloadOffset)
			if err != nil {
				return written, err
			}

			buf := make([]byte, size)
			if err := readFull(req.Source, buf, payloadOffset+2); err != nil {
				return written, errs.Wrapf(errs.ErrFileOpen, "reading string value of variable %q: %v", req.Var.VarName, err)
			}
			value = buf
		}

		n := copy(dest[written:], value)
		written += n
	}

	return written, nil
}

// stringPayloadSize reads the length prefix ahead of a string's bytes,
// mirroring wire.ReadString's framing for on-disk string variables.
func stringPayloadSize(req Request, payloadOffset int64) (int, error) {
	lenBuf := make([]byte, 2)
	if err := readFull(req.Source, lenBuf, payloadOffset); err != nil {
		return 0, err
	}

	return int(req.Engine.Uint16(lenBuf)), nil
}

func dropAxis(s []uint64, axis int) []uint64 {
	out := make([]uint64, 0, len(s)-1)
	out = append(out, s[:axis]...)
	out = append(out, s[axis+1:]...)

	return out
}

// readTimestep implements steps B-F for one time step: find the PGs
// written at t, select the variable's characteristics whose offset falls
// within those PGs' byte range, intersect each against the spatial
// request, and strided-copy the overlap.
func readTimestep(req Request, t int, start, count []uint64, dst []byte, elementSize int) (int, error) {
	lo, hi, ok := pgByteRange(req.PGs, t)
	if !ok {
		return 0, fmt.Errorf("%w: no process group recorded for time step %d", errs.ErrNoDataAtTimestep, t)
	}

	written := 0
	reversed := req.FileOrder != req.CallerOrder

	for _, ch := range req.Var.Characteristics {
		if ch.Offset < lo || ch.Offset >= hi {
			continue
		}

		n, err := readBlock(req, ch, start, count, dst, elementSize, reversed)
		if err != nil {
			return written, err
		}

		written += n
	}

	return written, nil
}

// pgByteRange finds [lo, hi) spanning the on-disk byte offsets of every
// process group recorded at time step t, per §4.8 step B's
// pgoffset/pgcount lookup. PGs are assumed ordered by on-disk offset,
// matching the order they were written to the process-group index.
func pgByteRange(pgs []catalog.ProcessGroup, t int) (lo, hi uint64, ok bool) {
	lo = ^uint64(0)
	hi = 0

	for i, pg := range pgs {
		if pg.TimeStep != t {
			continue
		}

		ok = true
		if pg.PGOffset < lo {
			lo = pg.PGOffset
		}

		next := uint64(^uint64(0))
		if i+1 < len(pgs) {
			next = pgs[i+1].PGOffset
		}
		if next > hi {
			hi = next
		}
	}

	return lo, hi, ok
}

// readBlock implements step C (intersection, with the non-global
// Global<-Local substitution and axis-order reversal) through step F
// (the strided copy and endian correction) for one characteristic block.
func readBlock(req Request, ch catalog.Characteristic, start, count []uint64, dst []byte, elementSize int, reversed bool) (int, error) {
	triples := ch.Dims
	if reversed {
		triples = reverseTriples(triples)
	}

	timeAxis := -1
	for i, d := range triples {
		if d.IsTimeAxis() {
			timeAxis = i
			break
		}
	}

	spatial := triples
	if timeAxis >= 0 {
		spatial = append(append([]catalog.DimTriple(nil), triples[:timeAxis]...), triples[timeAxis+1:]...)
	}

	if len(spatial) != len(start) {
		return 0, fmt.Errorf("%w: variable %q block has %d spatial axes, request has %d", errs.ErrOutOfBound, req.Var.VarName, len(spatial), len(start))
	}

	ndim := len(spatial)
	if ndim == 0 {
		return readScalarBlock(req, ch, dst, elementSize)
	}

	ldims := make([]uint64, ndim)
	sizeInDset := make([]uint64, ndim)
	startInBlock := make([]uint64, ndim)
	startInDst := make([]uint64, ndim)

	for i, d := range spatial {
		off, glob, loc := d.Offset, d.Global, d.Local
		if glob == 0 {
			// Rule C: a non-global (local) block occupies its own full
			// extent regardless of any caller-supplied global offset.
			off, glob = 0, loc
		}

		blockStart := maxU64(start[i], off)
		blockEnd := minU64(start[i]+count[i], off+loc)
		if blockStart >= blockEnd {
			return 0, nil
		}

		ldims[i] = loc
		sizeInDset[i] = blockEnd - blockStart
		startInBlock[i] = blockStart - off
		startInDst[i] = blockStart - start[i]
	}

	plan := planAxes(ldims, sizeInDset, count)

	srcElemBase := uint64(0)
	dstElemBase := uint64(0)
	dstride, vstride := uint64(1), uint64(1)

	for i := ndim - 1; i >= 0; i-- {
		srcElemBase += startInBlock[i] * dstride
		dstElemBase += startInDst[i] * vstride
		dstride *= ldims[i]
		vstride *= count[i]
	}

	payloadOffset, err := payloadBase(req, ch)
	if err != nil {
		return 0, err
	}

	if err := strideCopy(req.Source, payloadOffset, srcElemBase, dst, dstElemBase, plan, elementSize); err != nil {
		return 0, errs.Wrapf(errs.ErrFileOpen, "reading block of variable %q: %v", req.Var.VarName, err)
	}

	n := int(plan.chunkElems)
	for i := 0; i <= plan.holeBreak; i++ {
		n *= int(plan.sizeInDset[i])
	}
	n *= elementSize

	if req.ChangeEndianness {
		span := dst[dstElemBase*uint64(elementSize):]
		if err := swapRegion(span, plan, elementSize, req.Var.Type); err != nil {
			return 0, err
		}
	}

	return n, nil
}

// readScalarBlock handles a zero-dimension characteristic of a fixed-size
// scalar (strings go through readStringSeries instead): it is entirely in
// or entirely out of the request, never partially overlapped.
func readScalarBlock(req Request, ch catalog.Characteristic, dst []byte, elementSize int) (int, error) {
	if len(ch.Value) == 0 {
		payloadOffset, err := payloadBase(req, ch)
		if err != nil {
			return 0, err
		}

		if err := readFull(req.Source, dst[:elementSize], payloadOffset); err != nil {
			return 0, errs.Wrapf(errs.ErrFileOpen, "reading scalar of variable %q: %v", req.Var.VarName, err)
		}
	} else {
		copy(dst, ch.Value)
	}

	if req.ChangeEndianness {
		if err := codec.SwapEndianness(dst[:elementSize], req.Var.Type); err != nil {
			return 0, err
		}
	}

	return elementSize, nil
}

// swapRegion byte-swaps every element strideCopy just wrote, following
// the same axis walk so partial (strided) reads aren't swapped past
// their own extent.
func swapRegion(dst []byte, plan axisPlan, elementSize int, tag wire.TypeTag) error {
	chunkBytes := int(plan.chunkElems) * elementSize

	if plan.holeBreak < 0 {
		return codec.SwapEndianness(dst[:chunkBytes], tag)
	}

	// The destination region written by strideCopy is itself only
	// contiguous run-by-run (chunkBytes at a time); swap each run in
	// place rather than assuming the whole span is one run.
	idx := make([]uint64, plan.holeBreak+1)

	return swapWalk(0, plan, idx, dst, chunkBytes, elementSize, tag)
}

func swapWalk(axis int, plan axisPlan, idx []uint64, dst []byte, chunkBytes, elementSize int, tag wire.TypeTag) error {
	if axis > plan.holeBreak {
		var off uint64
		for i, v := range idx {
			off += v * plan.varStride[i]
		}

		start := off * uint64(elementSize)

		return codec.SwapEndianness(dst[start:start+uint64(chunkBytes)], tag)
	}

	for idx[axis] = 0; idx[axis] < plan.sizeInDset[axis]; idx[axis]++ {
		if err := swapWalk(axis+1, plan, idx, dst, chunkBytes, elementSize, tag); err != nil {
			return err
		}
	}

	return nil
}

func reverseTriples(in []catalog.DimTriple) []catalog.DimTriple {
	out := make([]catalog.DimTriple, len(in))
	for i, d := range in {
		out[len(in)-1-i] = d
	}

	return out
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}

	return b
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}

	return b
}
