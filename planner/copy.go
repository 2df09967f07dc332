package planner

import "io"

// axisPlan is the result of §4.8 step D's contiguous-tail detection: the
// trailing run of axes where a block's read extent fully spans both its
// own local size and the requested count folds into one contiguous chunk
// of chunkElems elements. holeBreak is the last axis not folded, or -1 if
// every axis folded (the whole-block case).
type axisPlan struct {
	holeBreak  int
	sizeInDset []uint64 // per axis in [0,holeBreak], the read extent along that axis
	chunkElems uint64
	dsetStride []uint64 // per axis in [0,holeBreak], element stride in the file's on-disk layout (based on the block's full local shape)
	varStride  []uint64 // per axis in [0,holeBreak], element stride in dst (based on the destination's full requested shape)
}

// planAxes implements step D: fold the fastest-changing axes where the
// read extent exactly equals both the block's local size and the caller's
// requested count, then compute the per-axis strides step E's nested walk
// needs for the axes that don't fold.
func planAxes(ldims, sizeInDset, reqCount []uint64) axisPlan {
	ndim := len(ldims)
	holeBreak := ndim - 1
	chunk := uint64(1)

	for holeBreak >= 0 && sizeInDset[holeBreak] == ldims[holeBreak] && sizeInDset[holeBreak] == reqCount[holeBreak] {
		chunk *= sizeInDset[holeBreak]
		holeBreak--
	}

	plan := axisPlan{holeBreak: holeBreak, chunkElems: chunk}
	if holeBreak < 0 {
		return plan
	}

	plan.sizeInDset = append([]uint64(nil), sizeInDset[:holeBreak+1]...)
	plan.dsetStride = make([]uint64, holeBreak+1)
	plan.varStride = make([]uint64, holeBreak+1)

	dstride, vstride := uint64(1), uint64(1)
	for i := ndim - 1; i > holeBreak; i-- {
		dstride *= ldims[i]
		vstride *= reqCount[i]
	}
	for i := holeBreak; i >= 0; i-- {
		plan.dsetStride[i] = dstride
		plan.varStride[i] = vstride
		dstride *= ldims[i]
		vstride *= reqCount[i]
	}

	return plan
}

// strideCopy implements step E's three read-issue cases uniformly: it
// walks the unfolded axes [0, holeBreak] and, for each combination of
// their indices, issues one positioned read of chunkElems*elementSize
// contiguous bytes directly from r at the block's on-disk position into
// dst at this block's placement within the overall requested hyperslab.
// holeBreak == -1 (whole block matches the request exactly) degenerates
// to a single read; holeBreak == 0 degenerates to one read per index of
// the single outermost unfolded axis — the other two cases named in the
// reference algorithm, reached here as ordinary special values rather
// than separate code paths.
//
// srcElemBase/dstElemOffset are the element offsets of this block's
// (0,0,...,0) selected corner within the file's block payload and within
// dst, respectively.
func strideCopy(r io.ReaderAt, payloadByteOffset int64, srcElemBase uint64, dst []byte, dstElemOffset uint64, plan axisPlan, elementSize int) error {
	chunkBytes := int(plan.chunkElems) * elementSize

	if plan.holeBreak < 0 {
		dstStart := dstElemOffset * uint64(elementSize)
		srcStart := payloadByteOffset + int64(srcElemBase)*int64(elementSize)

		return readFull(r, dst[dstStart:dstStart+uint64(chunkBytes)], srcStart)
	}

	idx := make([]uint64, plan.holeBreak+1)

	return walkAxes(0, plan, idx, r, payloadByteOffset, srcElemBase, dst, dstElemOffset, chunkBytes, elementSize)
}

// walkAxes performs the nested iteration nloop = Π size_in_dset[i] for
// i <= holeBreak, recursing one level per unfolded axis since holeBreak
// varies per block.
func walkAxes(axis int, plan axisPlan, idx []uint64, r io.ReaderAt, payloadByteOffset int64, srcElemBase uint64, dst []byte, dstElemOffset uint64, chunkBytes, elementSize int) error {
	if axis > plan.holeBreak {
		var srcOff, dstOff uint64
		for i, v := range idx {
			srcOff += v * plan.dsetStride[i]
			dstOff += v * plan.varStride[i]
		}

		srcStart := payloadByteOffset + int64(srcElemBase+srcOff)*int64(elementSize)
		dstStart := (dstElemOffset + dstOff) * uint64(elementSize)

		return readFull(r, dst[dstStart:dstStart+uint64(chunkBytes)], srcStart)
	}

	for idx[axis] = 0; idx[axis] < plan.sizeInDset[axis]; idx[axis]++ {
		if err := walkAxes(axis+1, plan, idx, r, payloadByteOffset, srcElemBase, dst, dstElemOffset, chunkBytes, elementSize); err != nil {
			return err
		}
	}

	return nil
}

func readFull(r io.ReaderAt, dst []byte, off int64) error {
	n, err := r.ReadAt(dst, off)
	if err != nil && !(err == io.EOF && n == len(dst)) {
		return err
	}

	return nil
}
