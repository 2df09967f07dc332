package planner

import (
	"github.com/bpio-project/bpio/catalog"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/wire"
)

// legacyHeaderLengthSize is the width of the length prefix written ahead
// of every variable's payload in files old enough to have never recorded
// a payload_offset in their characteristics (§4.5).
const legacyHeaderLengthSize = 8

// payloadBase returns the byte offset of a characteristic's actual data,
// recovering it from the variable header when the index didn't record it
// directly (§4.5): old writers left payload_offset at
// wire.NoPayloadOffset, so the base has to be derived by re-reading the
// 8-byte header-length prefix stored at the characteristic's own offset
// and skipping past it.
//
// Grounded on the reference reader's MPI_FILE_READ_OPS1 compatibility
// macro in original_source/src/common_read.c, simplified: bpio only needs
// the header's total length, not its full field-by-field contents.
func payloadBase(req Request, ch catalog.Characteristic) (int64, error) {
	if ch.PayloadOffset != wire.NoPayloadOffset {
		return int64(ch.PayloadOffset), nil
	}

	lenBuf := make([]byte, legacyHeaderLengthSize)
	if err := readFull(req.Source, lenBuf, int64(ch.Offset)); err != nil {
		return 0, errs.Wrapf(errs.ErrFileOpen, "reading legacy variable header: %v", err)
	}

	headerLength := req.Engine.Uint64(lenBuf)

	return int64(ch.Offset) + legacyHeaderLengthSize + int64(headerLength), nil
}
