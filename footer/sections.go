// Package footer parses the three sequentially linked index sections a BP
// file's minifooter points at — process groups, variables, attributes —
// into the in-memory catalog.* lists (§4.3). The section parsers do no file
// I/O, only decoding of an already-in-memory index region; Open performs the
// one-time rank-0-reads-and-broadcasts step and then runs the same parsers
// identically on every rank.
//
// Grounded on the teacher's blob.NumericDecoder.Decode, which parses a
// header, a names payload, then index entries in a fixed order with
// explicit validation at each step; generalized here from mebo's
// fixed-width 16-byte index entries to ADIOS's length-prefixed records and
// tag-dispatched characteristic lists (§9 design note).
package footer

import (
	"fmt"

	"github.com/bpio-project/bpio/catalog"
	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/wire"
)

// sectionHeader is the (count, length) pair prefixing every index section.
type sectionHeader struct {
	Count  uint64
	Length uint64
}

func readSectionHeader(buf []byte, engine endian.EndianEngine) (sectionHeader, error) {
	if len(buf) < wire.IndexSectionHeaderSize {
		return sectionHeader{}, fmt.Errorf("%w: section header truncated", errs.ErrInvalidIndexLength)
	}

	return sectionHeader{
		Count:  engine.Uint64(buf[0:8]),
		Length: engine.Uint64(buf[8:16]),
	}, nil
}

// ParseProcessGroups decodes the process-group index section starting at
// the beginning of buf (callers slice buf to start at PGsIndexOffset).
func ParseProcessGroups(buf []byte, engine endian.EndianEngine) ([]catalog.ProcessGroup, error) {
	hdr, err := readSectionHeader(buf, engine)
	if err != nil {
		return nil, err
	}

	body := buf[wire.IndexSectionHeaderSize:]
	if uint64(len(body)) < hdr.Length {
		return nil, fmt.Errorf("%w: pg section claims %d bytes, only %d available", errs.ErrInvalidIndexLength, hdr.Length, len(body))
	}
	body = body[:hdr.Length]

	pgs := make([]catalog.ProcessGroup, 0, hdr.Count)
	pos := 0

	for i := uint64(0); i < hdr.Count; i++ {
		recLen, pg, err := parsePGRecord(body[pos:], engine)
		if err != nil {
			return nil, fmt.Errorf("pg record %d: %w", i, err)
		}

		pgs = append(pgs, pg)
		pos += recLen
	}

	return pgs, nil
}

func parsePGRecord(buf []byte, engine endian.EndianEngine) (int, catalog.ProcessGroup, error) {
	if len(buf) < wire.RecordLengthPrefixSize {
		return 0, catalog.ProcessGroup{}, errs.ErrTruncatedRecord
	}

	recLen := int(engine.Uint32(buf))
	if len(buf) < recLen {
		return 0, catalog.ProcessGroup{}, fmt.Errorf("%w: pg record claims %d bytes, only %d available", errs.ErrTruncatedRecord, recLen, len(buf))
	}

	body := buf[wire.RecordLengthPrefixSize:recLen]

	name, n, err := wire.ReadString(body, engine)
	if err != nil {
		return 0, catalog.ProcessGroup{}, err
	}
	body = body[n:]

	if len(body) < 1 {
		return 0, catalog.ProcessGroup{}, errs.ErrTruncatedRecord
	}
	isColumnMajor := body[0] != 0
	body = body[1:]

	timeIndexName, n, err := wire.ReadString(body, engine)
	if err != nil {
		return 0, catalog.ProcessGroup{}, err
	}
	body = body[n:]

	if len(body) < 12 {
		return 0, catalog.ProcessGroup{}, errs.ErrTruncatedRecord
	}
	timeStep := int(engine.Uint32(body[0:4]))
	pgOffset := engine.Uint64(body[4:12])

	return recLen, catalog.ProcessGroup{
		Name:          name,
		IsColumnMajor: isColumnMajor,
		TimeIndexName: timeIndexName,
		TimeStep:      timeStep,
		PGOffset:      pgOffset,
	}, nil
}
