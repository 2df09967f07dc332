package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/errs"
)

// Minifooter is the fixed-size trailer at the end of a BP file (§6).
type Minifooter struct {
	PGsIndexOffset   uint64
	VarsIndexOffset  uint64
	AttrsIndexOffset uint64
	Version          uint32

	FileSize         int64
	FileIsBigEndian  bool
	ChangeEndianness bool // true if the host's native order differs from the file's
}

// ParseMinifooter decodes the MinifooterSize trailing bytes of a file whose
// total size is fileSize. tail must be exactly the last MinifooterSize bytes.
//
// The byte order is taken from bit 7 of the version word's first byte (the
// top bit of the word read big-endian), then the rest of the fields are
// decoded with the engine that bit selects. A big-endian file stores its
// endian bit there; a little-endian file stores the low byte of its version
// there, so it is recognized as little-endian only while that byte is
// below 0x80.
func ParseMinifooter(tail []byte, fileSize int64) (Minifooter, error) {
	if len(tail) != MinifooterSize {
		return Minifooter{}, fmt.Errorf("%w: expected %d bytes, got %d", errs.ErrInvalidMinifooter, MinifooterSize, len(tail))
	}

	// The endian bit sits in the top bit of the 32-bit version word: byte 0
	// bit 7 in a big-endian file, byte 3 bit 7 in a little-endian one. Only
	// byte 0 bit 7 is probed; a little-endian file's endian bit is 0 and its
	// byte 0 holds the version's low byte.
	beVersion := binary.BigEndian.Uint32(tail[minifooterVersionOff:])
	fileIsBigEndian := beVersion&VersionEndianBit != 0

	var engine endian.EndianEngine
	if fileIsBigEndian {
		engine = endian.GetBigEndianEngine()
	} else {
		engine = endian.GetLittleEndianEngine()
	}

	mf := Minifooter{
		PGsIndexOffset:   engine.Uint64(tail[minifooterPGsOffsetOff:]),
		VarsIndexOffset:  engine.Uint64(tail[minifooterVarsOffsetOff:]),
		AttrsIndexOffset: engine.Uint64(tail[minifooterAttrsOffsetOff:]),
		Version:          engine.Uint32(tail[minifooterVersionOff:]) & VersionMask,
		FileSize:         fileSize,
		FileIsBigEndian:  fileIsBigEndian,
		ChangeEndianness: !endian.CompareNativeEndian(engine),
	}

	if mf.PGsIndexOffset == 0 || mf.VarsIndexOffset < mf.PGsIndexOffset || mf.AttrsIndexOffset < mf.VarsIndexOffset {
		return Minifooter{}, fmt.Errorf("%w: offsets out of order (pgs=%d vars=%d attrs=%d)",
			errs.ErrInvalidMinifooter, mf.PGsIndexOffset, mf.VarsIndexOffset, mf.AttrsIndexOffset)
	}

	if int64(mf.AttrsIndexOffset) >= fileSize-MinifooterSize {
		return Minifooter{}, fmt.Errorf("%w: attrs index offset %d does not fit before minifooter at %d",
			errs.ErrInvalidMinifooter, mf.AttrsIndexOffset, fileSize-MinifooterSize)
	}

	return mf, nil
}

// Engine returns the endian engine matching the file's declared byte order.
func (m Minifooter) Engine() endian.EndianEngine {
	if m.FileIsBigEndian {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// AppendMinifooter serializes mf using the given engine; used by the test
// fixture builder (internal/bpwrite) and by footer.Open, which re-encodes
// the parsed minifooter to broadcast it to every rank.
func AppendMinifooter(buf []byte, mf Minifooter, engine endian.EndianEngine) []byte {
	buf = engine.AppendUint64(buf, mf.PGsIndexOffset)
	buf = engine.AppendUint64(buf, mf.VarsIndexOffset)
	buf = engine.AppendUint64(buf, mf.AttrsIndexOffset)

	version := mf.Version & VersionMask
	if mf.FileIsBigEndian {
		version |= VersionEndianBit
	}
	buf = engine.AppendUint32(buf, version)

	return buf
}
