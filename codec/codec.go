// Package codec implements the primitive, endian-aware scalar operations
// every other layer builds on: element byte-size lookup, in-place byte
// swapping, and a typed less-than comparator used to reduce per-block
// min/max characteristics into a variable's global min/max (§4.1).
//
// Grounded on the teacher's endian.EndianEngine for byte-order plumbing and
// the bit-packed, tag-dispatched style of section/numeric_flag.go for
// switching behavior on a type tag, generalized from mebo's two numeric
// encodings to the BP file's full scalar type tag set.
package codec

import (
	"bytes"
	"fmt"
	"math"

	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/wire"
)

// hostEngine decodes values already corrected to the running host's native
// byte order (i.e. after any file/host endian mismatch has been resolved).
var hostEngine = endian.CheckEndianness()

// TypeSize returns the element size in bytes for a fixed-width type tag.
// For wire.TypeString, the size is the length of payload up to (and
// including) its first zero byte, or len(payload) if unterminated — this
// mirrors type_size(type_tag, ptr) from §4.1, which for strings measures
// the actual value rather than a fixed width.
func TypeSize(tag wire.TypeTag, payload []byte) (int, error) {
	switch tag {
	case wire.TypeByte, wire.TypeUnsignedByte:
		return 1, nil
	case wire.TypeShort, wire.TypeUnsignedShort:
		return 2, nil
	case wire.TypeInteger, wire.TypeUnsignedInteger, wire.TypeReal:
		return 4, nil
	case wire.TypeLong, wire.TypeUnsignedLong, wire.TypeDouble, wire.TypeComplex:
		return 8, nil
	case wire.TypeLongDouble, wire.TypeDoubleComplex:
		return 16, nil
	case wire.TypeString:
		if i := bytes.IndexByte(payload, 0); i >= 0 {
			return i + 1, nil
		}

		return len(payload), nil
	default:
		return 0, fmt.Errorf("%w: %d", errs.ErrUnknownTypeTag, tag)
	}
}

// FixedElementSize returns the element size for tag without needing a
// payload sample; it is an error to call this with wire.TypeString, since
// strings have no fixed width.
func FixedElementSize(tag wire.TypeTag) (int, error) {
	switch tag {
	case wire.TypeByte, wire.TypeUnsignedByte:
		return 1, nil
	case wire.TypeShort, wire.TypeUnsignedShort:
		return 2, nil
	case wire.TypeInteger, wire.TypeUnsignedInteger, wire.TypeReal:
		return 4, nil
	case wire.TypeLong, wire.TypeUnsignedLong, wire.TypeDouble, wire.TypeComplex:
		return 8, nil
	case wire.TypeLongDouble, wire.TypeDoubleComplex:
		return 16, nil
	default:
		return 0, fmt.Errorf("%w: %d has no fixed element size", errs.ErrUnknownTypeTag, tag)
	}
}

// SwapEndianness swaps the bytes within each element-sized slot of data,
// in place, according to tag's fixed element size. Strings and byte types
// are untouched (an element size of 1 is a no-op by construction).
func SwapEndianness(data []byte, tag wire.TypeTag) error {
	size, err := FixedElementSize(tag)
	if err != nil {
		if tag == wire.TypeByte || tag == wire.TypeUnsignedByte || tag == wire.TypeString {
			return nil
		}

		return err
	}

	if size <= 1 || len(data)%size != 0 {
		return nil
	}

	for off := 0; off+size <= len(data); off += size {
		slot := data[off : off+size]
		for i, j := 0, size-1; i < j; i, j = i+1, j-1 {
			slot[i], slot[j] = slot[j], slot[i]
		}
	}

	return nil
}

// LessThan compares two scalar values of the same type tag, both already in
// host byte order, and reports whether a < b. Used to fold per-block min/max
// characteristics into a variable's global min/max (§4.4).
func LessThan(tag wire.TypeTag, a, b []byte) (bool, error) {
	switch tag {
	case wire.TypeByte:
		return int8(a[0]) < int8(b[0]), nil
	case wire.TypeUnsignedByte:
		return a[0] < b[0], nil
	case wire.TypeShort:
		return int16(hostEngine.Uint16(a)) < int16(hostEngine.Uint16(b)), nil
	case wire.TypeUnsignedShort:
		return hostEngine.Uint16(a) < hostEngine.Uint16(b), nil
	case wire.TypeInteger:
		return int32(hostEngine.Uint32(a)) < int32(hostEngine.Uint32(b)), nil
	case wire.TypeUnsignedInteger:
		return hostEngine.Uint32(a) < hostEngine.Uint32(b), nil
	case wire.TypeLong:
		return int64(hostEngine.Uint64(a)) < int64(hostEngine.Uint64(b)), nil
	case wire.TypeUnsignedLong:
		return hostEngine.Uint64(a) < hostEngine.Uint64(b), nil
	case wire.TypeReal:
		return math.Float32frombits(hostEngine.Uint32(a)) < math.Float32frombits(hostEngine.Uint32(b)), nil
	case wire.TypeDouble:
		return math.Float64frombits(hostEngine.Uint64(a)) < math.Float64frombits(hostEngine.Uint64(b)), nil
	default:
		return false, fmt.Errorf("%w: %d has no defined ordering", errs.ErrUnknownTypeTag, tag)
	}
}
