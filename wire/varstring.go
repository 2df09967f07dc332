package wire

import (
	"fmt"

	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/errs"
)

var errTruncated = errs.ErrTruncatedRecord

// ReadString decodes a u16-length-prefixed string at the start of buf using
// engine's byte order, returning the string and the number of bytes consumed.
//
// Adapted from the teacher's VarStringEncoder/decoder pairing
// (encoding/varstring.go), widened from a u8 length prefix (sufficient for
// mebo's short metric names) to u16, since group/variable/attribute paths
// in a BP file are not bounded to 255 bytes.
func ReadString(buf []byte, engine endian.EndianEngine) (string, int, error) {
	if len(buf) < 2 {
		return "", 0, fmt.Errorf("%w: truncated string length prefix", errTruncated)
	}

	length := int(engine.Uint16(buf))
	if len(buf) < 2+length {
		return "", 0, fmt.Errorf("%w: string claims %d bytes, only %d available", errTruncated, length, len(buf)-2)
	}

	return string(buf[2 : 2+length]), 2 + length, nil
}

// AppendString appends a u16-length-prefixed string to buf using engine's
// byte order, returning the grown slice. Used by footer-section writers
// (test fixtures) and nowhere in the read path itself.
func AppendString(buf []byte, s string, engine endian.EndianEngine) []byte {
	buf = engine.AppendUint16(buf, uint16(len(s)))
	buf = append(buf, s...)

	return buf
}
