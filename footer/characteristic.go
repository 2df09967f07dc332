package footer

import (
	"fmt"

	"github.com/bpio-project/bpio/catalog"
	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/wire"
)

// parseCharacteristic decodes one tag-dispatched extension list (§9): a u16
// tag count followed by that many (tag byte, u32 length, payload) frames.
// Unknown tags are skipped by length alone, so newer writers can add fields
// without breaking older readers — the central promise of this framing.
func parseCharacteristic(buf []byte, engine endian.EndianEngine) (int, catalog.Characteristic, error) {
	if len(buf) < 2 {
		return 0, catalog.Characteristic{}, errs.ErrTruncatedRecord
	}

	numTags := int(engine.Uint16(buf))
	pos := 2

	var ch catalog.Characteristic
	ch.TimeStep = -1

	for i := 0; i < numTags; i++ {
		if len(buf) < pos+1+4 {
			return 0, ch, errs.ErrTruncatedRecord
		}

		tag := buf[pos]
		pos++
		length := int(engine.Uint32(buf[pos:]))
		pos += 4

		if len(buf) < pos+length {
			return 0, ch, fmt.Errorf("%w: characteristic tag 0x%02x claims %d bytes, only %d available", errs.ErrTruncatedRecord, tag, length, len(buf)-pos)
		}
		payload := buf[pos : pos+length]
		pos += length

		switch tag {
		case wire.CharTagOffset:
			if len(payload) < 8 {
				return 0, ch, errs.ErrTruncatedRecord
			}
			ch.Offset = engine.Uint64(payload)
		case wire.CharTagPayloadOffset:
			if len(payload) < 8 {
				return 0, ch, errs.ErrTruncatedRecord
			}
			ch.PayloadOffset = engine.Uint64(payload)
		case wire.CharTagDims:
			dims, err := parseDims(payload, engine)
			if err != nil {
				return 0, ch, err
			}
			ch.Dims = dims
		case wire.CharTagValue:
			ch.Value = append([]byte(nil), payload...)
		case wire.CharTagMin:
			ch.Min = append([]byte(nil), payload...)
		case wire.CharTagMax:
			ch.Max = append([]byte(nil), payload...)
		case wire.CharTagTimeIndex:
			if len(payload) < 4 {
				return 0, ch, errs.ErrTruncatedRecord
			}
			ch.TimeStep = int(engine.Uint32(payload))
		default:
			// Unknown tag: already skipped by length above.
		}
	}

	return pos, ch, nil
}

func parseDims(buf []byte, engine endian.EndianEngine) ([]catalog.DimTriple, error) {
	if len(buf) < 1 {
		return nil, errs.ErrTruncatedRecord
	}

	ndim := int(buf[0])
	pos := 1
	dims := make([]catalog.DimTriple, 0, ndim)

	for i := 0; i < ndim; i++ {
		if len(buf) < pos+24 {
			return nil, errs.ErrTruncatedRecord
		}

		dims = append(dims, catalog.DimTriple{
			Local:  engine.Uint64(buf[pos : pos+8]),
			Global: engine.Uint64(buf[pos+8 : pos+16]),
			Offset: engine.Uint64(buf[pos+16 : pos+24]),
		})
		pos += 24
	}

	return dims, nil
}
