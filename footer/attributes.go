package footer

import (
	"fmt"

	"github.com/bpio-project/bpio/catalog"
	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/wire"
)

// ParseAttributes decodes the attribute index section starting at the
// beginning of buf (callers slice buf to start at AttrsIndexOffset). Each
// record is tagged inline-value or variable-reference (§3, §4.7).
func ParseAttributes(buf []byte, engine endian.EndianEngine) ([]catalog.AttributeIndexRecord, error) {
	hdr, err := readSectionHeader(buf, engine)
	if err != nil {
		return nil, err
	}

	body := buf[wire.IndexSectionHeaderSize:]
	if uint64(len(body)) < hdr.Length {
		return nil, fmt.Errorf("%w: attribute section claims %d bytes, only %d available", errs.ErrInvalidIndexLength, hdr.Length, len(body))
	}
	body = body[:hdr.Length]

	attrs := make([]catalog.AttributeIndexRecord, 0, hdr.Count)
	pos := 0

	for i := uint64(0); i < hdr.Count; i++ {
		recLen, a, err := parseAttributeRecord(body[pos:], engine)
		if err != nil {
			return nil, fmt.Errorf("attribute record %d: %w", i, err)
		}

		attrs = append(attrs, a)
		pos += recLen
	}

	return attrs, nil
}

func parseAttributeRecord(buf []byte, engine endian.EndianEngine) (int, catalog.AttributeIndexRecord, error) {
	if len(buf) < wire.RecordLengthPrefixSize {
		return 0, catalog.AttributeIndexRecord{}, errs.ErrTruncatedRecord
	}

	recLen := int(engine.Uint32(buf))
	if len(buf) < recLen {
		return 0, catalog.AttributeIndexRecord{}, fmt.Errorf("%w: attribute record claims %d bytes, only %d available", errs.ErrTruncatedRecord, recLen, len(buf))
	}

	body := buf[wire.RecordLengthPrefixSize:recLen]

	groupName, n, err := wire.ReadString(body, engine)
	if err != nil {
		return 0, catalog.AttributeIndexRecord{}, err
	}
	body = body[n:]

	attrPath, n, err := wire.ReadString(body, engine)
	if err != nil {
		return 0, catalog.AttributeIndexRecord{}, err
	}
	body = body[n:]

	attrName, n, err := wire.ReadString(body, engine)
	if err != nil {
		return 0, catalog.AttributeIndexRecord{}, err
	}
	body = body[n:]

	if len(body) < 2 {
		return 0, catalog.AttributeIndexRecord{}, errs.ErrTruncatedRecord
	}
	typeTag := wire.TypeTag(body[0])
	refKind := body[1]
	body = body[2:]

	rec := catalog.AttributeIndexRecord{
		GroupName: groupName,
		AttrPath:  attrPath,
		AttrName:  attrName,
		Type:      typeTag,
	}

	switch refKind {
	case wire.AttrInlineValue:
		if len(body) < 4 {
			return 0, catalog.AttributeIndexRecord{}, errs.ErrTruncatedRecord
		}
		length := int(engine.Uint32(body[0:4]))
		body = body[4:]
		if len(body) < length {
			return 0, catalog.AttributeIndexRecord{}, errs.ErrTruncatedRecord
		}

		rec.Inline = true
		rec.Value = append([]byte(nil), body[:length]...)
	case wire.AttrVarRef:
		if len(body) < 4 {
			return 0, catalog.AttributeIndexRecord{}, errs.ErrTruncatedRecord
		}
		rec.RefVarID = engine.Uint32(body[0:4])
		body = body[4:]

		refPath, _, err := wire.ReadString(body, engine)
		if err != nil {
			return 0, catalog.AttributeIndexRecord{}, err
		}
		rec.RefVarPath = refPath
	default:
		return 0, catalog.AttributeIndexRecord{}, fmt.Errorf("%w: unknown attribute reference kind 0x%02x", errs.ErrCorruptedAttribute, refKind)
	}

	return recLen, rec, nil
}
