package footer

import (
	"fmt"

	"github.com/bpio-project/bpio/catalog"
	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/errs"
	"github.com/bpio-project/bpio/wire"
)

// ParseVariables decodes the variable index section starting at the
// beginning of buf (callers slice buf to start at VarsIndexOffset).
//
// characteristics_count ≥ 1 for any variable that has at least one written
// block is enforced here (§3 invariant); a variable record with zero
// characteristics is rejected as corrupted rather than silently kept, since
// a writer never emits an entry for a variable it never wrote to.
func ParseVariables(buf []byte, engine endian.EndianEngine) ([]catalog.VariableIndexRecord, error) {
	hdr, err := readSectionHeader(buf, engine)
	if err != nil {
		return nil, err
	}

	body := buf[wire.IndexSectionHeaderSize:]
	if uint64(len(body)) < hdr.Length {
		return nil, fmt.Errorf("%w: variable section claims %d bytes, only %d available", errs.ErrInvalidIndexLength, hdr.Length, len(body))
	}
	body = body[:hdr.Length]

	vars := make([]catalog.VariableIndexRecord, 0, hdr.Count)
	pos := 0

	for i := uint64(0); i < hdr.Count; i++ {
		recLen, v, err := parseVariableRecord(body[pos:], engine)
		if err != nil {
			return nil, fmt.Errorf("variable record %d: %w", i, err)
		}

		if len(v.Characteristics) == 0 {
			return nil, fmt.Errorf("%w: variable %q has zero characteristics", errs.ErrCorruptedVariable, v.VarPath)
		}

		vars = append(vars, v)
		pos += recLen
	}

	return vars, nil
}

func parseVariableRecord(buf []byte, engine endian.EndianEngine) (int, catalog.VariableIndexRecord, error) {
	if len(buf) < wire.RecordLengthPrefixSize {
		return 0, catalog.VariableIndexRecord{}, errs.ErrTruncatedRecord
	}

	recLen := int(engine.Uint32(buf))
	if len(buf) < recLen {
		return 0, catalog.VariableIndexRecord{}, fmt.Errorf("%w: variable record claims %d bytes, only %d available", errs.ErrTruncatedRecord, recLen, len(buf))
	}

	body := buf[wire.RecordLengthPrefixSize:recLen]

	groupName, n, err := wire.ReadString(body, engine)
	if err != nil {
		return 0, catalog.VariableIndexRecord{}, err
	}
	body = body[n:]

	varPath, n, err := wire.ReadString(body, engine)
	if err != nil {
		return 0, catalog.VariableIndexRecord{}, err
	}
	body = body[n:]

	varName, n, err := wire.ReadString(body, engine)
	if err != nil {
		return 0, catalog.VariableIndexRecord{}, err
	}
	body = body[n:]

	if len(body) < 5 {
		return 0, catalog.VariableIndexRecord{}, errs.ErrTruncatedRecord
	}
	varID := engine.Uint32(body[0:4])
	typeTag := wire.TypeTag(body[4])
	body = body[5:]

	if len(body) < 4 {
		return 0, catalog.VariableIndexRecord{}, errs.ErrTruncatedRecord
	}
	charCount := int(engine.Uint32(body[0:4]))
	body = body[4:]

	chars := make([]catalog.Characteristic, 0, charCount)
	for i := 0; i < charCount; i++ {
		clen, ch, err := parseCharacteristic(body, engine)
		if err != nil {
			return 0, catalog.VariableIndexRecord{}, fmt.Errorf("characteristic %d: %w", i, err)
		}

		chars = append(chars, ch)
		body = body[clen:]
	}

	return recLen, catalog.VariableIndexRecord{
		GroupName:       groupName,
		VarPath:         varPath,
		VarName:         varName,
		VarID:           varID,
		Type:            typeTag,
		Characteristics: chars,
	}, nil
}
