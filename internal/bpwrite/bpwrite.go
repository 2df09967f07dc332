// Package bpwrite is a test-only synthetic BP-file builder: it assembles
// the minifooter and three index sections byte-for-byte so package tests
// across the module can construct fixtures in any endianness, array
// order, or writer-count combination without a real ADIOS writer.
//
// Grounded on the teacher's tests/compat and regression packages, which
// similarly hand-assemble binary fixtures rather than relying on a
// reference encoder; adapted from mebo's columnar fixtures to the BP
// footer's process-group/variable/attribute index layout.
package bpwrite

import (
	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/wire"
)

// Builder assembles one synthetic BP file's payload region and footer.
type Builder struct {
	engine endian.EndianEngine
	bigEndian bool

	payload []byte // the data region preceding the index; grows as blocks are appended

	pgs   []byte // encoded process-group records
	pgCnt uint64

	vars   []byte // encoded variable records
	varCnt uint64

	attrs   []byte // encoded attribute records
	attrCnt uint64
}

// New creates a Builder that encodes everything in the given byte order.
func New(bigEndian bool) *Builder {
	e := endian.EndianEngine(endian.GetLittleEndianEngine())
	if bigEndian {
		e = endian.GetBigEndianEngine()
	}

	return &Builder{engine: e, bigEndian: bigEndian}
}

// AppendPayload appends raw bytes to the data region and returns the byte
// offset it was written at, for use as a characteristic's PayloadOffset.
func (b *Builder) AppendPayload(data []byte) uint64 {
	off := uint64(len(b.payload))
	b.payload = append(b.payload, data...)

	return off
}

// PGSpec describes one process-group record to append.
type PGSpec struct {
	GroupName     string
	IsColumnMajor bool
	TimeIndexName string
	TimeStep      int
	PGOffset      uint64
}

// AppendPG appends one process-group index record.
func (b *Builder) AppendPG(spec PGSpec) {
	var body []byte
	body = wire.AppendString(body, spec.GroupName, b.engine)

	colMajor := byte(0)
	if spec.IsColumnMajor {
		colMajor = 1
	}
	body = append(body, colMajor)

	body = wire.AppendString(body, spec.TimeIndexName, b.engine)
	body = b.engine.AppendUint32(body, uint32(spec.TimeStep))
	body = b.engine.AppendUint64(body, spec.PGOffset)

	b.pgs = append(b.pgs, frame(body, b.engine)...)
	b.pgCnt++
}

// CharSpec describes one characteristic block to append to a variable
// record, mirroring catalog.Characteristic.
type CharSpec struct {
	Offset        uint64
	PayloadOffset uint64
	Dims          []DimTriple // empty for a scalar
	Value         []byte
	Min           []byte
	Max           []byte
	TimeStep      int // -1 to omit the time-index tag
}

// DimTriple mirrors catalog.DimTriple for fixture construction.
type DimTriple struct {
	Local, Global, Offset uint64
}

func (b *Builder) encodeCharacteristic(c CharSpec) []byte {
	var tags [][]byte

	tags = append(tags, b.tagFrame(wire.CharTagOffset, b.engine.AppendUint64(nil, c.Offset)))

	if c.PayloadOffset != wire.NoPayloadOffset {
		tags = append(tags, b.tagFrame(wire.CharTagPayloadOffset, b.engine.AppendUint64(nil, c.PayloadOffset)))
	}

	if len(c.Dims) > 0 {
		var dimsBody []byte
		dimsBody = append(dimsBody, byte(len(c.Dims)))
		for _, d := range c.Dims {
			dimsBody = b.engine.AppendUint64(dimsBody, d.Local)
			dimsBody = b.engine.AppendUint64(dimsBody, d.Global)
			dimsBody = b.engine.AppendUint64(dimsBody, d.Offset)
		}
		tags = append(tags, b.tagFrame(wire.CharTagDims, dimsBody))
	}

	if len(c.Value) > 0 {
		tags = append(tags, b.tagFrame(wire.CharTagValue, c.Value))
	}
	if len(c.Min) > 0 {
		tags = append(tags, b.tagFrame(wire.CharTagMin, c.Min))
	}
	if len(c.Max) > 0 {
		tags = append(tags, b.tagFrame(wire.CharTagMax, c.Max))
	}
	if c.TimeStep >= 0 {
		tags = append(tags, b.tagFrame(wire.CharTagTimeIndex, b.engine.AppendUint32(nil, uint32(c.TimeStep))))
	}

	var body []byte
	body = b.engine.AppendUint16(body, uint16(len(tags)))
	for _, t := range tags {
		body = append(body, t...)
	}

	return body
}

// VarSpec describes one variable record to append.
type VarSpec struct {
	GroupName       string
	VarPath         string
	VarName         string
	VarID           uint32
	Type            wire.TypeTag
	Characteristics []CharSpec
}

// AppendVar appends one variable index record.
func (b *Builder) AppendVar(spec VarSpec) {
	var body []byte
	body = wire.AppendString(body, spec.GroupName, b.engine)
	body = wire.AppendString(body, spec.VarPath, b.engine)
	body = wire.AppendString(body, spec.VarName, b.engine)
	body = b.engine.AppendUint32(body, spec.VarID)
	body = append(body, byte(spec.Type))
	body = b.engine.AppendUint32(body, uint32(len(spec.Characteristics)))

	for _, c := range spec.Characteristics {
		body = append(body, b.encodeCharacteristic(c)...)
	}

	b.vars = append(b.vars, frame(body, b.engine)...)
	b.varCnt++
}

// InlineAttrSpec describes one inline-valued attribute record.
type InlineAttrSpec struct {
	GroupName string
	AttrPath  string
	AttrName  string
	Type      wire.TypeTag
	Value     []byte
}

// AppendInlineAttr appends one inline attribute index record.
func (b *Builder) AppendInlineAttr(spec InlineAttrSpec) {
	var body []byte
	body = wire.AppendString(body, spec.GroupName, b.engine)
	body = wire.AppendString(body, spec.AttrPath, b.engine)
	body = wire.AppendString(body, spec.AttrName, b.engine)
	body = append(body, byte(spec.Type), wire.AttrInlineValue)
	body = b.engine.AppendUint32(body, uint32(len(spec.Value)))
	body = append(body, spec.Value...)

	b.attrs = append(b.attrs, frame(body, b.engine)...)
	b.attrCnt++
}

// RefAttrSpec describes one variable-reference attribute record.
type RefAttrSpec struct {
	GroupName  string
	AttrPath   string
	AttrName   string
	Type       wire.TypeTag
	RefVarID   uint32
	RefVarPath string
}

// AppendRefAttr appends one reference attribute index record.
func (b *Builder) AppendRefAttr(spec RefAttrSpec) {
	var body []byte
	body = wire.AppendString(body, spec.GroupName, b.engine)
	body = wire.AppendString(body, spec.AttrPath, b.engine)
	body = wire.AppendString(body, spec.AttrName, b.engine)
	body = append(body, byte(spec.Type), wire.AttrVarRef)
	body = b.engine.AppendUint32(body, spec.RefVarID)
	body = wire.AppendString(body, spec.RefVarPath, b.engine)

	b.attrs = append(b.attrs, frame(body, b.engine)...)
	b.attrCnt++
}

// Build assembles the complete file: payload region, then the three
// index sections, then the minifooter, returning the full byte slice.
func (b *Builder) Build() []byte {
	buf := append([]byte(nil), b.payload...)

	pgsOffset := uint64(len(buf))
	buf = append(buf, section(b.pgCnt, b.pgs, b.engine)...)

	varsOffset := uint64(len(buf))
	buf = append(buf, section(b.varCnt, b.vars, b.engine)...)

	attrsOffset := uint64(len(buf))
	buf = append(buf, section(b.attrCnt, b.attrs, b.engine)...)

	mf := wire.Minifooter{
		PGsIndexOffset:   pgsOffset,
		VarsIndexOffset:  varsOffset,
		AttrsIndexOffset: attrsOffset,
		Version:          1,
		FileIsBigEndian:  b.bigEndian,
	}
	buf = wire.AppendMinifooter(buf, mf, b.engine)

	return buf
}

func section(count uint64, records []byte, engine endian.EndianEngine) []byte {
	var out []byte
	out = engine.AppendUint64(out, count)
	out = engine.AppendUint64(out, uint64(len(records)))
	out = append(out, records...)

	return out
}

// frame prefixes body with its own encoded length, matching every index
// record's u32 length-prefix framing.
func frame(body []byte, engine endian.EndianEngine) []byte {
	total := wire.RecordLengthPrefixSize + len(body)
	out := engine.AppendUint32(nil, uint32(total))
	out = append(out, body...)

	return out
}

func (b *Builder) tagFrame(tag byte, payload []byte) []byte {
	out := []byte{tag}
	out = b.engine.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)

	return out
}
