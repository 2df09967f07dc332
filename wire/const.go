package wire

import "math"

// Minifooter layout, bit-exact per spec: three u64 index offsets followed by
// a u32 version word whose high bit carries the file's byte order.
const (
	MinifooterSize = 8 + 8 + 8 + 4 // pgs_index_offset, vars_index_offset, attrs_index_offset, version

	minifooterPGsOffsetOff   = 0
	minifooterVarsOffsetOff  = 8
	minifooterAttrsOffsetOff = 16
	minifooterVersionOff     = 24

	// VersionEndianBit is the high bit of the version word: 1 means the file
	// was written big-endian, 0 means little-endian.
	VersionEndianBit = uint32(1) << 31
	VersionMask      = ^VersionEndianBit
)

// Each index section begins with (count u64, length u64) followed by
// length-prefixed records; each record is itself framed with a u32 byte
// length so unknown trailing fields can be skipped without understanding them.
const (
	IndexSectionHeaderSize = 8 + 8 // count, length
	RecordLengthPrefixSize = 4
)

// Characteristic tag bytes. A characteristic is a tag-dispatched extension
// list: (tag byte, u32 payload length, payload) repeated, so unknown tags
// are always skippable by length alone (per the reference format's design,
// unlike mebo's fixed-field index entries, since BP characteristics are
// heterogeneous per-block). Package footer decodes the list into the fixed
// optional fields of catalog.Characteristic.
const (
	CharTagOffset        byte = 0x01
	CharTagPayloadOffset byte = 0x02
	CharTagDims          byte = 0x03
	CharTagValue         byte = 0x04
	CharTagMin           byte = 0x05
	CharTagMax           byte = 0x06
	CharTagTimeIndex     byte = 0x07
)

// AttrInlineValue and AttrVarRef distinguish an inline attribute value from a
// variable reference.
const (
	AttrInlineValue byte = 0x01
	AttrVarRef      byte = 0x02
)

// NoPayloadOffset marks a characteristic parsed from a legacy file that did
// not record its payload offset; the legacy compatibility read path (§4.5)
// recomputes it by re-reading the variable header at Offset.
const NoPayloadOffset = 0

// MaxNameLength bounds a length-prefixed group/variable/attribute name; it
// is stored as a u16 length, unlike mebo's u8-bounded metric names, since
// ADIOS paths are full filesystem-like paths and routinely exceed 255 bytes.
const MaxNameLength = math.MaxUint16
