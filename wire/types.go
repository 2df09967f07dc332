// Package wire defines the on-disk BP container format: element type tags,
// the minifooter layout, and the length-prefixed framing shared by every
// index section and characteristic record.
//
// Grounded on the teacher's format/types.go (a small uint8 enum with a
// String() method) and section/const.go (bit-exact layout constants),
// generalized from mebo's columnar time-series tags to ADIOS's element
// type tags and tagged-characteristic frames.
package wire

// TypeTag identifies the element type of a variable or attribute, matching
// the fixed set of scalar/array element kinds a BP file can describe.
type TypeTag uint8

const (
	TypeUnknown         TypeTag = 0
	TypeByte            TypeTag = 1
	TypeShort           TypeTag = 2
	TypeInteger         TypeTag = 3
	TypeLong            TypeTag = 4
	TypeUnsignedByte    TypeTag = 5
	TypeUnsignedShort   TypeTag = 6
	TypeUnsignedInteger TypeTag = 7
	TypeUnsignedLong    TypeTag = 8
	TypeReal            TypeTag = 9  // 32-bit float
	TypeDouble          TypeTag = 10 // 64-bit float
	TypeLongDouble      TypeTag = 11
	TypeString          TypeTag = 12
	TypeComplex         TypeTag = 13
	TypeDoubleComplex   TypeTag = 14
)

// String returns the literal name of the type tag, mirroring
// common_read_type_to_string from the reference reader.
func (t TypeTag) String() string {
	switch t {
	case TypeByte:
		return "byte"
	case TypeShort:
		return "short"
	case TypeInteger:
		return "integer"
	case TypeLong:
		return "long"
	case TypeUnsignedByte:
		return "unsigned_byte"
	case TypeUnsignedShort:
		return "unsigned_short"
	case TypeUnsignedInteger:
		return "unsigned_integer"
	case TypeUnsignedLong:
		return "unsigned_long"
	case TypeReal:
		return "real"
	case TypeDouble:
		return "double"
	case TypeLongDouble:
		return "long_double"
	case TypeString:
		return "string"
	case TypeComplex:
		return "complex"
	case TypeDoubleComplex:
		return "double_complex"
	default:
		return "unknown"
	}
}

// IsByteType reports whether t is byte or unsigned_byte, the only element
// types the attribute resolver will reinterpret as a string (§4.7).
func (t TypeTag) IsByteType() bool {
	return t == TypeByte || t == TypeUnsignedByte
}
