package codec

import (
	"math"
	"testing"

	"github.com/bpio-project/bpio/endian"
	"github.com/bpio-project/bpio/wire"
	"github.com/stretchr/testify/require"
)

func TestFixedElementSize(t *testing.T) {
	cases := map[wire.TypeTag]int{
		wire.TypeByte:          1,
		wire.TypeUnsignedByte:  1,
		wire.TypeShort:         2,
		wire.TypeUnsignedShort: 2,
		wire.TypeInteger:       4,
		wire.TypeReal:          4,
		wire.TypeLong:          8,
		wire.TypeDouble:        8,
		wire.TypeLongDouble:    16,
		wire.TypeDoubleComplex: 16,
	}

	for tag, want := range cases {
		got, err := FixedElementSize(tag)
		require.NoError(t, err)
		require.Equal(t, want, got, "tag %v", tag)
	}
}

func TestFixedElementSizeRejectsString(t *testing.T) {
	_, err := FixedElementSize(wire.TypeString)
	require.Error(t, err)
}

func TestTypeSizeString(t *testing.T) {
	size, err := TypeSize(wire.TypeString, []byte("hello\x00trailing"))
	require.NoError(t, err)
	require.Equal(t, 6, size)

	size, err = TypeSize(wire.TypeString, []byte("nonull"))
	require.NoError(t, err)
	require.Equal(t, 6, size)
}

func TestSwapEndianness(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	data := engine.AppendUint32(nil, 0x01020304)

	require.NoError(t, SwapEndianness(data, wire.TypeInteger))
	require.Equal(t, uint32(0x01020304), endian.GetLittleEndianEngine().Uint32(data))
}

func TestSwapEndiannessMultipleElements(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	data := engine.AppendUint16(nil, 1)
	data = engine.AppendUint16(data, 2)

	require.NoError(t, SwapEndianness(data, wire.TypeShort))

	le := endian.GetLittleEndianEngine()
	require.Equal(t, uint16(1), le.Uint16(data[0:2]))
	require.Equal(t, uint16(2), le.Uint16(data[2:4]))
}

func TestSwapEndiannessByteTypeNoop(t *testing.T) {
	data := []byte{1, 2, 3}
	require.NoError(t, SwapEndianness(data, wire.TypeByte))
	require.Equal(t, []byte{1, 2, 3}, data)
}

func TestSwapEndiannessStringNoop(t *testing.T) {
	data := []byte("abc")
	require.NoError(t, SwapEndianness(data, wire.TypeString))
	require.Equal(t, []byte("abc"), data)
}

func TestLessThanIntegerTypes(t *testing.T) {
	host := endian.CheckEndianness()

	a := host.AppendUint32(nil, 5)
	b := host.AppendUint32(nil, 10)

	less, err := LessThan(wire.TypeUnsignedInteger, a, b)
	require.NoError(t, err)
	require.True(t, less)

	less, err = LessThan(wire.TypeUnsignedInteger, b, a)
	require.NoError(t, err)
	require.False(t, less)
}

func TestLessThanSignedInteger(t *testing.T) {
	host := endian.CheckEndianness()

	neg := host.AppendUint32(nil, uint32(int32(-5)))
	pos := host.AppendUint32(nil, uint32(int32(5)))

	less, err := LessThan(wire.TypeInteger, neg, pos)
	require.NoError(t, err)
	require.True(t, less)
}

func TestLessThanFloat(t *testing.T) {
	host := endian.CheckEndianness()

	a := host.AppendUint64(nil, math.Float64bits(1.5))
	b := host.AppendUint64(nil, math.Float64bits(2.5))

	less, err := LessThan(wire.TypeDouble, a, b)
	require.NoError(t, err)
	require.True(t, less)
}

func TestLessThanByte(t *testing.T) {
	less, err := LessThan(wire.TypeByte, []byte{1}, []byte{2})
	require.NoError(t, err)
	require.True(t, less)

	less, err = LessThan(wire.TypeUnsignedByte, []byte{200}, []byte{100})
	require.NoError(t, err)
	require.False(t, less)
}

func TestLessThanUnknownTag(t *testing.T) {
	_, err := LessThan(wire.TypeString, []byte{1}, []byte{2})
	require.Error(t, err)
}
