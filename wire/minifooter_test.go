package wire

import (
	"testing"

	"github.com/bpio-project/bpio/endian"
	"github.com/stretchr/testify/require"
)

func buildMinifooter(t *testing.T, bigEndian bool, mf Minifooter) []byte {
	t.Helper()

	engine := endian.EndianEngine(endian.GetLittleEndianEngine())
	if bigEndian {
		engine = endian.GetBigEndianEngine()
	}
	mf.FileIsBigEndian = bigEndian

	return AppendMinifooter(nil, mf, engine)
}

func TestParseMinifooterRoundTripLittleEndian(t *testing.T) {
	mf := Minifooter{PGsIndexOffset: 100, VarsIndexOffset: 200, AttrsIndexOffset: 300, Version: 1}
	tail := buildMinifooter(t, false, mf)

	fileSize := int64(300) + 1000 // attrs offset must leave room before minifooter
	parsed, err := ParseMinifooter(tail, fileSize)
	require.NoError(t, err)
	require.Equal(t, uint64(100), parsed.PGsIndexOffset)
	require.Equal(t, uint64(200), parsed.VarsIndexOffset)
	require.Equal(t, uint64(300), parsed.AttrsIndexOffset)
	require.Equal(t, uint32(1), parsed.Version)
	require.False(t, parsed.FileIsBigEndian)
}

func TestParseMinifooterRoundTripBigEndian(t *testing.T) {
	mf := Minifooter{PGsIndexOffset: 100, VarsIndexOffset: 200, AttrsIndexOffset: 300, Version: 7}
	tail := buildMinifooter(t, true, mf)

	fileSize := int64(300) + 1000
	parsed, err := ParseMinifooter(tail, fileSize)
	require.NoError(t, err)
	require.Equal(t, uint64(100), parsed.PGsIndexOffset)
	require.Equal(t, uint32(7), parsed.Version)
	require.True(t, parsed.FileIsBigEndian)
}

func TestParseMinifooterWrongSize(t *testing.T) {
	_, err := ParseMinifooter(make([]byte, MinifooterSize-1), 1000)
	require.Error(t, err)
}

func TestParseMinifooterOffsetsOutOfOrder(t *testing.T) {
	mf := Minifooter{PGsIndexOffset: 300, VarsIndexOffset: 200, AttrsIndexOffset: 400}
	tail := buildMinifooter(t, false, mf)

	_, err := ParseMinifooter(tail, 10000)
	require.Error(t, err)
}

func TestParseMinifooterAttrsDoesNotFit(t *testing.T) {
	mf := Minifooter{PGsIndexOffset: 10, VarsIndexOffset: 20, AttrsIndexOffset: 900}
	tail := buildMinifooter(t, false, mf)

	_, err := ParseMinifooter(tail, 900+MinifooterSize)
	require.Error(t, err)
}

func TestMinifooterEngine(t *testing.T) {
	le := Minifooter{FileIsBigEndian: false}
	require.Equal(t, endian.GetLittleEndianEngine(), le.Engine())

	be := Minifooter{FileIsBigEndian: true}
	require.Equal(t, endian.GetBigEndianEngine(), be.Engine())
}
