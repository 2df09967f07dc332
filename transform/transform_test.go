package transform

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func sample() []byte {
	return bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 64)
}

func TestNoopCodecIsIdentity(t *testing.T) {
	data := sample()

	enc, err := NoopCodec{}.Encode(data)
	require.NoError(t, err)
	require.Equal(t, data, enc)

	dec, err := NoopCodec{}.Decode(enc)
	require.NoError(t, err)
	require.Equal(t, data, dec)
}

func TestLZ4CodecRoundTrip(t *testing.T) {
	data := sample()

	enc, err := LZ4Codec{}.Encode(data)
	require.NoError(t, err)
	require.NotEmpty(t, enc)

	dec, err := LZ4Codec{}.Decode(enc)
	require.NoError(t, err)
	require.Equal(t, data, dec)
}

func TestLZ4CodecEmptyInput(t *testing.T) {
	enc, err := LZ4Codec{}.Encode(nil)
	require.NoError(t, err)
	require.Empty(t, enc)

	dec, err := LZ4Codec{}.Decode(nil)
	require.NoError(t, err)
	require.Empty(t, dec)
}

func TestS2CodecRoundTrip(t *testing.T) {
	data := sample()

	enc, err := S2Codec{}.Encode(data)
	require.NoError(t, err)
	require.NotEmpty(t, enc)

	dec, err := S2Codec{}.Decode(enc)
	require.NoError(t, err)
	require.Equal(t, data, dec)
}

func TestZstdCodecRoundTrip(t *testing.T) {
	data := sample()

	enc, err := ZstdCodec{}.Encode(data)
	require.NoError(t, err)
	require.NotEmpty(t, enc)

	dec, err := ZstdCodec{}.Decode(enc)
	require.NoError(t, err)
	require.Equal(t, data, dec)
}

func TestTypeString(t *testing.T) {
	cases := map[Type]string{
		TypeNone: "none",
		TypeZstd: "zstd",
		TypeLZ4:  "lz4",
		TypeS2:   "s2",
		Type(99): "unknown",
	}

	for tag, want := range cases {
		require.Equal(t, want, tag.String())
	}
}

func TestRegistryDecodesEachRegisteredType(t *testing.T) {
	r := NewRegistry()
	data := sample()

	none, err := r.Decode(TypeNone, data)
	require.NoError(t, err)
	require.Equal(t, data, none)

	lz4Enc, err := LZ4Codec{}.Encode(data)
	require.NoError(t, err)
	lz4Dec, err := r.Decode(TypeLZ4, lz4Enc)
	require.NoError(t, err)
	require.Equal(t, data, lz4Dec)
}

func TestRegistryUnknownTypeErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(Type(250), []byte("x"))
	require.Error(t, err)
}

func TestRegistryRegisterOverridesCodec(t *testing.T) {
	r := NewRegistry()
	r.Register(TypeNone, fixedCodec{out: []byte("replaced")})

	got, err := r.Decode(TypeNone, []byte("anything"))
	require.NoError(t, err)
	require.Equal(t, []byte("replaced"), got)
}

type fixedCodec struct{ out []byte }

func (f fixedCodec) Encode(data []byte) ([]byte, error) { return f.out, nil }
func (f fixedCodec) Decode(data []byte) ([]byte, error) { return f.out, nil }
