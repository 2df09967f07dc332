package transform

import "github.com/klauspost/compress/s2"

// S2Codec decodes blocks a writer compressed with S2, klauspost/compress's
// faster Snappy-compatible codec.
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (S2Codec) Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
