package transform

// NoopCodec passes a block's payload through unchanged, for variables
// written with no transform applied.
type NoopCodec struct{}

var _ Codec = NoopCodec{}

func (NoopCodec) Encode(data []byte) ([]byte, error) { return data, nil }
func (NoopCodec) Decode(data []byte) ([]byte, error) { return data, nil }
