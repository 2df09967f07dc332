//go:build !cgo

package transform

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// decoderPool and encoderPool hold warmed-up zstd codecs: the library
// documents them as allocation-free after the first use, so bpio keeps
// them around across blocks instead of building one per call.
var decoderPool = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(false))
		if err != nil {
			panic(fmt.Sprintf("bpio: failed to create zstd decoder: %v", err))
		}

		return d
	},
}

var encoderPool = sync.Pool{
	New: func() any {
		e, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderCRC(false))
		if err != nil {
			panic(fmt.Sprintf("bpio: failed to create zstd encoder: %v", err))
		}

		return e
	},
}

func (ZstdCodec) Encode(data []byte) ([]byte, error) {
	e := encoderPool.Get().(*zstd.Encoder)
	defer encoderPool.Put(e)

	return e.EncodeAll(data, nil), nil
}

func (ZstdCodec) Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	d := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(d)

	out, err := d.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("bpio: zstd decompression failed: %w", err)
	}

	return out, nil
}
