// Package transform is the opaque block-transform extension point
// referenced by §4.1 and the design notes: a BP block's payload may have
// been run through a compressor at write time. bpio treats every transform
// as a byte-stream codec keyed by a Type; the characteristic format bpio
// parses carries no transform tag, and the read path never consults a
// Registry, so blocks are always read as stored. No transform's internal format
// is otherwise interpreted, matching the "extension point only" scope
// (non-goal: implementing any specific compression algorithm's internals).
//
// Grounded on the teacher's compress package: the same Compressor/
// Decompressor/Codec interface split, the same per-algorithm pooling
// idioms, and the same cgo/pure-Go split for zstd.
package transform

import "fmt"

// Type identifies which codec a block's payload was run through.
type Type uint8

const (
	TypeNone Type = 0
	TypeZstd Type = 1
	TypeLZ4  Type = 2
	TypeS2   Type = 3
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeZstd:
		return "zstd"
	case TypeLZ4:
		return "lz4"
	case TypeS2:
		return "s2"
	default:
		return "unknown"
	}
}

// Codec decodes (and, for write-side symmetry, encodes) a block payload.
// The planner calls neither method; Encode exists so a Codec value is
// reversible and testable on its own.
type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// Registry resolves a Type to the Codec that handles it. The zero value
// accepts Register but knows no codec, not even TypeNone; NewRegistry
// returns one with every built-in codec registered.
type Registry struct {
	codecs map[Type]Codec
}

// NewRegistry returns a Registry pre-populated with every codec bpio ships:
// none (identity), zstd, lz4, and s2.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[Type]Codec, 4)}
	r.Register(TypeNone, NoopCodec{})
	r.Register(TypeZstd, ZstdCodec{})
	r.Register(TypeLZ4, LZ4Codec{})
	r.Register(TypeS2, S2Codec{})

	return r
}

// Register adds or replaces the codec bpio uses for t.
func (r *Registry) Register(t Type, c Codec) {
	if r.codecs == nil {
		r.codecs = make(map[Type]Codec)
	}

	r.codecs[t] = c
}

// Decode looks up the codec for t and decodes data, per §4.1's transform
// extension point.
func (r *Registry) Decode(t Type, data []byte) ([]byte, error) {
	c, ok := r.codecs[t]
	if !ok {
		return nil, fmt.Errorf("bpio: no transform codec registered for type %s", t)
	}

	return c.Decode(data)
}
