package transform

// ZstdCodec decodes blocks a writer compressed with Zstandard. Its
// methods are implemented in zstd_cgo.go (valyala/gozstd, cgo) or
// zstd_pure.go (klauspost/compress/zstd, pure Go) depending on build tags.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}
