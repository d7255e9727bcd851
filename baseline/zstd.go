package baseline

import "github.com/arloliu/zbewalgo/format"

// ZstdCodec provides Zstandard compression.
//
// The default build uses the pure Go implementation from klauspost/compress.
// Building with the gozstd tag switches to the cgo binding of the reference
// library.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// Type implements Codec.
func (c ZstdCodec) Type() format.CompressionType {
	return format.CompressionZstd
}
