package baseline

import "github.com/arloliu/zbewalgo/format"

// NoOpCodec stores data unchanged. It is the reference point for the bench
// command and mirrors how the page file stores incompressible pages.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a new no-operation codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Type implements Codec.
func (c NoOpCodec) Type() format.CompressionType {
	return format.CompressionNone
}

// Compress returns the input slice as-is. The result shares memory with data.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is. The result shares memory with data.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
