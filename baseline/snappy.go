package baseline

import (
	"github.com/arloliu/zbewalgo/format"
	"github.com/golang/snappy"
)

// SnappyCodec compresses blocks with the Snappy block format.
type SnappyCodec struct{}

var _ Codec = (*SnappyCodec)(nil)

// NewSnappyCodec creates a new Snappy codec.
func NewSnappyCodec() SnappyCodec {
	return SnappyCodec{}
}

// Type implements Codec.
func (c SnappyCodec) Type() format.CompressionType {
	return format.CompressionSnappy
}

// Compress compresses the input data using Snappy block encoding.
func (c SnappyCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Encode(nil, data), nil
}

// Decompress decompresses a Snappy block.
func (c SnappyCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Decode(nil, data)
}
