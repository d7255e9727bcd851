package format

// Size limits shared by the engine, the algorithms and the page file.
const (
	// MaxInputSize is the largest buffer the engine accepts.
	MaxInputSize = 4096

	// BufferSize is the capacity of every intermediate pipeline buffer.
	// Transforms may expand their input, so it is twice MaxInputSize.
	BufferSize = 2 * MaxInputSize

	// MaxSteps is the maximum number of algorithms in one combination.
	MaxSteps = 7

	// MaxCombinations is the capacity of a combination table.
	MaxCombinations = 256

	// MaxAlgorithms is the capacity of an algorithm registry.
	MaxAlgorithms = 16

	// RecordHeaderSize is the size of the header that precedes every record payload.
	RecordHeaderSize = 1 + MaxSteps

	// MaxPayloadSize is the largest payload the engine may be configured to emit.
	MaxPayloadSize = MaxInputSize - RecordHeaderSize
)
