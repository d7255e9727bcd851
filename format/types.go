package format

import "strconv"

type (
	// AlgorithmID is the registry-assigned identifier of a base algorithm.
	// It is also the byte written into a record header for every pipeline step.
	AlgorithmID uint8

	// AlgorithmFlag classifies a base algorithm. It is descriptive only, the
	// engine never enforces it.
	AlgorithmFlag uint8

	// CompressionType identifies a general-purpose baseline codec.
	CompressionType uint8

	// PageKind tells how a page is stored inside a page file.
	PageKind uint8
)

// Identifiers of the default registry, in registration order.
const (
	AlgBewalgo    AlgorithmID = 0
	AlgBewalgo2   AlgorithmID = 1
	AlgBitshuffle AlgorithmID = 2
	AlgBWT        AlgorithmID = 3
	AlgJBE        AlgorithmID = 4
	AlgJBE2       AlgorithmID = 5
	AlgMTF        AlgorithmID = 6
	AlgRLE        AlgorithmID = 7
	AlgHuffman    AlgorithmID = 8
)

const (
	FlagCompress  AlgorithmFlag = 0x1 // FlagCompress marks an algorithm that changes the data size.
	FlagTransform AlgorithmFlag = 0x2 // FlagTransform marks an algorithm that only reorders or recodes data.

	CompressionNone   CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd   CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4    CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionSnappy CompressionType = 0x5 // CompressionSnappy represents Snappy block compression.

	PageRaw    PageKind = 0x0 // PageRaw is a page stored verbatim.
	PageRecord PageKind = 0x1 // PageRecord is a page stored as a compressed record.
)

var defaultAlgorithmNames = [...]string{
	AlgBewalgo:    "bewalgo",
	AlgBewalgo2:   "bewalgo2",
	AlgBitshuffle: "bitshuffle",
	AlgBWT:        "bwt",
	AlgJBE:        "jbe",
	AlgJBE2:       "jbe2",
	AlgMTF:        "mtf",
	AlgRLE:        "rle",
	AlgHuffman:    "huffman",
}

// String returns the name of the algorithm in the default registry.
// Identifiers outside the default registry are rendered as "alg<N>".
func (a AlgorithmID) String() string {
	if int(a) < len(defaultAlgorithmNames) {
		return defaultAlgorithmNames[a]
	}

	return "alg" + strconv.Itoa(int(a))
}

func (f AlgorithmFlag) String() string {
	switch f {
	case FlagCompress:
		return "Compress"
	case FlagTransform:
		return "Transform"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionSnappy:
		return "Snappy"
	default:
		return "Unknown"
	}
}

func (k PageKind) String() string {
	switch k {
	case PageRaw:
		return "Raw"
	case PageRecord:
		return "Record"
	default:
		return "Unknown"
	}
}
