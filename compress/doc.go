// Package compress implements the base algorithms of the zbewalgo engine and
// the registry that assigns them stable identifiers.
//
// # Overview
//
// Every base algorithm is one step of a pipeline (a combination). The engine
// chains steps through double buffers, so each algorithm works on
// caller-provided memory only:
//
//	type Algorithm interface {
//	    Name() string
//	    Flags() format.AlgorithmFlag
//	    ScratchWords() int
//	    Compress(src, dst []byte, scratch []uint16) (int, error)
//	    DecompressSafe(src, dst []byte, scratch []uint16) (int, error)
//	    DecompressFast(src, dst []byte, scratch []uint16) (int, error)
//	}
//
// # Algorithms
//
// The default registry holds nine algorithms, in this order:
//
//	id  name        flag       technique
//	0   bewalgo     Compress   8-byte granular LZ with a hash table
//	1   bewalgo2    Compress   8-byte literal table indexed by an AVL tree
//	2   bitshuffle  Transform  byte-plane transpose of 8-byte groups
//	3   bwt         Transform  order-1 Burrows-Wheeler transform
//	4   jbe         Compress   zero-byte presence bitmap
//	5   jbe2        Compress   jbe after a nibble swap inside each group
//	6   mtf         Transform  move-to-front
//	7   rle         Compress   literal and repeat runs
//	8   huffman     Compress   Huffman coder with an implicit sorted tree
//
// # Safe and Fast Decoding
//
// DecompressSafe validates every length, index and offset taken from its
// input and reports errs.ErrCorruptData instead of reading or writing out of
// range. DecompressFast skips those checks and must only see data produced by
// Compress. On malformed input it may return garbage or panic with an index
// out of range, but it never writes outside dst.
//
// # Memory
//
// All algorithms are allocation free. Working tables live in the scratch
// slice, whose minimum length per algorithm is reported by ScratchWords.
// dst must be at least format.BufferSize bytes for decompression. Compress
// fails with errs.ErrNotCompressible when its output would not fit in dst.
package compress
