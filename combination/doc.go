// Package combination manages the ordered pipelines the engine searches.
//
// A Combination is a sequence of one to seven algorithm identifiers that is
// applied in order during compression and reversed during decompression.
// A Table holds up to 256 combinations. Readers work on immutable snapshots
// published through an atomic pointer, so compressions never block and never
// observe a half-updated table. Writers are serialized by the table itself.
//
// The administrative text commands are:
//
//	add bwt-mtf-huffman    append a combination unless it is already present
//	set rle                replace the whole table with one combination
//	reset                  reinstall the default combinations
//
// Snapshots can be persisted with MarshalSnapshot and restored with
// UnmarshalSnapshot. The encoding is deterministic CBOR and refers to
// algorithms by name, so it survives registry reordering.
package combination
