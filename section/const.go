package section

import "github.com/arloliu/zbewalgo/format"

const (
	// RecordHeaderSize is the size of a compressed record header.
	RecordHeaderSize = format.RecordHeaderSize

	FileHeaderSize = 56 // FileHeaderSize is the size of a page file header.
	PageEntrySize  = 16 // PageEntrySize is the size of one page index entry.
	DigestSize     = 32 // DigestSize is the size of the BLAKE3-256 content digest.

	// FileVersion is the only page file version written and accepted.
	FileVersion = 1
)

// FileMagic opens every page file.
var FileMagic = [4]byte{'Z', 'B', 'W', 'P'}
