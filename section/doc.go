// Package section defines the fixed binary layouts of zbewalgo.
//
// # Compressed Record
//
// Every record produced by the engine starts with an 8-byte RecordHeader:
//
//	+-------+------+------+-----+------+----------------------+
//	| steps | id 0 | id 1 | ... | id 6 | payload ...          |
//	+-------+------+------+-----+------+----------------------+
//	   1B     1B     1B           1B
//
// steps is 1..7. The ids are registry identifiers in the order the algorithms
// were applied; unused slots are zero. The payload is the output of the last
// applied algorithm.
//
// # Page File
//
// A page file stores a byte stream split into pages of at most 4096 bytes.
// All integers are little-endian.
//
//	FileHeader (56 bytes)
//	  0   magic "ZBWP"
//	  4   version
//	  5   flags (reserved, zero)
//	  6   reserved u16
//	  8   page size u32
//	  12  page count u32
//	  16  total length u64
//	  24  BLAKE3-256 digest of the original stream
//	PageEntry x page count (16 bytes each)
//	  0   stored length u16
//	  2   kind (0 raw, 1 record)
//	  3   reserved u8
//	  4   u32 low half of the xxHash64 of the stored bytes
//	  8   xxHash64 of the original page
//	Payload
//	  stored pages back to back, in page order
package section
