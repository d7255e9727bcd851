// Package pagefile stores arbitrary byte streams as a sequence of
// independently compressed pages.
//
// The input is split into pages of at most format.MaxInputSize bytes. Every
// page is compressed by an engine.Worker; pages the engine cannot shrink are
// stored verbatim. The file layout, all integers little-endian:
//
//	header (56 bytes)  magic "ZBWP", version, flags, page size, page count,
//	                   total length, BLAKE3-256 digest of the content
//	index              one 16-byte section.PageEntry per page
//	payload            stored pages back to back
//
// Each index entry carries the xxHash64 of its original page, so a reader
// detects any modified page and never returns wrong bytes.
package pagefile
