package section

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// PageEntry describes one stored page in the page index.
type PageEntry struct {
	// StoredLength is the number of payload bytes of the page.
	//
	// Offset: 0, Size: 2 bytes
	StoredLength uint16

	// Kind tells whether the page is stored verbatim or as a record.
	//
	// Offset: 2, Size: 1 byte
	Kind format.PageKind

	// StoredChecksum is the low half of the xxHash64 of the stored bytes.
	// It rejects a damaged payload before it reaches a decompressor.
	//
	// Offset: 4, Size: 4 bytes
	StoredChecksum uint32

	// Checksum is the xxHash64 of the original page bytes.
	//
	// Offset: 8, Size: 8 bytes
	Checksum uint64
}

// Parse parses the entry from a byte slice of at least PageEntrySize bytes.
func (e *PageEntry) Parse(data []byte) error {
	if len(data) < PageEntrySize {
		return errs.ErrInvalidHeaderSize
	}

	if data[3] != 0 {
		return fmt.Errorf("%w: reserved entry byte set", errs.ErrInvalidPageFile)
	}

	e.StoredLength = binary.LittleEndian.Uint16(data[0:2])
	e.Kind = format.PageKind(data[2])
	e.StoredChecksum = binary.LittleEndian.Uint32(data[4:8])
	e.Checksum = binary.LittleEndian.Uint64(data[8:16])

	switch e.Kind {
	case format.PageRaw, format.PageRecord:
	default:
		return fmt.Errorf("%w: page kind %d", errs.ErrInvalidPageFile, e.Kind)
	}
	if e.StoredLength == 0 || e.StoredLength > format.MaxInputSize {
		return fmt.Errorf("%w: stored length %d", errs.ErrInvalidPageFile, e.StoredLength)
	}

	return nil
}

// Append appends the encoded entry to dst.
func (e *PageEntry) Append(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, e.StoredLength)
	dst = append(dst, byte(e.Kind), 0)
	dst = binary.LittleEndian.AppendUint32(dst, e.StoredChecksum)

	return binary.LittleEndian.AppendUint64(dst, e.Checksum)
}

// Bytes returns the encoded entry.
func (e *PageEntry) Bytes() []byte {
	return e.Append(make([]byte, 0, PageEntrySize))
}
