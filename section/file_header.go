package section

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// FileHeader is the fixed header of a page file.
type FileHeader struct {
	Version     uint8            // byte offset 4
	Flags       uint8            // byte offset 5, reserved
	PageSize    uint32           // byte offset 8-11
	PageCount   uint32           // byte offset 12-15
	TotalLength uint64           // byte offset 16-23
	Digest      [DigestSize]byte // byte offset 24-55
}

// NewFileHeader creates a header for totalLength bytes split into pages of
// pageSize bytes.
func NewFileHeader(pageSize int, totalLength int) FileHeader {
	return FileHeader{
		Version:     FileVersion,
		PageSize:    uint32(pageSize),                         //nolint: gosec
		PageCount:   uint32(PageCount(totalLength, pageSize)), //nolint: gosec
		TotalLength: uint64(totalLength),                      //nolint: gosec
	}
}

// PageCount returns the number of pages needed for totalLength bytes.
func PageCount(totalLength, pageSize int) int {
	return (totalLength + pageSize - 1) / pageSize
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice starting with the header (at least FileHeaderSize bytes)
//
// Returns:
//   - error: errs.ErrInvalidHeaderSize for short input, errs.ErrInvalidPageFile
//     or errs.ErrInvalidPageSize for inconsistent fields
func (h *FileHeader) Parse(data []byte) error {
	if len(data) < FileHeaderSize {
		return errs.ErrInvalidHeaderSize
	}
	if [4]byte(data[0:4]) != FileMagic {
		return fmt.Errorf("%w: bad magic %q", errs.ErrInvalidPageFile, data[0:4])
	}

	if data[6] != 0 || data[7] != 0 {
		return fmt.Errorf("%w: reserved header bytes set", errs.ErrInvalidPageFile)
	}

	h.Version = data[4]
	h.Flags = data[5]
	h.PageSize = binary.LittleEndian.Uint32(data[8:12])
	h.PageCount = binary.LittleEndian.Uint32(data[12:16])
	h.TotalLength = binary.LittleEndian.Uint64(data[16:24])
	copy(h.Digest[:], data[24:56])

	return h.Validate()
}

// Validate checks the header fields against each other.
func (h *FileHeader) Validate() error {
	if h.Version != FileVersion {
		return fmt.Errorf("%w: version %d", errs.ErrInvalidPageFile, h.Version)
	}
	if h.Flags != 0 {
		return fmt.Errorf("%w: flags 0x%02x", errs.ErrInvalidPageFile, h.Flags)
	}
	if h.PageSize == 0 || h.PageSize > format.MaxInputSize {
		return fmt.Errorf("%w: %d", errs.ErrInvalidPageSize, h.PageSize)
	}

	want := (h.TotalLength + uint64(h.PageSize) - 1) / uint64(h.PageSize)
	if uint64(h.PageCount) != want {
		return fmt.Errorf("%w: %d pages for %d bytes", errs.ErrInvalidPageFile, h.PageCount, h.TotalLength)
	}

	return nil
}

// Append appends the encoded header to dst.
func (h *FileHeader) Append(dst []byte) []byte {
	dst = append(dst, FileMagic[:]...)
	dst = append(dst, h.Version, h.Flags, 0, 0)
	dst = binary.LittleEndian.AppendUint32(dst, h.PageSize)
	dst = binary.LittleEndian.AppendUint32(dst, h.PageCount)
	dst = binary.LittleEndian.AppendUint64(dst, h.TotalLength)

	return append(dst, h.Digest[:]...)
}

// Bytes returns the encoded header.
func (h *FileHeader) Bytes() []byte {
	return h.Append(make([]byte, 0, FileHeaderSize))
}

// IndexSize returns the size of the page index that follows the header.
func (h *FileHeader) IndexSize() int {
	return int(h.PageCount) * PageEntrySize
}

// ParseFileHeader parses a FileHeader from the start of data.
func ParseFileHeader(data []byte) (FileHeader, error) {
	var h FileHeader
	if err := h.Parse(data); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
