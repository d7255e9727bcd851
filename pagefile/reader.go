package pagefile

import (
	"bytes"
	"fmt"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/hash"
	"github.com/arloliu/zbewalgo/internal/options"
	"github.com/arloliu/zbewalgo/section"
)

// maxDecodePrealloc bounds the buffer Decode reserves up front. A small file
// of well compressed pages may claim far more content than it carries, so
// larger outputs grow as pages are restored.
const maxDecodePrealloc = 64 * format.MaxInputSize

// Reader decodes a page file. The header and index are validated by
// NewReader; pages are decompressed on demand. A Reader owns an
// engine.Worker and is not safe for concurrent use.
type Reader struct {
	worker  *engine.Worker
	trusted bool
	data    []byte
	header  section.FileHeader
	entries []section.PageEntry
	offsets []int // payload offset of every page
}

// NewReader parses the header and page index of data.
//
// Parameters:
//   - e: Engine whose registry matches the writer's
//   - data: Complete page file
//   - opts: Reader options
//
// Returns:
//   - *Reader: The reader
//   - error: errs.ErrInvalidHeaderSize, errs.ErrInvalidPageFile or
//     errs.ErrInvalidPageSize for a malformed file
func NewReader(e *engine.Engine, data []byte, opts ...ReaderOption) (*Reader, error) {
	cfg := &ReaderConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	r := &Reader{worker: e.NewWorker(), trusted: cfg.trusted, data: data}
	if err := r.header.Parse(data); err != nil {
		return nil, err
	}
	if err := r.parseIndex(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Reader) parseIndex() error {
	count := int(r.header.PageCount)
	indexEnd := section.FileHeaderSize + r.header.IndexSize()
	if len(r.data) < indexEnd {
		return fmt.Errorf("%w: index truncated", errs.ErrInvalidPageFile)
	}

	r.entries = make([]section.PageEntry, count)
	r.offsets = make([]int, count)
	offset := indexEnd
	for i := range count {
		pos := section.FileHeaderSize + i*section.PageEntrySize
		if err := r.entries[i].Parse(r.data[pos:]); err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		e := r.entries[i]
		if e.Kind == format.PageRaw && int(e.StoredLength) != r.pageLength(i) {
			return fmt.Errorf("%w: raw page %d holds %d of %d bytes", errs.ErrInvalidPageFile, i, e.StoredLength, r.pageLength(i))
		}
		r.offsets[i] = offset
		offset += int(e.StoredLength)
	}
	if offset != len(r.data) {
		return fmt.Errorf("%w: payload ends at %d, file has %d bytes", errs.ErrInvalidPageFile, offset, len(r.data))
	}

	return nil
}

// PageCount returns the number of pages.
func (r *Reader) PageCount() int {
	return len(r.entries)
}

// PageSize returns the page size the file was written with.
func (r *Reader) PageSize() int {
	return int(r.header.PageSize)
}

// TotalLength returns the length of the original content.
func (r *Reader) TotalLength() int {
	return int(r.header.TotalLength) //nolint: gosec
}

// Entry returns the index entry of page i.
func (r *Reader) Entry(i int) (section.PageEntry, error) {
	if i < 0 || i >= len(r.entries) {
		return section.PageEntry{}, fmt.Errorf("%w: %d of %d", errs.ErrPageOutOfRange, i, len(r.entries))
	}

	return r.entries[i], nil
}

// pageLength returns the original length of page i.
func (r *Reader) pageLength(i int) int {
	size := int(r.header.PageSize)
	if i == int(r.header.PageCount)-1 {
		if rest := int(r.header.TotalLength) - i*size; rest > 0 { //nolint: gosec
			return rest
		}
	}

	return size
}

// Page returns the original bytes of page i.
//
// Returns:
//   - []byte: The page, a fresh slice
//   - error: errs.ErrPageOutOfRange, errs.ErrCorruptData or
//     errs.ErrChecksumMismatch
func (r *Reader) Page(i int) ([]byte, error) {
	return r.AppendPage(nil, i)
}

// AppendPage appends the original bytes of page i to dst.
func (r *Reader) AppendPage(dst []byte, i int) ([]byte, error) {
	entry, err := r.Entry(i)
	if err != nil {
		return dst, err
	}

	stored := r.data[r.offsets[i] : r.offsets[i]+int(entry.StoredLength)]
	if hash.Sum32(stored) != entry.StoredChecksum {
		return dst, fmt.Errorf("%w: stored page %d", errs.ErrChecksumMismatch, i)
	}

	start := len(dst)
	switch {
	case entry.Kind == format.PageRaw:
		dst = append(dst, stored...)
	case r.trusted:
		dst, err = r.worker.DecompressFast(dst, stored)
	default:
		dst, err = r.worker.DecompressSafe(dst, stored)
	}
	if err != nil {
		return dst[:start], fmt.Errorf("page %d: %w", i, err)
	}

	page := dst[start:]
	if len(page) != r.pageLength(i) {
		return dst[:start], fmt.Errorf("%w: page %d restored %d of %d bytes", errs.ErrCorruptData, i, len(page), r.pageLength(i))
	}
	if hash.Sum(page) != entry.Checksum {
		return dst[:start], fmt.Errorf("%w: page %d", errs.ErrChecksumMismatch, i)
	}

	return dst, nil
}

// Decode restores the complete content and checks it against the file
// digest.
func (r *Reader) Decode() ([]byte, error) {
	out := make([]byte, 0, r.decodeCapacity())
	digest := newDigest()

	var err error
	for i := range r.entries {
		start := len(out)
		if out, err = r.AppendPage(out, i); err != nil {
			return nil, err
		}
		_, _ = digest.Write(out[start:])
	}

	if err := r.checkDigest(digest.Sum(nil)); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Reader) decodeCapacity() int {
	return min(r.TotalLength(), maxDecodePrealloc)
}

// Verify decodes every page and checks all checksums without keeping the
// content.
func (r *Reader) Verify() error {
	digest := newDigest()
	buf := make([]byte, 0, r.PageSize())

	for i := range r.entries {
		page, err := r.AppendPage(buf[:0], i)
		if err != nil {
			return err
		}
		_, _ = digest.Write(page)
	}

	return r.checkDigest(digest.Sum(nil))
}

func (r *Reader) checkDigest(sum []byte) error {
	if !bytes.Equal(sum, r.header.Digest[:]) {
		return fmt.Errorf("%w: content digest", errs.ErrChecksumMismatch)
	}

	return nil
}
