package pagefile

import (
	"errors"
	"fmt"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/hash"
	"github.com/arloliu/zbewalgo/internal/options"
	"github.com/arloliu/zbewalgo/internal/pool"
	"github.com/arloliu/zbewalgo/section"
)

// Writer encodes byte streams into page files. A Writer owns an
// engine.Worker and is not safe for concurrent use.
type Writer struct {
	worker   *engine.Worker
	pageSize int
	entries  []section.PageEntry
}

// NewWriter creates a writer compressing with e.
//
// Parameters:
//   - e: Engine used for page compression
//   - opts: Writer options
//
// Returns:
//   - *Writer: The writer
//   - error: errs.ErrInvalidPageSize for an invalid WithPageSize
func NewWriter(e *engine.Engine, opts ...WriterOption) (*Writer, error) {
	cfg := &WriterConfig{pageSize: DefaultPageSize}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Writer{worker: e.NewWorker(), pageSize: cfg.pageSize}, nil
}

// PageSize returns the configured page size.
func (w *Writer) PageSize() int {
	return w.pageSize
}

// Encode splits data into pages and returns the complete page file.
//
// Returns:
//   - []byte: The encoded file, header and index included
//   - error: Unexpected engine errors; pages that do not compress are
//     stored verbatim and are not an error
func (w *Writer) Encode(data []byte) ([]byte, error) {
	header := section.NewFileHeader(w.pageSize, len(data))
	pages := int(header.PageCount)

	w.entries = w.entries[:0]
	payload := pool.GetPageFileBuffer()
	defer pool.PutPageFileBuffer(payload)

	digest := newDigest()
	for i := range pages {
		page := data[i*w.pageSize : min((i+1)*w.pageSize, len(data))]
		entry, err := w.appendPage(payload, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		w.entries = append(w.entries, entry)
		_, _ = digest.Write(page)
	}
	copy(header.Digest[:], digest.Sum(nil))

	size := section.FileHeaderSize + header.IndexSize() + payload.Len()
	out := make([]byte, 0, size)
	out = header.Append(out)
	for i := range w.entries {
		out = w.entries[i].Append(out)
	}
	out = append(out, payload.Bytes()...)

	return out, nil
}

// appendPage stores page at the end of payload and returns its index entry.
// A record is only kept when it is shorter than the page itself.
func (w *Writer) appendPage(payload *pool.ByteBuffer, page []byte) (section.PageEntry, error) {
	entry := section.PageEntry{Kind: format.PageRaw, Checksum: hash.Sum(page)}
	start := payload.Len()

	rec, err := w.worker.Compress(payload.B, page)
	switch {
	case err == nil && len(rec)-start < len(page):
		payload.B = rec
		entry.Kind = format.PageRecord
	case err == nil, errors.Is(err, errs.ErrNotCompressible):
		payload.B = payload.B[:start]
		_, _ = payload.Write(page)
	default:
		return section.PageEntry{}, err
	}
	stored := payload.B[start:]
	entry.StoredLength = uint16(len(stored)) //nolint: gosec
	entry.StoredChecksum = hash.Sum32(stored)

	return entry, nil
}
