// Package zbewalgo is an adaptive compressor for memory pages and other
// buffers of at most 4096 bytes.
//
// Instead of one fixed algorithm, zbewalgo keeps a table of combinations:
// short pipelines of simple transforms and entropy coders such as
// bwt-mtf-huffman-jbe-rle. Each compression runs the combinations against the
// input and keeps the smallest result. The chosen pipeline is recorded in an
// 8-byte header so decompression replays it in reverse without any search.
// A per-worker search history remembers the last winner, so similar pages
// usually need a single attempt.
//
// # Core Features
//
//   - Nine base algorithms: bewalgo, bewalgo2, bitshuffle, bwt, jbe, jbe2,
//     mtf, rle and huffman
//   - Up to 256 combinations of up to 7 steps, changeable at runtime
//   - Safe decompression for untrusted input, fast decompression for trusted input
//   - Allocation-free workers with caller-visible workspace sizing
//   - Page files for inputs of any length (see the pagefile package)
//   - Statistics through plain counters or OpenTelemetry (see the metrics package)
//
// # Basic Usage
//
// Compressing with the shared default engine:
//
//	record, err := zbewalgo.Compress(nil, page)
//	if errors.Is(err, errs.ErrNotCompressible) {
//	    // store the page verbatim
//	}
//
//	page, err = zbewalgo.DecompressSafe(nil, record)
//
// Running a dedicated engine with one worker per goroutine:
//
//	e, _ := zbewalgo.NewEngine(engine.WithEarlyAbortSize(200))
//	w := e.NewWorker()
//	record, err := w.Compress(buf[:0], page)
//
// # Package Structure
//
// This package wraps a lazily created default engine and a pool of its
// workers. Use the engine package directly for custom registries, tables,
// observers and workspaces.
package zbewalgo

import (
	"sync"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/internal/pool"
	"github.com/arloliu/zbewalgo/pagefile"
)

var (
	defaultEngine = sync.OnceValue(func() *engine.Engine {
		e, err := engine.New()
		if err != nil {
			panic("zbewalgo: default engine: " + err.Error())
		}

		return e
	})

	workerPool = pool.New(func() *engine.Worker { return Default().NewWorker() }, nil)
)

// Default returns the shared engine used by the package-level functions.
//
// Changes made through it, such as Exec or SetMaxOutputSize, apply to every
// later package-level call.
func Default() *engine.Engine {
	return defaultEngine()
}

// NewEngine creates an engine independent of the default one.
//
// Parameters:
//   - opts: Optional configuration (see engine.Option)
//
// Returns:
//   - *engine.Engine: The created engine
//   - error: errs.ErrInvalidConfig for invalid options
//
// Available options:
//   - engine.WithMaxOutputSize(n) / engine.WithEarlyAbortSize(n)
//   - engine.WithBWTMaxAlphabet(n) / engine.WithRetryInterval(n)
//   - engine.WithCombinations("a-b-c", ...) / engine.WithTable(t)
//   - engine.WithRegistry(r) / engine.WithLogger(l) / engine.WithObserver(o)
func NewEngine(opts ...engine.Option) (*engine.Engine, error) {
	return engine.New(opts...)
}

// NewWorker creates a worker of the default engine with its own workspace
// and search history. Use one per goroutine.
func NewWorker() *engine.Worker {
	return Default().NewWorker()
}

// RequiredScratchSize returns the workspace size in bytes one worker of the
// default engine needs.
func RequiredScratchSize() int {
	return Default().RequiredScratchSize()
}

// Compress compresses src, at most 4096 bytes, and appends the record to dst.
//
// Returns:
//   - []byte: dst extended by the record
//   - error: errs.ErrNotCompressible when no combination beats the maximum
//     output size, errs.ErrInputTooLarge for oversized input
func Compress(dst, src []byte) ([]byte, error) {
	w := workerPool.Get()
	defer workerPool.Put(w)

	return w.Compress(dst, src)
}

// DecompressSafe restores a record from an untrusted source and appends the
// bytes to dst. Malformed records yield errs.ErrCorruptData.
func DecompressSafe(dst, src []byte) ([]byte, error) {
	w := workerPool.Get()
	defer workerPool.Put(w)

	return w.DecompressSafe(dst, src)
}

// DecompressFast restores a record produced by Compress. Use DecompressSafe
// for anything else.
func DecompressFast(dst, src []byte) ([]byte, error) {
	w := workerPool.Get()
	defer workerPool.Put(w)

	return w.DecompressFast(dst, src)
}

// Exec applies an administrative combination command such as
// "add bwt-mtf-rle", "set rle" or "reset" to the default engine.
func Exec(line string) (bool, error) {
	return Default().Exec(line)
}

// EncodePages packs data of any length into a page file using the default
// engine.
func EncodePages(data []byte, opts ...pagefile.WriterOption) ([]byte, error) {
	w, err := pagefile.NewWriter(Default(), opts...)
	if err != nil {
		return nil, err
	}

	return w.Encode(data)
}

// DecodePages restores the content of a page file written by EncodePages.
func DecodePages(file []byte, opts ...pagefile.ReaderOption) ([]byte, error) {
	r, err := pagefile.NewReader(Default(), file, opts...)
	if err != nil {
		return nil, err
	}

	return r.Decode()
}
