package engine

import (
	"fmt"

	"github.com/arloliu/zbewalgo/combination"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/section"
)

// SearchHistory is the per-worker memory of the combination search.
type SearchHistory struct {
	// BestID is the combination that won the previous call.
	BestID uint8
	// RetryCounter counts down the calls until the search start is rotated.
	RetryCounter uint8
	// AcceptedSize is the previous winner's size plus 12.5%, clamped to the
	// maximum output size. Results below it end the search early.
	AcceptedSize int
}

// Worker is one execution context. It is not safe for concurrent use; give
// every goroutine its own worker.
type Worker struct {
	engine  *Engine
	history SearchHistory
	ws      *Workspace
}

// Engine returns the engine the worker belongs to.
func (w *Worker) Engine() *Engine {
	return w.engine
}

// History returns the current search history.
func (w *Worker) History() SearchHistory {
	return w.history
}

// ResetHistory forgets the cached best combination.
func (w *Worker) ResetHistory() {
	w.history = SearchHistory{}
}

// Compress compresses src and appends the record to dst.
//
// Parameters:
//   - dst: Destination, may be nil
//   - src: Input of 1 to format.MaxInputSize bytes
//
// Returns:
//   - []byte: dst extended by the record header and payload
//   - error: errs.ErrNotCompressible when no combination reaches the maximum
//     output size, errs.ErrInputTooLarge for oversized input
func (w *Worker) Compress(dst, src []byte) ([]byte, error) {
	ev := CompressEvent{InputSize: len(src), Combination: -1}
	dst, ev = w.compress(dst, src, ev)
	w.engine.observer.ObserveCompress(ev)

	return dst, ev.Err
}

// DecompressSafe restores the record src and appends the original bytes to
// dst. Every step validates its input, so malformed records yield
// errs.ErrCorruptData and never a panic.
func (w *Worker) DecompressSafe(dst, src []byte) ([]byte, error) {
	return w.decompress(dst, src, true)
}

// DecompressFast is DecompressSafe without validation. src must be a record
// produced by Compress of an engine with the same registry.
func (w *Worker) DecompressFast(dst, src []byte) ([]byte, error) {
	return w.decompress(dst, src, false)
}

func (w *Worker) compress(dst, src []byte, ev CompressEvent) ([]byte, CompressEvent) {
	if len(src) == 0 {
		ev.Err = errs.ErrNotCompressible
		return dst, ev
	}
	if len(src) > format.MaxInputSize {
		ev.Err = fmt.Errorf("%w: %d bytes", errs.ErrInputTooLarge, len(src))
		return dst, ev
	}

	e := w.engine
	snap := e.table.Snapshot()
	count := snap.Count()
	if count == 0 {
		ev.Err = fmt.Errorf("%w: %w", errs.ErrNotCompressible, errs.ErrEmptyTable)
		return dst, ev
	}
	maxOut := e.MaxOutputSize()
	early := e.EarlyAbortSize()

	h := &w.history
	from := int(h.BestID)
	if h.RetryCounter == 0 {
		from++
		h.RetryCounter = uint8(e.retryInterval - 1) //nolint: gosec
	} else {
		h.RetryCounter--
	}

	var (
		bufs       = &w.ws.bufs
		localAbort = max(h.AcceptedSize, early)
		best       = len(src)
		bestBuf    = -1
		bestID     = -1
		bestSteps  = 0
		bestCombo  combination.Combination
		attempts   = 0
		aborted    = false
	)

	ranges := [2][2]int{{from, count}, {0, min(from, count)}}
	passes := 1
	if from > 0 {
		passes = 2
	}

search:
	for p := range passes {
		for i := ranges[p][0]; i < ranges[p][1]; i++ {
			c, _ := snap.Get(i)
			attempts++

			in := src
			inBuf := -1
			for j := range c.Len() {
				alg, ok := e.registry.ByID(c.Step(j))
				if !ok {
					break
				}
				out := freeBuffer(bestBuf, inBuf)
				// Intermediate results may exceed the input size up to the
				// staging buffer; only the smallest result is emitted.
				n, err := alg.Compress(in, bufs[out], w.ws.scratch)
				if err != nil || n <= 0 || n > len(bufs[out]) {
					break
				}
				in, inBuf = bufs[out][:n], out
				if n < best {
					best, bestBuf = n, out
					bestID, bestSteps, bestCombo = i, j+1, c
				}
			}

			if bestID >= 0 && best < localAbort {
				aborted = true
				break search
			}
			localAbort = early
		}
	}

	ev.Attempts = attempts
	if bestID < 0 || best > maxOut {
		ev.Err = errs.ErrNotCompressible
		return dst, ev
	}

	h.BestID = uint8(bestID) //nolint: gosec
	h.AcceptedSize = min(max(best+best>>3, early), maxOut)

	hdr := section.RecordHeader{Steps: uint8(bestSteps)} //nolint: gosec
	for j := range bestSteps {
		hdr.IDs[j] = bestCombo.Step(j)
	}
	dst = hdr.Append(dst)
	dst = append(dst, bufs[bestBuf][:best]...)

	ev.Combination = bestID
	ev.Steps = bestSteps
	ev.OutputSize = section.RecordHeaderSize + best
	ev.EarlyAbort = aborted

	return dst, ev
}

// freeBuffer returns the staging buffer that holds neither the best result
// nor the current step input.
func freeBuffer(a, b int) int {
	for i := range 3 {
		if i != a && i != b {
			return i
		}
	}

	return 0
}

func (w *Worker) decompress(dst, src []byte, safe bool) ([]byte, error) {
	ev := DecompressEvent{InputSize: len(src), Safe: safe}
	out, err := w.replay(dst, src, safe, &ev)
	if err == nil {
		ev.OutputSize = len(out) - len(dst)
	}
	ev.Err = err
	w.engine.observer.ObserveDecompress(ev)

	return out, err
}

func (w *Worker) replay(dst, src []byte, safe bool, ev *DecompressEvent) ([]byte, error) {
	var h section.RecordHeader
	if err := h.Parse(src); err != nil {
		return dst, err
	}
	ev.Steps = int(h.Steps)

	reg := w.engine.registry
	payload := src[section.RecordHeaderSize:]
	if safe {
		if err := h.Validate(reg.Count()); err != nil {
			return dst, err
		}
		if len(payload) == 0 || len(payload) > format.MaxPayloadSize {
			return dst, fmt.Errorf("%w: payload of %d bytes", errs.ErrCorruptData, len(payload))
		}
	}

	in := payload
	cur := -1
	for j := int(h.Steps) - 1; j >= 0; j-- {
		alg, ok := reg.ByID(h.IDs[j])
		if !ok {
			return dst, fmt.Errorf("%w: unknown algorithm %d", errs.ErrCorruptData, h.IDs[j])
		}
		next := 0
		if cur == 0 {
			next = 1
		}

		var (
			n   int
			err error
		)
		if safe {
			n, err = alg.DecompressSafe(in, w.ws.bufs[next], w.ws.scratch)
		} else {
			n, err = alg.DecompressFast(in, w.ws.bufs[next], w.ws.scratch)
		}
		if err != nil {
			return dst, err
		}
		if safe {
			limit := format.BufferSize
			if j == 0 {
				limit = format.MaxInputSize
			}
			if n <= 0 || n > limit {
				return dst, fmt.Errorf("%w: step %d restored %d bytes", errs.ErrCorruptData, j, n)
			}
		}
		in, cur = w.ws.bufs[next][:n], next
	}

	return append(dst, in...), nil
}
