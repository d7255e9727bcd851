package metrics

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// Counters collects per-combination statistics with atomic counters.
// The zero value is ready to use.
type Counters struct {
	wins     [format.MaxCombinations]atomic.Uint64
	attempts [format.MaxCombinations + 1]atomic.Uint64

	compressed      atomic.Uint64
	notCompressible atomic.Uint64
	rejected        atomic.Uint64
	bytesIn         atomic.Uint64
	bytesOut        atomic.Uint64

	decompressed atomic.Uint64
	corrupt      atomic.Uint64
}

var _ engine.Observer = (*Counters)(nil)

// NewCounters creates an empty set of counters.
func NewCounters() *Counters {
	return &Counters{}
}

// ObserveCompress implements engine.Observer.
func (c *Counters) ObserveCompress(ev engine.CompressEvent) {
	switch {
	case ev.Err == nil:
		c.compressed.Add(1)
		c.wins[ev.Combination%format.MaxCombinations].Add(1)
		c.attempts[min(ev.Attempts, format.MaxCombinations)].Add(1)
		c.bytesIn.Add(uint64(ev.InputSize))   //nolint: gosec
		c.bytesOut.Add(uint64(ev.OutputSize)) //nolint: gosec
	case errors.Is(ev.Err, errs.ErrNotCompressible):
		c.notCompressible.Add(1)
	default:
		c.rejected.Add(1)
	}
}

// ObserveDecompress implements engine.Observer.
func (c *Counters) ObserveDecompress(ev engine.DecompressEvent) {
	if ev.Err != nil {
		c.corrupt.Add(1)
		return
	}
	c.decompressed.Add(1)
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	for i := range c.wins {
		c.wins[i].Store(0)
	}
	for i := range c.attempts {
		c.attempts[i].Store(0)
	}
	for _, v := range []*atomic.Uint64{
		&c.compressed, &c.notCompressible, &c.rejected,
		&c.bytesIn, &c.bytesOut, &c.decompressed, &c.corrupt,
	} {
		v.Store(0)
	}
}

// Stats is a point-in-time copy of Counters.
type Stats struct {
	Compressed      uint64
	NotCompressible uint64
	Rejected        uint64 // calls failing for other reasons, e.g. oversized input
	BytesIn         uint64 // input bytes of compressed calls
	BytesOut        uint64 // record bytes of compressed calls
	Decompressed    uint64
	Corrupt         uint64

	// Wins maps a combination id to the number of calls it won.
	Wins map[int]uint64
	// Attempts maps a number of tried combinations to the number of
	// compressed calls that needed exactly that many.
	Attempts map[int]uint64
}

// Snapshot copies the current counter values. Zero entries are omitted from
// the maps.
func (c *Counters) Snapshot() Stats {
	s := Stats{
		Compressed:      c.compressed.Load(),
		NotCompressible: c.notCompressible.Load(),
		Rejected:        c.rejected.Load(),
		BytesIn:         c.bytesIn.Load(),
		BytesOut:        c.bytesOut.Load(),
		Decompressed:    c.decompressed.Load(),
		Corrupt:         c.corrupt.Load(),
		Wins:            make(map[int]uint64),
		Attempts:        make(map[int]uint64),
	}
	for i := range c.wins {
		if v := c.wins[i].Load(); v > 0 {
			s.Wins[i] = v
		}
	}
	for i := range c.attempts {
		if v := c.attempts[i].Load(); v > 0 {
			s.Attempts[i] = v
		}
	}

	return s
}

// Ratio returns BytesOut/BytesIn, or 0 before the first compressed call.
func (s Stats) Ratio() float64 {
	if s.BytesIn == 0 {
		return 0
	}

	return float64(s.BytesOut) / float64(s.BytesIn)
}

// Render writes the statistics as text, one counter per line. label names
// a combination id; nil prints the bare id.
func (s Stats) Render(w io.Writer, label func(id int) string) error {
	if label == nil {
		label = func(id int) string { return fmt.Sprintf("combination %d", id) }
	}

	_, err := fmt.Fprintf(w, "compressed %d\nnot compressible %d\nrejected %d\ndecompressed %d\ncorrupt %d\nratio %.3f\n",
		s.Compressed, s.NotCompressible, s.Rejected, s.Decompressed, s.Corrupt, s.Ratio())
	if err != nil {
		return err
	}
	for i := range format.MaxCombinations {
		if v, ok := s.Wins[i]; ok {
			if _, err := fmt.Fprintf(w, "%4d %-40s %d wins\n", i, label(i), v); err != nil {
				return err
			}
		}
	}
	for i := range format.MaxCombinations + 1 {
		if v, ok := s.Attempts[i]; ok {
			if _, err := fmt.Fprintf(w, "%4d attempts %d calls\n", i, v); err != nil {
				return err
			}
		}
	}

	return nil
}
