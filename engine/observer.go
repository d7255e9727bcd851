package engine

// CompressEvent describes one Worker.Compress call.
type CompressEvent struct {
	InputSize  int
	OutputSize int // record size including the header, 0 when not compressible
	// Combination is the winning combination id, or -1 when the input was
	// not compressible.
	Combination int
	Steps       int // applied steps of the winning combination
	Attempts    int // number of combinations tried
	EarlyAbort  bool
	Err         error
}

// Compressed reports whether the call produced a record.
func (ev CompressEvent) Compressed() bool {
	return ev.Combination >= 0
}

// DecompressEvent describes one Worker.DecompressSafe or DecompressFast call.
type DecompressEvent struct {
	InputSize  int
	OutputSize int
	Steps      int
	Safe       bool
	Err        error
}

// Observer receives one event per worker call. Implementations must be safe
// for concurrent use and should return quickly.
type Observer interface {
	ObserveCompress(ev CompressEvent)
	ObserveDecompress(ev DecompressEvent)
}

type nopObserver struct{}

func (nopObserver) ObserveCompress(CompressEvent)     {}
func (nopObserver) ObserveDecompress(DecompressEvent) {}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

var _ Observer = MultiObserver(nil)

// ObserveCompress implements Observer.
func (m MultiObserver) ObserveCompress(ev CompressEvent) {
	for _, o := range m {
		o.ObserveCompress(ev)
	}
}

// ObserveDecompress implements Observer.
func (m MultiObserver) ObserveDecompress(ev DecompressEvent) {
	for _, o := range m {
		o.ObserveDecompress(ev)
	}
}
