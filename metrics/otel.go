package metrics

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
)

// MeterName is the instrumentation scope of OTelRecorder.
const MeterName = "github.com/arloliu/zbewalgo"

// OTelRecorder exports engine events as OpenTelemetry metrics:
//
//	zbewalgo.compress.calls       counter, attributes result and combination
//	zbewalgo.compress.attempts    histogram of tried combinations per call
//	zbewalgo.compress.bytes_in    counter of compressed input bytes
//	zbewalgo.compress.bytes_out   counter of emitted record bytes
//	zbewalgo.decompress.calls     counter, attributes mode and result
type OTelRecorder struct {
	compressCalls   metric.Int64Counter
	attempts        metric.Int64Histogram
	bytesIn         metric.Int64Counter
	bytesOut        metric.Int64Counter
	decompressCalls metric.Int64Counter
}

var _ engine.Observer = (*OTelRecorder)(nil)

// NewOTelRecorder creates the instruments on mp, or on the global meter
// provider when mp is nil.
func NewOTelRecorder(mp metric.MeterProvider) (*OTelRecorder, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(MeterName)

	r := &OTelRecorder{}
	var err error

	r.compressCalls, err = meter.Int64Counter(
		"zbewalgo.compress.calls",
		metric.WithDescription("Number of compress calls"),
	)
	if err != nil {
		return nil, err
	}

	r.attempts, err = meter.Int64Histogram(
		"zbewalgo.compress.attempts",
		metric.WithDescription("Combinations tried per compress call"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10, 20, 50, 100, 256),
	)
	if err != nil {
		return nil, err
	}

	r.bytesIn, err = meter.Int64Counter(
		"zbewalgo.compress.bytes_in",
		metric.WithDescription("Input bytes of successful compress calls"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	r.bytesOut, err = meter.Int64Counter(
		"zbewalgo.compress.bytes_out",
		metric.WithDescription("Record bytes of successful compress calls"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	r.decompressCalls, err = meter.Int64Counter(
		"zbewalgo.decompress.calls",
		metric.WithDescription("Number of decompress calls"),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// ObserveCompress implements engine.Observer.
func (r *OTelRecorder) ObserveCompress(ev engine.CompressEvent) {
	ctx := context.Background()

	switch {
	case ev.Err == nil:
		r.compressCalls.Add(ctx, 1, metric.WithAttributes(
			attribute.String("result", "compressed"),
			attribute.Int("combination", ev.Combination),
		))
		r.attempts.Record(ctx, int64(ev.Attempts))
		r.bytesIn.Add(ctx, int64(ev.InputSize))
		r.bytesOut.Add(ctx, int64(ev.OutputSize))
	case errors.Is(ev.Err, errs.ErrNotCompressible):
		r.compressCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "not_compressible")))
		r.attempts.Record(ctx, int64(ev.Attempts))
	default:
		r.compressCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "rejected")))
	}
}

// ObserveDecompress implements engine.Observer.
func (r *OTelRecorder) ObserveDecompress(ev engine.DecompressEvent) {
	mode := "fast"
	if ev.Safe {
		mode = "safe"
	}
	result := "ok"
	if ev.Err != nil {
		result = "corrupt"
	}

	r.decompressCalls.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("result", result),
	))
}
