package main

import (
	"context"
	"fmt"
	"io"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/arloliu/zbewalgo/metrics"
)

// otelSink collects the OpenTelemetry instruments of one command run in
// memory and prints them when the run is done.
type otelSink struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
	recorder *metrics.OTelRecorder
}

func newOTelSink() (*otelSink, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := metrics.NewOTelRecorder(provider)
	if err != nil {
		return nil, err
	}

	return &otelSink{reader: reader, provider: provider, recorder: rec}, nil
}

// Flush writes one line per instrument to w and shuts the provider down.
func (s *otelSink) Flush(ctx context.Context, w io.Writer) error {
	defer func() { _ = s.provider.Shutdown(ctx) }()

	var rm metricdata.ResourceMetrics
	if err := s.reader.Collect(ctx, &rm); err != nil {
		return err
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				fmt.Fprintf(w, "%-28s %d\n", m.Name, total)
			case metricdata.Histogram[int64]:
				var count uint64
				var sum int64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				fmt.Fprintf(w, "%-28s count=%d sum=%d\n", m.Name, count, sum)
			}
		}
	}

	return nil
}
