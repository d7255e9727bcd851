package main

import (
	"context"
	"fmt"

	"github.com/arloliu/zbewalgo/combination"
	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/metrics"
	"github.com/arloliu/zbewalgo/pagefile"
)

func (e env) runCompress(args []string) error {
	var (
		c        common
		input    string
		output   string
		pageSize int
		stats    bool
		otelOut  bool
	)

	flags := newFlagSet("compress", e.stderr, &c)
	flags.StringVarP(&input, "input", "i", "-", "input file, - for stdin")
	flags.StringVarP(&output, "output", "o", "-", "output page file, - for stdout")
	flags.IntVar(&pageSize, "page-size", 0, "page size in bytes, 1 to 4096 (default from config)")
	flags.BoolVar(&stats, "stats", false, "print combination statistics to stderr")
	flags.BoolVar(&otelOut, "otel", false, "print OpenTelemetry metrics to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	counters := metrics.NewCounters()
	observers := engine.MultiObserver{counters}

	var sink *otelSink
	if otelOut {
		var err error
		if sink, err = newOTelSink(); err != nil {
			return err
		}
		observers = append(observers, sink.recorder)
	}

	cfg, eng, err := e.setup(&c, engine.WithObserver(observers))
	if err != nil {
		return err
	}
	if !flags.Changed("page-size") {
		pageSize = cfg.PageSize
	}

	data, err := e.readInput(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	w, err := pagefile.NewWriter(eng, pagefile.WithPageSize(pageSize))
	if err != nil {
		return err
	}

	file, err := w.Encode(data)
	if err != nil {
		return fmt.Errorf("compressing: %w", err)
	}

	if err := e.writeOutput(output, file); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if stats {
		fmt.Fprintf(e.stderr, "%d bytes -> %d bytes\n", len(data), len(file))
		if err := counters.Snapshot().Render(e.stderr, combinationLabel(eng.Table().Snapshot(), eng.Registry())); err != nil {
			return err
		}
	}
	if sink != nil {
		return sink.Flush(context.Background(), e.stderr)
	}

	return nil
}

func (e env) runDecompress(args []string) error {
	var (
		c      common
		input  string
		output string
		fast   bool
		verify bool
	)

	flags := newFlagSet("decompress", e.stderr, &c)
	flags.StringVarP(&input, "input", "i", "-", "input page file, - for stdin")
	flags.StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	flags.BoolVar(&fast, "fast", false, "skip bounds checks during decompression (trusted files only)")
	flags.BoolVar(&verify, "verify", false, "only verify the file, write nothing")
	if err := flags.Parse(args); err != nil {
		return err
	}

	_, eng, err := e.setup(&c)
	if err != nil {
		return err
	}

	file, err := e.readInput(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var opts []pagefile.ReaderOption
	if fast {
		opts = append(opts, pagefile.WithTrustedInput())
	}

	r, err := pagefile.NewReader(eng, file, opts...)
	if err != nil {
		return err
	}

	if verify {
		if err := r.Verify(); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "ok: %d pages, %d bytes\n", r.PageCount(), r.TotalLength())

		return nil
	}

	data, err := r.Decode()
	if err != nil {
		return fmt.Errorf("decompressing: %w", err)
	}

	if err := e.writeOutput(output, data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func combinationLabel(s *combination.Snapshot, n combination.Namer) func(int) string {
	return func(id int) string {
		c, ok := s.Get(id)
		if !ok {
			return "?"
		}

		return c.Format(n)
	}
}
