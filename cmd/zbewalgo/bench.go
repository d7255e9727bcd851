package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/arloliu/zbewalgo/baseline"
	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// benchRow is one line of the bench report.
type benchRow struct {
	name  string
	stats baseline.Stats
}

func (e env) runBench(args []string) error {
	var (
		c        common
		input    string
		codecs   []string
		pageSize int
	)

	flags := newFlagSet("bench", e.stderr, &c)
	flags.StringVarP(&input, "input", "i", "-", "input file, - for stdin")
	flags.StringSliceVar(&codecs, "codecs", []string{"none", "lz4", "s2", "snappy", "zstd"}, "baseline codecs to compare against")
	flags.IntVar(&pageSize, "page-size", 0, "page size in bytes, 1 to 4096 (default from config)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, eng, err := e.setup(&c)
	if err != nil {
		return err
	}
	if !flags.Changed("page-size") {
		pageSize = cfg.PageSize
	}
	if pageSize < 1 || pageSize > format.MaxInputSize {
		return fmt.Errorf("%w: %d", errs.ErrInvalidPageSize, pageSize)
	}

	data, err := e.readInput(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	pages := splitPages(data, pageSize)
	if len(pages) == 0 {
		return errors.New("bench: empty input")
	}

	rows := make([]benchRow, 0, len(codecs)+1)

	stats, err := measureEngine(eng.NewWorker(), pages)
	if err != nil {
		return err
	}
	rows = append(rows, benchRow{name: "zbewalgo", stats: stats})

	for _, name := range codecs {
		t, err := baseline.Parse(name)
		if err != nil {
			return err
		}

		codec, err := baseline.New(t)
		if err != nil {
			return err
		}

		stats, err := baseline.Measure(codec, pages)
		if err != nil {
			return err
		}
		rows = append(rows, benchRow{name: t.String(), stats: stats})
	}

	return writeBench(e.stdout, rows)
}

// measureEngine compresses every page with w, storing a page verbatim when
// the engine rejects it, and checks the safe round trip.
func measureEngine(w *engine.Worker, pages [][]byte) (baseline.Stats, error) {
	var stats baseline.Stats

	compressed := make([]byte, 0, format.MaxInputSize)
	restored := make([]byte, 0, format.MaxInputSize)

	for i, page := range pages {
		start := time.Now()
		out, err := w.Compress(compressed[:0], page)
		stats.CompressionTime += time.Since(start)

		stored := len(page)
		switch {
		case errors.Is(err, errs.ErrNotCompressible):
		case err != nil:
			return stats, fmt.Errorf("zbewalgo: compress page %d: %w", i, err)
		default:
			stored = len(out)

			start = time.Now()
			restored, err = w.DecompressSafe(restored[:0], out)
			stats.DecompressionTime += time.Since(start)
			if err != nil {
				return stats, fmt.Errorf("zbewalgo: decompress page %d: %w", i, err)
			}
			if !bytes.Equal(restored, page) {
				return stats, fmt.Errorf("zbewalgo: page %d round trip mismatch", i)
			}
		}

		stats.Pages++
		stats.OriginalSize += int64(len(page))
		stats.CompressedSize += int64(stored)
	}

	return stats, nil
}

func splitPages(data []byte, pageSize int) [][]byte {
	pages := make([][]byte, 0, (len(data)+pageSize-1)/pageSize)
	for len(data) > 0 {
		n := min(pageSize, len(data))
		pages = append(pages, data[:n])
		data = data[n:]
	}

	return pages
}

func writeBench(w io.Writer, rows []benchRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "codec\tpages\tbytes in\tbytes out\tratio\tsavings\tcompress MB/s\tdecompress MB/s")
	for _, r := range rows {
		s := r.stats
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.3f\t%.1f%%\t%.1f\t%.1f\n",
			r.name, s.Pages, s.OriginalSize, s.CompressedSize,
			s.CompressionRatio(), s.SpaceSavings(),
			throughput(s.OriginalSize, s.CompressionTime),
			throughput(s.OriginalSize, s.DecompressionTime))
	}

	return tw.Flush()
}

func throughput(n int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}

	return float64(n) / d.Seconds() / 1e6
}
