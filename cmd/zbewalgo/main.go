// zbewalgo compresses files into page files with the adaptive zbewalgo
// engine, restores them, manages the combination table and compares the
// engine against general-purpose codecs.
//
// Usage:
//
//	zbewalgo compress     [-i in] [-o out] [--page-size n] [--stats]
//	zbewalgo decompress   [-i in] [-o out] [--fast] [--verify]
//	zbewalgo combinations [--exec "add a-b"]... [--load f.cbor] [--save f.cbor]
//	zbewalgo bench        [-i in] [--codecs lz4,s2,snappy,zstd,none]
//
// Every sub-command accepts --config and --log-level. Without --config the
// file named by ZBEWALGO_CONFIG is used when set.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env carries the process streams so commands can run in tests.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errors.New("subcommand required")
	}

	e := env{stdin: stdin, stdout: stdout, stderr: stderr}

	var err error
	switch args[0] {
	case "compress":
		err = e.runCompress(args[1:])
	case "decompress":
		err = e.runDecompress(args[1:])
	case "combinations":
		err = e.runCombinations(args[1:])
	case "bench":
		err = e.runBench(args[1:])
	case "-h", "--help", "help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown subcommand: %q", args[0])
	}

	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}

	return err
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: zbewalgo <subcommand> [flags]

Subcommands:
  compress      Compress a file into a page file
  decompress    Restore a page file
  combinations  Show or change the combination table
  bench         Compare the engine against general-purpose codecs

Run 'zbewalgo <subcommand> --help' for subcommand flags.
`)
}

// common holds the flags every sub-command accepts.
type common struct {
	configPath string
	logLevel   string
}

func newFlagSet(name string, stderr io.Writer, c *common) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&c.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the config file)")

	return flags
}

// setup loads the configuration and builds the logger and engine.
func (e env) setup(c *common, opts ...engine.Option) (*config.Config, *engine.Engine, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if c.logLevel != "" {
		if _, err := config.ParseLevel(c.logLevel); err != nil {
			return nil, nil, err
		}
		cfg.LogLevel = c.logLevel
	}

	logger := slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	engineOpts := append(cfg.EngineOptions(), engine.WithLogger(logger))
	engineOpts = append(engineOpts, opts...)

	eng, err := engine.New(engineOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating engine: %w", err)
	}

	return cfg, eng, nil
}

func (e env) readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(e.stdin)
	}

	return os.ReadFile(path)
}

func (e env) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := e.stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint: gosec
}
