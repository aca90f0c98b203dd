// Command aobscan searches files for IDA-style byte signatures.
//
// Usage:
//
//	aobscan [flags] file...
//
// Signatures come from -p (repeatable) and from a YAML signature file given
// with -s. Files are memory-mapped; gzip, zstd and lz4 files are
// decompressed first. Each match is printed as one line:
//
//	image.bin:0x1a2f player_base 48 8B 05 10 20 30 40 48 85 C0
//
// With -json every match is a JSON object on its own line instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/coregx/aob"
	"github.com/coregx/aob/internal/sigfile"
	"github.com/coregx/aob/simd"
)

// exit codes
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

type patternList []string

func (p *patternList) String() string { return strings.Join(*p, ", ") }

func (p *patternList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

type options struct {
	patterns patternList
	sigFile  string
	method   string
	first    bool
	json     bool
	jobs     int
	raw      bool
	maxSize  int64
	verbose  bool
	files    []string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("aobscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Var(&opts.patterns, "p", "signature pattern, e.g. \"48 8B 05 ? ? ? ?\" (repeatable)")
	fs.StringVar(&opts.sigFile, "s", "", "YAML signature file")
	fs.StringVar(&opts.method, "method", "", "force compare width for -p patterns (scalar, swar32, swar64, vector128, vector256)")
	fs.BoolVar(&opts.first, "first", false, "report only the first match of each signature per file")
	fs.BoolVar(&opts.json, "json", false, "print matches and logs as JSON lines")
	fs.IntVar(&opts.jobs, "j", runtime.GOMAXPROCS(0), "number of files scanned concurrently")
	fs.BoolVar(&opts.raw, "raw", false, "search compressed files as stored")
	fs.Int64Var(&opts.maxSize, "max-size", 0, "refuse files that decompress to more than this many bytes (0 = no limit)")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: aobscan [flags] file...\n\nflags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.files = fs.Args()

	switch {
	case len(opts.files) == 0:
		return nil, errors.New("no input files")
	case len(opts.patterns) == 0 && opts.sigFile == "":
		return nil, errors.New("no signatures: use -p or -s")
	case opts.jobs < 1:
		return nil, fmt.Errorf("-j must be at least 1, got %d", opts.jobs)
	}
	return opts, nil
}

func newLogger(w io.Writer, opts *options) *slog.Logger {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.json {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// loadSignatures compiles the -p patterns and the -s file into one list.
func loadSignatures(opts *options) ([]*sigfile.Signature, error) {
	config := aob.DefaultConfig()
	if opts.method != "" {
		m, ok := simd.ParseMethod(opts.method)
		if !ok {
			return nil, fmt.Errorf("unknown method %q", opts.method)
		}
		config.ForceMethod = true
		config.Method = m
	}

	var sigs []*sigfile.Signature
	for i, text := range opts.patterns {
		n, err := aob.CompileWithConfig(text, config)
		if err != nil {
			return nil, fmt.Errorf("-p #%d: %w", i+1, err)
		}
		sigs = append(sigs, &sigfile.Signature{
			Name:    fmt.Sprintf("p%d", i+1),
			Pattern: text,
			Needle:  n,
		})
	}

	if opts.sigFile != "" {
		f, err := sigfile.LoadFile(opts.sigFile)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, f.Signatures...)
	}
	return sigs, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitMatch
		}
		fmt.Fprintln(stderr, "aobscan:", err)
		return exitError
	}
	logger := newLogger(stderr, opts)

	sigs, err := loadSignatures(opts)
	if err != nil {
		reportLoadError(stderr, err)
		return exitError
	}
	logger.Debug("signatures loaded", "count", len(sigs), "simd", simd.Detect().String())
	for _, s := range sigs {
		logger.Debug("signature", "name", s.Name, "pattern", s.Needle.String(), "method", s.Needle.Method().String())
	}

	s := &scanner{
		sigs:   sigs,
		first:  opts.first,
		raw:    opts.raw,
		max:    opts.maxSize,
		jobs:   opts.jobs,
		logger: logger,
	}
	results, err := s.scanFiles(ctx, opts.files)
	if err != nil {
		logger.Error("scan failed", "err", err)
		return exitError
	}

	out := newPrinter(stdout, opts.json)
	total, failed := 0, 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
		for _, hit := range r.hits {
			if err := out.print(r.path, hit); err != nil {
				logger.Error("write failed", "err", err)
				return exitError
			}
			total++
		}
	}
	if err := out.flush(); err != nil {
		logger.Error("write failed", "err", err)
		return exitError
	}

	logger.Debug("done", "files", len(results), "failed", failed, "matches", total)
	switch {
	case failed > 0:
		return exitError
	case total == 0:
		return exitNoMatch
	}
	return exitMatch
}

// reportLoadError prints pattern errors with a caret line under the span.
func reportLoadError(w io.Writer, err error) {
	fmt.Fprintln(w, "aobscan:", err)
	var perr interface{ Highlight() string }
	if errors.As(err, &perr) {
		fmt.Fprintln(w, perr.Highlight())
	}
}
