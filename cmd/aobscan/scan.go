package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/coregx/aob/internal/haystack"
	"github.com/coregx/aob/internal/sigfile"
)

// hit is one match of one signature.
type hit struct {
	sig      *sigfile.Signature
	start    int
	location int    // start plus the signature offset
	bytes    []byte // copied; the mapping is gone when hits are printed
}

type fileResult struct {
	path string
	hits []hit
	err  error
}

type scanner struct {
	sigs   []*sigfile.Signature
	first  bool
	raw    bool
	max    int64
	jobs   int
	logger *slog.Logger
}

// scanFiles scans up to s.jobs files at once. Results keep the order of
// paths. A file that cannot be opened is recorded in its result and does not
// stop the others; only cancellation of ctx aborts the scan.
func (s *scanner) scanFiles(ctx context.Context, paths []string) ([]fileResult, error) {
	results := make([]fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.scanFile(ctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *scanner) scanFile(ctx context.Context, path string) fileResult {
	res := fileResult{path: path}
	started := time.Now()

	h, err := haystack.Open(path, haystack.Options{Raw: s.raw, MaxSize: s.max})
	if err != nil {
		s.logger.Warn("skipping file", "path", path, "err", err)
		res.err = err
		return res
	}
	defer h.Close()

	for _, sig := range s.sigs {
		if ctx.Err() != nil {
			res.err = ctx.Err()
			return res
		}
		it := sig.Needle.FindIter(h.Data)
		for m, ok := it.Next(); ok; m, ok = it.Next() {
			res.hits = append(res.hits, hit{
				sig:      sig,
				start:    m.Start(),
				location: sig.Location(m),
				bytes:    append([]byte(nil), m.Bytes()...),
			})
			if s.first {
				break
			}
		}
		if stats := it.Stats(); stats.Candidates > 0 {
			s.logger.Debug("prefilter",
				"path", path,
				"signature", sig.Name,
				"candidates", stats.Candidates,
				"confirms", stats.Confirms,
				"avg_skip", stats.AvgSkip(),
				"retired", !stats.Active,
			)
		}
	}

	s.logger.Debug("scanned",
		"path", path,
		"format", h.Format.String(),
		"size", humanize.IBytes(uint64(h.Len())),
		"matches", len(res.hits),
		"elapsed", time.Since(started),
	)
	return res
}
