// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch loads an author list and resolves every name on a bounded
// worker pool.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/pdiddy/scholar-stats/internal/resolve"
)

// DefaultConcurrency is the number of lookups in flight at once.
const DefaultConcurrency = 4

// ErrInputMissing means the author list file does not exist.
var ErrInputMissing = errors.New("input file missing")

// LoadNames reads one author name per line from path and returns the
// distinct names in lexicographic order. Lines are not trimmed, so blank
// lines collapse into a single empty name.
func LoadNames(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s does not exist", ErrInputMissing, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading author list: %w", err)
	}
	return uniqueSorted(splitLines(string(data))), nil
}

// splitLines splits on \n, \r\n and \r line endings. A final line
// terminator does not start another line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func uniqueSorted(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		names = append(names, l)
	}
	sort.Strings(names)
	return names
}

// NameResolver resolves a single name. *resolve.Resolver implements it.
type NameResolver interface {
	Resolve(ctx context.Context, name string, onSuccess resolve.SuccessFunc) resolve.Outcome
}

// Runner dispatches one Resolve call per name with at most Concurrency
// calls in flight. Names are submitted in the order given; completion order
// is not defined.
type Runner struct {
	Resolver    NameResolver
	Concurrency int
	Logger      zerolog.Logger
}

// Run resolves every name and returns once all lookups have finished.
// Per-name failures are handled by the resolver; Run adds no error handling
// of its own.
func (r *Runner) Run(ctx context.Context, names []string, onSuccess resolve.SuccessFunc) {
	workers := r.Concurrency
	if workers < 1 {
		workers = 1
	}
	r.Logger.Debug().Int("authors", len(names)).Int("workers", workers).Msg("batch started")
	start := time.Now()

	p := pool.New().WithMaxGoroutines(workers)
	for _, name := range names {
		p.Go(func() {
			r.Resolver.Resolve(ctx, name, onSuccess)
		})
	}
	p.Wait()

	r.Logger.Debug().Dur("elapsed", time.Since(start)).Msg("batch finished")
}
