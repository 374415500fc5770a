// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search finds author profiles on academic APIs and fetches their
// details. Each backend (Semantic Scholar, OpenAlex) implements Source.
//
// Search results are produced lazily: result pages are requested only as
// the caller consumes the sequence, and stopping early stops paging.
package search

import (
	"context"
	"fmt"
	"iter"

	"github.com/pdiddy/scholar-stats/internal/httputil"
	"github.com/pdiddy/scholar-stats/pkg/types"
)

const (
	defaultPageSize        = 10
	defaultMaxPublications = 1000
)

// Source searches one academic API for author profiles.
type Source interface {
	Name() string

	// Search returns candidate profiles for name in service relevance order.
	// A request failure is yielded as the error of the final pair.
	Search(ctx context.Context, name string) iter.Seq2[types.ShallowProfile, error]

	// Fill fetches publications and citation statistics for p.
	Fill(ctx context.Context, p types.ShallowProfile) (types.FilledProfile, error)
}

// New returns the backend selected by cfg.Name.
func New(cfg types.SourceConfig, client *httputil.Client) (Source, error) {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxPubs := cfg.MaxPublications
	if maxPubs <= 0 {
		maxPubs = defaultMaxPublications
	}

	switch cfg.Name {
	case types.SourceSemanticScholar, "":
		return &SemanticScholarBackend{
			Client:          client,
			PageSize:        pageSize,
			MaxPublications: maxPubs,
		}, nil
	case types.SourceOpenAlex:
		return &OpenAlexBackend{
			Client:          client,
			Email:           cfg.OpenAlexEmail,
			PageSize:        pageSize,
			MaxPublications: maxPubs,
		}, nil
	default:
		return nil, fmt.Errorf("unknown profile source %q", cfg.Name)
	}
}

// pageFunc fetches the page with zero-based index page and reports whether
// another page may follow.
type pageFunc func(ctx context.Context, page int) ([]types.ShallowProfile, bool, error)

// paginate turns a page fetcher into a lazy profile sequence.
func paginate(ctx context.Context, fetch pageFunc) iter.Seq2[types.ShallowProfile, error] {
	return func(yield func(types.ShallowProfile, error) bool) {
		for page := 0; ; page++ {
			profiles, more, err := fetch(ctx, page)
			if err != nil {
				yield(types.ShallowProfile{}, err)
				return
			}
			for _, p := range profiles {
				if !yield(p, nil) {
					return
				}
			}
			if !more || len(profiles) == 0 {
				return
			}
		}
	}
}

// truncatePublications caps pubs at max entries.
func truncatePublications(pubs []types.Publication, max int) []types.Publication {
	if max > 0 && len(pubs) > max {
		return pubs[:max]
	}
	return pubs
}
