// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank disambiguates author candidates returned for one name query.
//
// Each candidate is filled (its publications fetched) and scored by summing
// keyword matches over its publication titles; candidates are returned
// best first. Only the first MaxCandidates search results are ever pulled
// from the search sequence.
package rank

import (
	"context"
	"fmt"
	"iter"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pdiddy/scholar-stats/internal/keywords"
	"github.com/pdiddy/scholar-stats/pkg/types"
)

// DefaultMaxCandidates is the number of search results considered per name.
const DefaultMaxCandidates = 3

// Fetcher fills a shallow profile with publications and statistics.
type Fetcher interface {
	Fill(ctx context.Context, p types.ShallowProfile) (types.FilledProfile, error)
}

// Ranked is one examined candidate and its match score. Filled is nil when
// the candidate was returned without a detail fetch (single candidate).
type Ranked struct {
	Profile types.ShallowProfile
	Filled  *types.FilledProfile
	Score   int
}

// Ranking is the ordered outcome of a Rank call, best candidate first.
// A Ranking with no candidates means the search produced nothing to rank.
type Ranking struct {
	Candidates []Ranked
}

// Empty reports whether there was no candidate to rank.
func (r Ranking) Empty() bool { return len(r.Candidates) == 0 }

// Best returns the highest scoring candidate, or false for an empty ranking.
func (r Ranking) Best() (Ranked, bool) {
	if r.Empty() {
		return Ranked{}, false
	}
	return r.Candidates[0], true
}

// Ranker scores and orders candidates.
type Ranker struct {
	Scorer        *keywords.Scorer
	MaxCandidates int
	Logger        zerolog.Logger
}

// New returns a Ranker over scorer. maxCandidates <= 0 selects DefaultMaxCandidates.
func New(scorer *keywords.Scorer, maxCandidates int, logger zerolog.Logger) *Ranker {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Ranker{Scorer: scorer, MaxCandidates: maxCandidates, Logger: logger}
}

// Rank pulls at most MaxCandidates profiles from candidates and orders them
// by descending match score; equal scores keep search order.
//
// With zero candidates Rank returns an empty Ranking and no error. With one
// candidate it is returned unscored and f is never called. Otherwise every
// candidate is filled exactly once through f. An error yielded by the
// sequence or returned by f aborts the ranking.
func (r *Ranker) Rank(ctx context.Context, candidates iter.Seq2[types.ShallowProfile, error], f Fetcher) (Ranking, error) {
	head, err := r.take(candidates)
	if err != nil {
		return Ranking{}, fmt.Errorf("searching candidates: %w", err)
	}

	switch len(head) {
	case 0:
		return Ranking{}, nil
	case 1:
		return Ranking{Candidates: []Ranked{{Profile: head[0]}}}, nil
	}

	ranked := make([]Ranked, 0, len(head))
	for _, p := range head {
		filled, err := f.Fill(ctx, p)
		if err != nil {
			return Ranking{}, fmt.Errorf("fetching candidate %s: %w", p.ID, err)
		}
		score := r.score(filled.Publications)
		r.Logger.Debug().
			Str("candidate_id", p.ID).
			Str("candidate_name", p.Name).
			Int("publications", len(filled.Publications)).
			Int("score", score).
			Msg("scored candidate")
		ranked = append(ranked, Ranked{Profile: p, Filled: &filled, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return Ranking{Candidates: ranked}, nil
}

// take collects up to MaxCandidates profiles, stopping the sequence early
// so later result pages are never requested.
func (r *Ranker) take(candidates iter.Seq2[types.ShallowProfile, error]) ([]types.ShallowProfile, error) {
	limit := r.MaxCandidates
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	var head []types.ShallowProfile
	if candidates == nil {
		return head, nil
	}
	for p, err := range candidates {
		if err != nil {
			return nil, err
		}
		head = append(head, p)
		if len(head) >= limit {
			break
		}
	}
	return head, nil
}

func (r *Ranker) score(pubs []types.Publication) int {
	total := 0
	for _, pub := range pubs {
		total += r.Scorer.Score(pub.Title)
	}
	return total
}
