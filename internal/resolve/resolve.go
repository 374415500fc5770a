// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve looks up one author name end to end: search, rank the
// candidates, fetch fresh details for the winner and report the outcome.
// Lookup failures are isolated per name and never returned as Go errors
// to the caller; they are carried in the Outcome and sent to a Reporter.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/scholar-stats/internal/rank"
	"github.com/pdiddy/scholar-stats/pkg/types"
)

// ErrNotFound means the search produced no candidate for the name.
var ErrNotFound = errors.New("author not found")

// Stage names the external call that failed.
type Stage string

const (
	StageRank Stage = "rank"
	StageFill Stage = "fill"
)

// FetchError is an external failure (network, HTTP status, malformed
// response, cancellation) during one name's lookup.
type FetchError struct {
	Name  string
	Stage Stage
	Err   error
}

func (e *FetchError) Error() string { return e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }

// Source is the profile search service.
type Source interface {
	Search(ctx context.Context, name string) iter.Seq2[types.ShallowProfile, error]
	Fill(ctx context.Context, p types.ShallowProfile) (types.FilledProfile, error)
}

// Reporter receives lookups that did not produce a profile.
type Reporter interface {
	NotFound(name string)
	Failed(name string, err error)
}

// SuccessFunc is called synchronously with each resolved profile.
type SuccessFunc func(name string, profile types.FilledProfile)

// Outcome is the result of one Resolve call. Err is nil on success, wraps
// ErrNotFound when there was no candidate, and is a *FetchError otherwise.
type Outcome struct {
	Name    string
	Profile *types.FilledProfile
	Err     error
}

// Found reports whether a profile was resolved.
func (o Outcome) Found() bool { return o.Err == nil && o.Profile != nil }

// Resolver performs name lookups. It holds no per-name state and is safe
// for concurrent use when its Source and Reporter are.
type Resolver struct {
	Source   Source
	Ranker   *rank.Ranker
	Reporter Reporter
	Logger   zerolog.Logger

	// Timeout bounds a whole lookup. Zero means no bound.
	Timeout time.Duration
}

// Resolve looks up name and returns its Outcome. On success onSuccess (if
// non-nil) runs before Resolve returns. The winning candidate is always
// filled again, so the reported citation statistics are fetched at
// resolution time even when ranking already filled it.
func (r *Resolver) Resolve(ctx context.Context, name string, onSuccess SuccessFunc) Outcome {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	log := r.Logger.With().Str("author", name).Logger()
	start := time.Now()

	// A blank name can not match a profile and is never sent to the service.
	if strings.TrimSpace(name) == "" {
		return r.notFound(log, name)
	}

	ranking, err := r.Ranker.Rank(ctx, r.Source.Search(ctx, name), r.Source)
	if err != nil {
		return r.fail(log, name, StageRank, err)
	}

	best, ok := ranking.Best()
	if !ok {
		return r.notFound(log, name)
	}

	profile, err := r.Source.Fill(ctx, best.Profile)
	if err != nil {
		return r.fail(log, name, StageFill, fmt.Errorf("fetching profile %s: %w", best.Profile.ID, err))
	}

	log.Debug().
		Str("profile_id", profile.ID).
		Int("candidates", len(ranking.Candidates)).
		Int("score", best.Score).
		Dur("elapsed", time.Since(start)).
		Msg("resolved")

	if onSuccess != nil {
		onSuccess(name, profile)
	}
	return Outcome{Name: name, Profile: &profile}
}

func (r *Resolver) notFound(log zerolog.Logger, name string) Outcome {
	log.Info().Msg("no candidates")
	if r.Reporter != nil {
		r.Reporter.NotFound(name)
	}
	return Outcome{Name: name, Err: fmt.Errorf("%s: %w", name, ErrNotFound)}
}

// fail logs at info level; the Reporter is what surfaces the failure.
func (r *Resolver) fail(log zerolog.Logger, name string, stage Stage, err error) Outcome {
	fe := &FetchError{Name: name, Stage: stage, Err: err}
	log.Info().Err(err).Str("stage", string(stage)).Msg("lookup failed")
	if r.Reporter != nil {
		r.Reporter.Failed(name, fe)
	}
	return Outcome{Name: name, Err: fe}
}
