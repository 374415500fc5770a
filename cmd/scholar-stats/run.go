// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/scholar-stats/internal/batch"
	"github.com/pdiddy/scholar-stats/internal/cache"
	"github.com/pdiddy/scholar-stats/internal/httputil"
	"github.com/pdiddy/scholar-stats/internal/keywords"
	"github.com/pdiddy/scholar-stats/internal/observability"
	"github.com/pdiddy/scholar-stats/internal/rank"
	"github.com/pdiddy/scholar-stats/internal/report"
	"github.com/pdiddy/scholar-stats/internal/resolve"
	"github.com/pdiddy/scholar-stats/internal/search"
	"github.com/pdiddy/scholar-stats/pkg/types"
)

// run resolves every author in inputPath and writes result lines to stdout.
// Configuration problems and a missing input file are returned before any
// lookup starts; per-author failures are printed and do not fail the run.
func run(ctx context.Context, cfg types.StatsConfig, inputPath string, stdout, stderr io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := observability.WithRunContext(
		observability.NewLogger(cfg.Logging, stderr),
		uuid.New().String(),
		string(cfg.Source.Name),
	)

	names, err := batch.LoadNames(inputPath)
	if err != nil {
		return err
	}

	scorer, err := loadScorer(cfg.Rank.KeywordsFile)
	if err != nil {
		return err
	}

	client, closeCache, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	source, err := search.New(cfg.Source, client)
	if err != nil {
		return err
	}

	printer := report.NewPrinter(stdout)
	resolver := &resolve.Resolver{
		Source:   source,
		Ranker:   rank.New(scorer, cfg.Rank.MaxCandidates, logger),
		Reporter: printer,
		Logger:   logger,
		Timeout:  cfg.LookupTimeout,
	}
	runner := &batch.Runner{
		Resolver:    resolver,
		Concurrency: cfg.Jobs,
		Logger:      logger,
	}

	printer.Header(len(names))
	runner.Run(ctx, names, printer.Resolved)
	return printer.Err()
}

func loadScorer(path string) (*keywords.Scorer, error) {
	if path == "" {
		return keywords.NewScorer(keywords.Default), nil
	}
	kw, err := keywords.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return keywords.NewScorer(kw), nil
}

// newClient builds the shared HTTP client. The returned func closes the
// response cache, if one was opened.
func newClient(cfg types.StatsConfig, logger zerolog.Logger) (*httputil.Client, func(), error) {
	opts := []httputil.Option{
		httputil.WithRateLimit(cfg.Source.RateLimit, cfg.Jobs),
		httputil.WithLogger(logger),
	}
	if cfg.Source.Name == types.SourceSemanticScholar {
		opts = append(opts, httputil.WithHeader("x-api-key", cfg.Source.SemanticScholarAPIKey))
	}

	closeCache := func() {}
	if cfg.Cache.Dir != "" {
		store, err := cache.Open(cfg.Cache.Dir, cfg.Cache.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening response cache: %w", err)
		}
		opts = append(opts, httputil.WithCache(store))
		closeCache = func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("closing response cache")
			}
		}
		logger.Debug().Str("dir", cfg.Cache.Dir).Dur("ttl", cfg.Cache.TTL).Msg("response cache enabled")
	}

	return httputil.NewClient(cfg.Source.Timeout, cfg.Source.UserAgent, opts...), closeCache, nil
}
