// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-stats/internal/batch"
	"github.com/pdiddy/scholar-stats/internal/cache"
	"github.com/pdiddy/scholar-stats/internal/httputil"
	"github.com/pdiddy/scholar-stats/internal/rank"
	"github.com/pdiddy/scholar-stats/internal/secrets"
	"github.com/pdiddy/scholar-stats/pkg/types"
)

const userAgent = "scholar-stats/0.1"

// registerFlags declares the run flags on fs.
func registerFlags(f *pflag.FlagSet) {
	f.IntP("n-jobs", "j", batch.DefaultConcurrency, "number of authors looked up concurrently")
	f.String("source", string(types.SourceSemanticScholar), "profile service: semantic_scholar or openalex")
	f.Int("max-candidates", rank.DefaultMaxCandidates, "search results considered per author")
	f.String("keywords", "", "YAML file replacing the built-in keyword list")
	f.Duration("timeout", httputil.DefaultTimeout, "per-request HTTP timeout")
	f.Float64("rate-limit", 0, "maximum requests per second across all workers (0 disables)")
	f.Duration("lookup-timeout", 0, "time limit for one author lookup (0 disables)")
	f.String("cache-dir", "", "directory for the search response cache (empty disables)")
	f.Duration("cache-ttl", cache.DefaultTTL, "lifetime of cached search responses")
	f.String("log-level", "warn", "diagnostic log level")
	f.String("log-format", "console", "diagnostic log format: console or json")
}

// flagKeys maps command-line flags to their configuration keys.
var flagKeys = map[string]string{
	"n-jobs":         "n_jobs",
	"source":         "source",
	"max-candidates": "max_candidates",
	"keywords":       "keywords_file",
	"timeout":        "http.timeout",
	"rate-limit":     "http.rate_limit",
	"lookup-timeout": "lookup_timeout",
	"cache-dir":      "cache.dir",
	"cache-ttl":      "cache.ttl",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// bindFlags binds every flag in flagKeys so that config file and
// environment values apply when the flag is not set.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	for flag, key := range flagKeys {
		if f := fs.Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
	v.SetDefault("max_publications", 1000)
}

// configureEnv makes every key overridable as SCHOLAR_STATS_<KEY>, with
// dots in nested keys replaced by underscores.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("SCHOLAR_STATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// buildConfig assembles the run configuration from v. API credentials given
// in configuration take precedence over those in .secrets/.
func buildConfig(v *viper.Viper, s secrets.Secrets) types.StatsConfig {
	maxCandidates := v.GetInt("max_candidates")
	return types.StatsConfig{
		Jobs:          v.GetInt("n_jobs"),
		LookupTimeout: v.GetDuration("lookup_timeout"),
		Source: types.SourceConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("http.timeout"),
				UserAgent: userAgent,
				RateLimit: v.GetFloat64("http.rate_limit"),
			},
			Name:                  types.SourceName(v.GetString("source")),
			PageSize:              maxCandidates,
			MaxPublications:       v.GetInt("max_publications"),
			SemanticScholarAPIKey: s.Or(secrets.SemanticScholarAPIKey, v.GetString("semantic_scholar_api_key")),
			OpenAlexEmail:         s.Or(secrets.OpenAlexEmail, v.GetString("openalex_email")),
		},
		Cache: types.CacheConfig{
			Dir: v.GetString("cache.dir"),
			TTL: v.GetDuration("cache.ttl"),
		},
		Rank: types.RankConfig{
			MaxCandidates: maxCandidates,
			KeywordsFile:  v.GetString("keywords_file"),
		},
		Logging: types.LoggingConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}
