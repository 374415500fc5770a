package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// HTTPConfig holds shared HTTP settings used by the profile sources.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-stats/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" validate:"required"`

	// RateLimit caps outgoing requests per second across all workers.
	// Zero disables client-side rate limiting.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
}

// SourceName identifies a profile search backend.
type SourceName string

const (
	SourceSemanticScholar SourceName = "semantic_scholar"
	SourceOpenAlex        SourceName = "openalex"
)

// SourceConfig holds settings for the profile search backend.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// Name selects the backend: semantic_scholar or openalex.
	Name SourceName `json:"name" yaml:"name" validate:"oneof=semantic_scholar openalex"`

	// PageSize is the number of candidates requested per search page.
	PageSize int `json:"page_size" yaml:"page_size" validate:"gte=1"`

	// MaxPublications caps the publications fetched per profile (default 1000).
	MaxPublications int `json:"max_publications" yaml:"max_publications" validate:"gte=1"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// CacheConfig holds settings for the optional search response cache.
type CacheConfig struct {
	// Dir is the directory holding the cache database. Empty disables caching.
	Dir string `json:"dir" yaml:"dir"`

	// TTL is how long a cached search response stays valid.
	TTL time.Duration `json:"ttl" yaml:"ttl" validate:"gte=0"`
}

// RankConfig holds settings for candidate disambiguation.
type RankConfig struct {
	// MaxCandidates is the number of search results considered per name (default 3).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates" validate:"gte=1"`

	// KeywordsFile is an optional YAML file replacing the built-in keyword list.
	KeywordsFile string `json:"keywords_file,omitempty" yaml:"keywords_file,omitempty"`
}

// LoggingConfig holds diagnostic logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `json:"level" yaml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`

	// Format is console or json.
	Format string `json:"format" yaml:"format" validate:"oneof=console pretty json"`
}

// StatsConfig groups the settings for one scholar-stats run.
type StatsConfig struct {
	// Jobs is the number of names resolved concurrently (default 4).
	Jobs int `json:"n_jobs" yaml:"n_jobs" validate:"gte=1"`

	// LookupTimeout bounds a single name resolution. Zero means no bound.
	LookupTimeout time.Duration `json:"lookup_timeout" yaml:"lookup_timeout" validate:"gte=0"`

	Source  SourceConfig  `json:"source" yaml:"source"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Rank    RankConfig    `json:"rank" yaml:"rank"`
	Logging LoggingConfig `json:"log" yaml:"log"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints on the run configuration.
func (c StatsConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
