// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by MergeWithDefaults when neither the file nor the flags set a value.
const (
	DefaultWorkers           = 1
	DefaultRenderConcurrency = 2
	DefaultTaggerConcurrency = 2
	DefaultTimeoutSeconds    = 30
	DefaultTitleSegment      = 1
	DefaultLogLevel          = "info"
	DefaultPageCacheTTLHours = 7 * 24
)

// Environment variables read by FromEnv.
const (
	EnvGeminiAPIKey       = "GEMINI_API_KEY"
	EnvMapsAPIKey         = "GOOGLE_MAPS_API_KEY"
	EnvSearchAPIKey       = "GOOGLE_SEARCH_API_KEY"
	EnvSearchCX           = "GOOGLE_SEARCH_CX"
	EnvDatabaseURL        = "DATABASE_URL"
	EnvElasticsearchURL   = "ELASTICSEARCH_URL"
	EnvElasticsearchIndex = "ELASTICSEARCH_INDEX"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Department
	DepartmentURL string `json:"department_url,omitempty" validate:"omitempty,url"` // Department root, primary base for faculty links
	ListingURL    string `json:"listing_url,omitempty" validate:"omitempty,url"`    // Faculty listing page, defaults to the department URL
	UniversityURL string `json:"university_url,omitempty" validate:"omitempty,url"` // University homepage

	// Scanning
	ContentMarkers []string `json:"content_markers,omitempty"`                          // class/id substrings of listing containers
	BioMarkers     []string `json:"bio_markers,omitempty"`                              // class/id names of biography elements
	TitleSegment   *int     `json:"title_segment,omitempty" validate:"omitempty,gte=0"` // "|"-separated title segment holding the name

	// Concurrency and timeouts
	Workers           int `json:"workers,omitempty" validate:"gte=0,lte=64"`
	RenderConcurrency int `json:"render_concurrency,omitempty" validate:"gte=0,lte=32"`
	TaggerConcurrency int `json:"tagger_concurrency,omitempty" validate:"gte=0,lte=32"`
	TimeoutSeconds    int `json:"timeout_seconds,omitempty" validate:"gte=0"`

	// Behavior
	UseBrowser        bool   `json:"use_browser,omitempty"` // Fall back to headless Chrome for script-built pages
	Verbose           bool   `json:"verbose,omitempty"`     // Print detailed progress
	LogLevel          string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	PageCacheTTLHours int    `json:"page_cache_ttl_hours,omitempty" validate:"gte=0"`

	// Credentials
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	GeminiModel  string `json:"gemini_model,omitempty"`
	MapsAPIKey   string `json:"maps_api_key,omitempty"`
	SearchAPIKey string `json:"search_api_key,omitempty"`
	SearchCX     string `json:"search_cx,omitempty"`

	// Sinks
	DatabaseURL        string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SQLitePath         string `json:"sqlite_path,omitempty"`
	ElasticsearchURL   string `json:"elasticsearch_url,omitempty"`
	ElasticsearchIndex string `json:"elasticsearch_index,omitempty"`
	OutputPath         string `json:"output,omitempty"` // JSON file, "-" for stdout
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config holding the credentials and endpoints set in the environment.
func FromEnv() Config {
	return Config{
		GeminiAPIKey:       os.Getenv(EnvGeminiAPIKey),
		MapsAPIKey:         os.Getenv(EnvMapsAPIKey),
		SearchAPIKey:       os.Getenv(EnvSearchAPIKey),
		SearchCX:           os.Getenv(EnvSearchCX),
		DatabaseURL:        os.Getenv(EnvDatabaseURL),
		ElasticsearchURL:   os.Getenv(EnvElasticsearchURL),
		ElasticsearchIndex: os.Getenv(EnvElasticsearchIndex),
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.ListingURL != "" && c.DepartmentURL == "" {
		return fmt.Errorf("config error: 'listing_url' requires 'department_url'")
	}
	if (c.SearchAPIKey == "") != (c.SearchCX == "") {
		return fmt.Errorf("config error: 'search_api_key' and 'search_cx' must be set together")
	}
	if c.SQLitePath != "" {
		dir := filepath.Dir(c.SQLitePath)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("config error: sqlite directory not found: %s", dir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// and the package defaults for anything still unset.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	strs := []struct {
		dst *string
		def string
	}{
		{&result.DepartmentURL, defaults.DepartmentURL},
		{&result.ListingURL, defaults.ListingURL},
		{&result.UniversityURL, defaults.UniversityURL},
		{&result.LogLevel, defaults.LogLevel},
		{&result.GeminiAPIKey, defaults.GeminiAPIKey},
		{&result.GeminiModel, defaults.GeminiModel},
		{&result.MapsAPIKey, defaults.MapsAPIKey},
		{&result.SearchAPIKey, defaults.SearchAPIKey},
		{&result.SearchCX, defaults.SearchCX},
		{&result.DatabaseURL, defaults.DatabaseURL},
		{&result.SQLitePath, defaults.SQLitePath},
		{&result.ElasticsearchURL, defaults.ElasticsearchURL},
		{&result.ElasticsearchIndex, defaults.ElasticsearchIndex},
		{&result.OutputPath, defaults.OutputPath},
	}
	for _, s := range strs {
		if *s.dst == "" {
			*s.dst = s.def
		}
	}
	if result.LogLevel == "" {
		result.LogLevel = DefaultLogLevel
	}

	if len(result.ContentMarkers) == 0 {
		result.ContentMarkers = defaults.ContentMarkers
	}
	if len(result.BioMarkers) == 0 {
		result.BioMarkers = defaults.BioMarkers
	}
	if result.TitleSegment == nil {
		seg := DefaultTitleSegment
		if defaults.TitleSegment != nil {
			seg = *defaults.TitleSegment
		}
		result.TitleSegment = &seg
	}

	// Int fields: use default if zero
	ints := []struct {
		dst      *int
		def      int
		fallback int
	}{
		{&result.Workers, defaults.Workers, DefaultWorkers},
		{&result.RenderConcurrency, defaults.RenderConcurrency, DefaultRenderConcurrency},
		{&result.TaggerConcurrency, defaults.TaggerConcurrency, DefaultTaggerConcurrency},
		{&result.TimeoutSeconds, defaults.TimeoutSeconds, DefaultTimeoutSeconds},
		{&result.PageCacheTTLHours, defaults.PageCacheTTLHours, DefaultPageCacheTTLHours},
	}
	for _, n := range ints {
		if *n.dst == 0 {
			*n.dst = n.def
		}
		if *n.dst == 0 {
			*n.dst = n.fallback
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PageCacheTTL returns PageCacheTTLHours as a duration.
func (c *Config) PageCacheTTL() time.Duration {
	return time.Duration(c.PageCacheTTLHours) * time.Hour
}

// TitleSegmentOrDefault returns the configured title segment or DefaultTitleSegment.
func (c *Config) TitleSegmentOrDefault() int {
	if c.TitleSegment == nil {
		return DefaultTitleSegment
	}
	return *c.TitleSegment
}
