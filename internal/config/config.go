// Package config defines the top-level configuration for the spread sniper
// and provides validation helpers.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by SNIPER_* environment variables.
type Config struct {
	ESI      ESIConfig      `toml:"esi"`
	Spread   SpreadConfig   `toml:"spread"`
	Regions  []RegionConfig `toml:"regions"`
	Names    NamesConfig    `toml:"names"`
	Report   ReportConfig   `toml:"report"`
	Email    EmailConfig    `toml:"email"`
	S3       S3Config       `toml:"s3"`
	Redis    RedisConfig    `toml:"redis"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	Interval duration       `toml:"interval"`
	LogLevel string         `toml:"log_level"`
}

// ESIConfig holds the market-data API endpoint and its retry policy.
type ESIConfig struct {
	BaseURL      string   `toml:"base_url"`
	Datasource   string   `toml:"datasource"`
	UserAgent    string   `toml:"user_agent"`
	Timeout      duration `toml:"timeout"`
	MaxRetries   int      `toml:"max_retries"`
	RetryBackoff duration `toml:"retry_backoff"`
}

// SpreadConfig holds the spread computation parameters.
type SpreadConfig struct {
	// MinSpread is the inclusive minimum sell-buy difference (ISK) a row
	// must reach to appear in the report.
	MinSpread float64 `toml:"min_spread"`
	// RegionConcurrency bounds how many regions are processed at once.
	RegionConcurrency int `toml:"region_concurrency"`
}

// RegionConfig maps a region display name to its ESI region ID and the hub
// station the analysis is scoped to.
type RegionConfig struct {
	Name      string `toml:"name"`
	RegionID  int64  `toml:"region_id"`
	StationID int64  `toml:"station_id"`
}

// NamesConfig holds the type-name lookup table and resolution settings.
type NamesConfig struct {
	// Static maps type IDs (as TOML keys, so strings) to display names.
	Static map[string]string `toml:"static"`
	// ResolveMissing enables live resolution of IDs absent from Static.
	ResolveMissing bool `toml:"resolve_missing"`
	// CacheTTL bounds how long resolved names stay cached.
	CacheTTL duration `toml:"cache_ttl"`
}

// ReportConfig holds spreadsheet output parameters.
type ReportConfig struct {
	OutputDir string `toml:"output_dir"`
}

// EmailConfig holds the SES delivery parameters.
type EmailConfig struct {
	Enabled    bool     `toml:"enabled"`
	Sender     string   `toml:"sender"`
	Recipients []string `toml:"recipients"`
	Subject    string   `toml:"subject"`
	Body       string   `toml:"body"`
	AWSRegion  string   `toml:"aws_region"`
	AccessKey  string   `toml:"access_key"`
	SecretKey  string   `toml:"secret_key"`
}

// S3Config holds the optional report archive parameters.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	Prefix         string `toml:"prefix"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// RedisConfig holds the optional name-cache connection parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// NotifyConfig holds auxiliary notification channel credentials.
type NotifyConfig struct {
	TelegramToken  string   `toml:"telegram_token"`
	TelegramChatID string   `toml:"telegram_chat_id"`
	Events         []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "30s", "6h").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for the TOML decoder.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values. These
// match the values in config.example.toml: the Amarr and Jita trade hubs.
func Defaults() Config {
	return Config{
		ESI: ESIConfig{
			BaseURL:      "https://esi.evetech.net/latest",
			Datasource:   "tranquility",
			UserAgent:    "MarketSpreadSniper",
			Timeout:      duration{30 * time.Second},
			MaxRetries:   5,
			RetryBackoff: duration{2 * time.Second},
		},
		Spread: SpreadConfig{
			MinSpread:         1_000_000,
			RegionConcurrency: 2,
		},
		Regions: []RegionConfig{
			{Name: "Domain", RegionID: 10000043, StationID: 60008494},
			{Name: "The Forge", RegionID: 10000002, StationID: 60003760},
		},
		Names: NamesConfig{
			Static:         map[string]string{},
			ResolveMissing: true,
			CacheTTL:       duration{7 * 24 * time.Hour},
		},
		Report: ReportConfig{
			OutputDir: "reports",
		},
		Email: EmailConfig{
			Enabled:   false,
			Subject:   "EVE Market Region Spreads",
			Body:      "Spread table attached.",
			AWSRegion: "eu-central-1",
		},
		S3: S3Config{
			Enabled:        false,
			Region:         "us-east-1",
			Prefix:         "reports",
			UseSSL:         true,
			ForcePathStyle: false,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		Notify: NotifyConfig{
			Events: []string{"report_sent", "run_failed"},
		},
		Mode:     "run",
		Interval: duration{6 * time.Hour},
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"run":    true,
	"daemon": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: run, daemon)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// ESI
	if c.ESI.BaseURL == "" {
		errs = append(errs, "esi: base_url must not be empty")
	}
	if c.ESI.Datasource == "" {
		errs = append(errs, "esi: datasource must not be empty")
	}
	if c.ESI.MaxRetries < 1 {
		errs = append(errs, "esi: max_retries must be >= 1")
	}
	if c.ESI.RetryBackoff.Duration <= 0 {
		errs = append(errs, "esi: retry_backoff must be positive")
	}

	// Regions
	if len(c.Regions) == 0 {
		errs = append(errs, "regions: at least one region must be configured")
	}
	seen := make(map[string]bool, len(c.Regions))
	for i, r := range c.Regions {
		if r.Name == "" {
			errs = append(errs, fmt.Sprintf("regions[%d]: name must not be empty", i))
		}
		if seen[r.Name] {
			errs = append(errs, fmt.Sprintf("regions[%d]: duplicate name %q", i, r.Name))
		}
		seen[r.Name] = true
		if r.RegionID <= 0 {
			errs = append(errs, fmt.Sprintf("regions[%d]: region_id must be positive", i))
		}
		// StationID 0 is tolerated here; that region fails at runtime with
		// a configuration error while the others still run.
	}

	// Spread
	if c.Spread.RegionConcurrency < 1 {
		errs = append(errs, "spread: region_concurrency must be >= 1")
	}

	// Names — keys must be numeric type IDs.
	for k := range c.Names.Static {
		if _, err := strconv.ParseInt(k, 10, 64); err != nil {
			errs = append(errs, fmt.Sprintf("names: static key %q is not a type id", k))
		}
	}

	// Report
	if c.Report.OutputDir == "" {
		errs = append(errs, "report: output_dir must not be empty")
	}

	// Email
	if c.Email.Enabled {
		if c.Email.Sender == "" {
			errs = append(errs, "email: sender must not be empty when enabled")
		}
		if len(c.Email.Recipients) == 0 {
			errs = append(errs, "email: recipients must not be empty when enabled")
		}
		if c.Email.AWSRegion == "" {
			errs = append(errs, "email: aws_region must not be empty when enabled")
		}
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when enabled")
		}
	}

	// Redis
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty when enabled")
	}

	// Daemon
	if strings.ToLower(c.Mode) == "daemon" && c.Interval.Duration <= 0 {
		errs = append(errs, "interval must be positive in daemon mode")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// DomainRegions converts the configured regions to domain values.
func (c *Config) DomainRegions() []domain.Region {
	regions := make([]domain.Region, 0, len(c.Regions))
	for _, r := range c.Regions {
		regions = append(regions, domain.Region{
			Name:      r.Name,
			RegionID:  r.RegionID,
			StationID: r.StationID,
		})
	}
	return regions
}

// StaticNames converts the string-keyed TOML name table to typed IDs. Keys
// that fail to parse are skipped; Validate reports them.
func (c *Config) StaticNames() map[int64]string {
	names := make(map[int64]string, len(c.Names.Static))
	for k, v := range c.Names.Static {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		names[id] = v
	}
	return names
}
