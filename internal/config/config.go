package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults for the public VeloPark road-cycling page.
const (
	DefaultSourceURL    = "https://www.better.org.uk/leisure-centre/lee-valley/velopark/road-cycling"
	DefaultCalendarName = "Lee Valley VeloPark - Road Cycling"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the calendar
// endpoints. /health is always left open.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// SourceURL is the opening-hours page that gets scraped.
	SourceURL string `yaml:"source_url" json:"source_url"`

	// Timezone is the IANA zone name advertised in the calendar document
	// (X-WR-TIMEZONE) and used when picking "now" for year disambiguation.
	Timezone string `yaml:"timezone" json:"timezone"`

	// CalendarName is the default display name; the request's ?name=
	// parameter overrides it per call.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// IncludeNotes controls whether parenthesised annotations from the
	// source page are appended to event descriptions by default.
	IncludeNotes bool `yaml:"include_notes" json:"include_notes"`

	// WeeksAhead is the default horizon ceiling. It never causes weeks to
	// be fabricated beyond what the page supplies.
	WeeksAhead int `yaml:"weeks_ahead" json:"weeks_ahead"`

	// RefreshCron is a cron expression (e.g. "*/30 * * * *") for the
	// background re-scrape that keeps the schedule cache warm.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// FetchTimeoutSec bounds one headless-browser page fetch.
	FetchTimeoutSec int `yaml:"fetch_timeout_sec" json:"fetch_timeout_sec"`

	// CacheDir is the base directory for the on-disk page cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:8080",
		SourceURL:       DefaultSourceURL,
		Timezone:        "Europe/London",
		CalendarName:    DefaultCalendarName,
		IncludeNotes:    true,
		WeeksAhead:      8,
		RefreshCron:     "*/30 * * * *",
		FetchTimeoutSec: 30,
		CacheDir:        "/var/lib/velocal/page-cache",
		BasicAuth:       nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.SourceURL == "" {
		c.SourceURL = DefaultSourceURL
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/London"
	}
	if c.CalendarName == "" {
		c.CalendarName = DefaultCalendarName
	}
	if c.WeeksAhead <= 0 {
		c.WeeksAhead = 8
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/30 * * * *"
	}
	if c.FetchTimeoutSec <= 0 {
		c.FetchTimeoutSec = 30
	}
	if c.CacheDir == "" {
		c.CacheDir = "/var/lib/velocal/page-cache"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create the parent directory if needed,
//     write a default config with 0600 perms, and return the defaults.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg with the error so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path: parent
// directory ensured (0700), atomic write via temp file + rename, final file
// permissions 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".velocal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
