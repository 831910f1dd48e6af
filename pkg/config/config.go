package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	dashboard "github.com/goliatone/go-bda-dashboard/components/dashboard"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BDA_"

// Config is the bdadash runtime configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	HTTP      HTTPConfig      `yaml:"http"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Log       LogConfig       `yaml:"log"`
}

// DataConfig locates the source documents.
type DataConfig struct {
	// Base is a directory or an http(s) URL.
	Base           string                        `yaml:"base"`
	APIKey         string                        `yaml:"api_key,omitempty"`
	LayoutsVariant string                        `yaml:"layouts_variant"`
	Paths          map[dashboard.SourceID]string `yaml:"paths,omitempty"`
	Watch          bool                          `yaml:"watch"`
	WatchDebounce  time.Duration                 `yaml:"watch_debounce,omitempty"`
	MaxConcurrent  int                           `yaml:"max_concurrent,omitempty"`
}

// HTTPConfig configures the web server.
type HTTPConfig struct {
	Addr      string `yaml:"addr"`
	BasePath  string `yaml:"base_path"`
	AssetsDir string `yaml:"assets_dir,omitempty"`
}

// DashboardConfig configures the page.
type DashboardConfig struct {
	Manifest       string `yaml:"manifest,omitempty"`
	Templates      string `yaml:"templates,omitempty"`
	DefaultSection string `yaml:"default_section,omitempty"`
	ChartTheme     string `yaml:"chart_theme,omitempty"`
	AssetsHost     string `yaml:"assets_host,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
	JSON  bool   `yaml:"json,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Data: DataConfig{
			Base:           "data",
			LayoutsVariant: dashboard.LayoutsVariantSample,
			WatchDebounce:  300 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Addr:     ":8080",
			BasePath: "/",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the optional YAML file at path, then .env files, then BDA_*
// environment overrides. A missing path is not an error.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path) //nolint:gosec
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("config: open %s: %w", path, err)
		default:
			defer f.Close()
			if err := Decode(f, &cfg); err != nil {
				return cfg, fmt.Errorf("config: %s: %w", path, err)
			}
		}
	}
	if err := loadEnvFiles(envFiles...); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode merges a YAML document into cfg, rejecting unknown keys.
func Decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse: %w", err)
	}
	return nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			present = append(present, file)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("config: load env: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from BDA_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("DATA_BASE", &c.Data.Base)
	str("DATA_API_KEY", &c.Data.APIKey)
	str("LAYOUTS_VARIANT", &c.Data.LayoutsVariant)
	str("HTTP_ADDR", &c.HTTP.Addr)
	str("HTTP_BASE_PATH", &c.HTTP.BasePath)
	str("ASSETS_DIR", &c.HTTP.AssetsDir)
	str("MANIFEST", &c.Dashboard.Manifest)
	str("TEMPLATES", &c.Dashboard.Templates)
	str("DEFAULT_SECTION", &c.Dashboard.DefaultSection)
	str("CHART_THEME", &c.Dashboard.ChartTheme)
	str("ECHARTS_CDN", &c.Dashboard.AssetsHost)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FILE", &c.Log.File)

	if v, ok := lookup(EnvPrefix + "WATCH"); ok && v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sWATCH: %w", EnvPrefix, err)
		}
		c.Data.Watch = watch
	}
	if v, ok := lookup(EnvPrefix + "LOG_JSON"); ok && v != "" {
		asJSON, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sLOG_JSON: %w", EnvPrefix, err)
		}
		c.Log.JSON = asJSON
	}
	if v, ok := lookup(EnvPrefix + "MAX_CONCURRENT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sMAX_CONCURRENT: %w", EnvPrefix, err)
		}
		c.Data.MaxConcurrent = n
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Data.LayoutsVariant {
	case dashboard.LayoutsVariantAll, dashboard.LayoutsVariantSample:
	default:
		return fmt.Errorf("config: layouts variant must be %q or %q, got %q",
			dashboard.LayoutsVariantAll, dashboard.LayoutsVariantSample, c.Data.LayoutsVariant)
	}
	if strings.TrimSpace(c.Data.Base) == "" {
		return errors.New("config: data base is required")
	}
	if c.Data.MaxConcurrent < 0 {
		return errors.New("config: max_concurrent cannot be negative")
	}
	return nil
}

// IsRemote reports whether sources are fetched over HTTP.
func (c Config) IsRemote() bool {
	return strings.HasPrefix(c.Data.Base, "http://") || strings.HasPrefix(c.Data.Base, "https://")
}

// Catalog builds the source catalog for the configured variant and path
// overrides.
func (c Config) Catalog() (*dashboard.SourceCatalog, error) {
	catalog, err := dashboard.NewSourceCatalog(dashboard.DefaultSources(c.Data.LayoutsVariant)...)
	if err != nil {
		return nil, err
	}
	for id, path := range c.Data.Paths {
		if err := catalog.SetPath(id, path); err != nil {
			return nil, fmt.Errorf("config: path override: %w", err)
		}
	}
	return catalog, nil
}

// Manifest loads the configured page manifest, or the built-in one, and
// applies the default section override.
func (c Config) Manifest() (*dashboard.PageManifest, error) {
	manifest := dashboard.DefaultPageManifest()
	if c.Dashboard.Manifest != "" {
		loaded, err := dashboard.ReadManifest(c.Dashboard.Manifest)
		if err != nil {
			return nil, err
		}
		manifest = loaded
	}
	if c.Dashboard.DefaultSection != "" {
		manifest.DefaultSection = dashboard.SectionID(c.Dashboard.DefaultSection)
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
	}
	return manifest, nil
}
