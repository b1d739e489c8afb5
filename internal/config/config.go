package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultEnvFile      = ".env"
	defaultEnvPrefix    = "SITE"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	defaultOutputDir    = "dist"
	defaultConcurrency  = 4
	defaultLogLevel     = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Server    ServerConfig    `mapstructure:"server"`
	Build     BuildConfig     `mapstructure:"build"`
	Paths     PathsConfig     `mapstructure:"paths"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Dev       bool            `mapstructure:"dev"`
	LogLevel  string          `mapstructure:"log_level"`

	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// SiteConfig overrides the public identity of the site.
type SiteConfig struct {
	// BaseURL replaces the business URL in canonical links, schemas and the sitemap.
	BaseURL string `mapstructure:"base_url"`
	Name    string `mapstructure:"name"`
	// Disallow lists robots.txt Disallow rules. Each starts with "/".
	Disallow []string `mapstructure:"disallow"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// BuildConfig configures static builds.
type BuildConfig struct {
	OutputDir   string `mapstructure:"output_dir"`
	Concurrency int    `mapstructure:"concurrency"`
	// Strict fails the build when the audit reports any finding.
	Strict bool `mapstructure:"strict"`
}

// PathsConfig points at on-disk sources. Empty values use the embedded copies.
type PathsConfig struct {
	Content   string `mapstructure:"content"`
	Templates string `mapstructure:"templates"`
	Static    string `mapstructure:"static"`
}

// AnalyticsConfig holds client instrumentation ids surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string `mapstructure:"ga4_measurement_id"`
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
	envPrefix  string
}

// WithConfigFile reads an explicit YAML config file. A missing file is an error.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvPrefix changes the environment variable prefix (default SITE).
func WithEnvPrefix(prefix string) Option {
	return func(o *loaderOptions) {
		o.envPrefix = prefix
	}
}

// Load assembles configuration from defaults, an optional config.yaml, an
// optional .env file and SITE_* environment variables, in increasing priority.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:   defaultEnvFile,
		envPrefix: defaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(&options)
	}

	// .env never overrides variables that are already set.
	if options.envFile != "" {
		if err := godotenv.Load(options.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", options.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if options.configFile != "" {
		v.SetConfigFile(options.configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(options.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case options.configFile != "":
			return Config{}, fmt.Errorf("config: read %s: %w", options.configFile, err)
		case errors.As(err, &notFound):
			// defaults and environment only
		default:
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Site.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Site.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Cloud Run style PORT is honoured when no address is configured.
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	v.SetDefault("site.base_url", "")
	v.SetDefault("site.name", "bayshore-site")
	v.SetDefault("site.disallow", []string{})
	v.SetDefault("server.addr", ":"+port)
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
	v.SetDefault("server.idle_timeout", defaultIdleTimeout)
	v.SetDefault("build.output_dir", defaultOutputDir)
	v.SetDefault("build.concurrency", defaultConcurrency)
	v.SetDefault("build.strict", false)
	v.SetDefault("paths.content", "")
	v.SetDefault("paths.templates", "")
	v.SetDefault("paths.static", "")
	v.SetDefault("analytics.ga4_measurement_id", "")
	v.SetDefault("dev", false)
	v.SetDefault("log_level", defaultLogLevel)
}

// Validate reports every missing or invalid field at once.
func (c Config) Validate() error {
	var invalid []string

	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			invalid = append(invalid, "Site.BaseURL")
		}
	}
	for _, rule := range c.Site.Disallow {
		if !strings.HasPrefix(strings.TrimSpace(rule), "/") {
			invalid = append(invalid, "Site.Disallow")
			break
		}
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		invalid = append(invalid, "Server.Addr")
	}
	if c.Server.ReadTimeout <= 0 {
		invalid = append(invalid, "Server.ReadTimeout")
	}
	if c.Server.WriteTimeout <= 0 {
		invalid = append(invalid, "Server.WriteTimeout")
	}
	if c.Server.IdleTimeout <= 0 {
		invalid = append(invalid, "Server.IdleTimeout")
	}
	if strings.TrimSpace(c.Build.OutputDir) == "" {
		invalid = append(invalid, "Build.OutputDir")
	}
	if c.Build.Concurrency < 1 {
		invalid = append(invalid, "Build.Concurrency")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "LogLevel")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}
