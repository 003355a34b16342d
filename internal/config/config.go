package config

import (
	stderrors "errors"
	"log/slog"
	"net"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/imageloader/internal/errors"
)

const (
	// ConfigName is the config file name without extension.
	ConfigName = "imageloader"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "IMAGELOADER"

	// DefaultTimeout is the default per-fetch timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes is the default image size limit.
	DefaultMaxBytes = 20 << 20

	// DefaultAddr is the default preview server address.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultRenderTimeout is how long /render waits for a final status.
	DefaultRenderTimeout = 10 * time.Second

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "imageloader"
)

// Config is the complete imageloader configuration.
type Config struct {
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Server  ServerConfig  `mapstructure:"server"`
	S3      S3Config      `mapstructure:"s3"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`

	// path is the config file that was read, if any.
	path string
}

// FetchConfig configures image transfers.
type FetchConfig struct {
	// Timeout bounds one transfer; zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxBytes limits the image size; zero means no limit.
	MaxBytes int64 `mapstructure:"max_bytes"`

	// DevicePixelRatio selects srcset density candidates.
	DevicePixelRatio float64 `mapstructure:"device_pixel_ratio"`

	// ViewportWidth is the layout width for srcset width candidates.
	ViewportWidth int `mapstructure:"viewport_width"`

	// UserAgent is sent with HTTP requests.
	UserAgent string `mapstructure:"user_agent"`

	// BaseURL resolves relative sources. When empty, relative sources are
	// files under Root.
	BaseURL string `mapstructure:"base_url"`

	// Root confines file sources. When empty, probe may read any path and
	// serve does not load files at all.
	Root string `mapstructure:"root"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	Pretty        bool          `mapstructure:"pretty"`
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
}

// S3Config configures the object storage source. The source is registered
// only when Region is set.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	PathStyle bool   `mapstructure:"path_style"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:          DefaultTimeout,
			MaxBytes:         DefaultMaxBytes,
			DevicePixelRatio: 1,
			UserAgent:        "imageloader",
		},
		Server: ServerConfig{
			Addr:          DefaultAddr,
			RenderTimeout: DefaultRenderTimeout,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.max_bytes", d.Fetch.MaxBytes)
	v.SetDefault("fetch.device_pixel_ratio", d.Fetch.DevicePixelRatio)
	v.SetDefault("fetch.viewport_width", d.Fetch.ViewportWidth)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.base_url", d.Fetch.BaseURL)
	v.SetDefault("fetch.root", d.Fetch.Root)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.pretty", d.Server.Pretty)
	v.SetDefault("server.render_timeout", d.Server.RenderTimeout)

	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.endpoint", d.S3.Endpoint)
	v.SetDefault("s3.path_style", d.S3.PathStyle)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)

	v.SetDefault("log.level", d.Log.Level)
}

// NewViper returns a viper instance with defaults, environment overrides
// and the config file search path set up. path names an explicit config
// file; when empty, imageloader.{yaml,json,toml} is looked up in the
// working directory.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}
	return v
}

// Load reads and validates the configuration. A missing config file is
// not an error unless path names it explicitly.
func Load(path string) (*Config, error) {
	return LoadViper(NewViper(path), path != "")
}

// LoadViper reads the configuration from v. When required is set, a
// missing config file is an error.
func LoadViper(v *viper.Viper, required bool) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case stderrors.As(err, &notFound) && !required:
		case stderrors.Is(err, os.ErrNotExist):
			return nil, errors.New("E101").
				WithField(v.ConfigFileUsed()).
				WithSuggestion("Check the --config path or remove the flag to use defaults").
				Wrap(err)
		default:
			return nil, errors.New("E100").WithField(v.ConfigFileUsed()).Wrap(err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("E100").WithField(v.ConfigFileUsed()).Wrap(err)
	}
	cfg.path = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the config file that was read, or "" for defaults only.
func (c *Config) Path() string {
	return c.path
}

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the configuration and returns the first problem as a
// coded error.
func (c *Config) Validate() error {
	if c.Fetch.Timeout < 0 {
		return errors.New("E102").
			WithField("fetch.timeout").
			WithSuggestion(`Use a positive duration such as "10s", or 0 for no limit`)
	}
	if c.Fetch.MaxBytes < 0 {
		return errors.New("E103").
			WithField("fetch.max_bytes").
			WithSuggestion("Use 0 for no limit")
	}
	if c.Fetch.DevicePixelRatio <= 0 {
		return errors.New("E104").
			WithField("fetch.device_pixel_ratio").
			WithSuggestion("Use 1 for standard displays or 2 for high density displays")
	}
	if c.Fetch.BaseURL != "" {
		u, err := url.Parse(c.Fetch.BaseURL)
		if err != nil || !u.IsAbs() || u.Opaque != "" {
			e := errors.New("E121").
				WithField("fetch.base_url").
				WithExample("base_url: https://cdn.example.com/images/")
			if err != nil {
				e.Wrap(err)
			}
			return e
		}
	}
	if c.S3.Endpoint != "" {
		if _, err := EndpointURL(c.S3.Endpoint); err != nil {
			return err
		}
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.New("E105").
			WithField("server.addr").
			WithExample("addr: 127.0.0.1:8080").
			Wrap(err)
	}
	if c.Server.RenderTimeout <= 0 {
		return errors.New("E107").
			WithField("server.render_timeout").
			WithSuggestion(`Use a positive duration such as "10s"`)
	}
	if c.Metrics.Enabled && !namespacePattern.MatchString(c.Metrics.Namespace) {
		return errors.New("E108").WithField("metrics.namespace")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.New("E106").
		WithField("log.level").
		WithSuggestion("Use one of debug, info, warn, error")
}

// BaseURL returns the parsed base URL, or nil when none is configured.
func (c *Config) BaseURL() *url.URL {
	if c.Fetch.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.Fetch.BaseURL)
	if err != nil {
		return nil
	}
	return u
}

// EndpointURL parses an object storage endpoint. It must be an http or
// https URL with a host; "localhost:9000" parses as scheme "localhost" and
// is rejected.
func EndpointURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return u, nil
	}
	e := errors.New("E120").
		WithField("s3.endpoint").
		WithExample("endpoint: http://127.0.0.1:9000")
	if err != nil {
		e.Wrap(err)
	}
	return nil, e
}
