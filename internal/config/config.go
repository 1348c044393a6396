// Package config loads settings for the stylepdf binaries from an optional
// YAML file and the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/gompdf/stylepdf/internal/enhance"
	"github.com/gompdf/stylepdf/internal/fonts"
	"github.com/gompdf/stylepdf/internal/pagination"
	"github.com/gompdf/stylepdf/internal/style"
	"github.com/gompdf/stylepdf/pkg/api"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidConfig  = errors.New("invalid config")
)

// MaxFileSize limits the size of a config file.
const MaxFileSize = 1 << 20

// Config holds all settings.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Render  RenderConfig  `yaml:"render"`
	Enhance EnhanceConfig `yaml:"enhance"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// RenderConfig defines document defaults.
type RenderConfig struct {
	Template     string  `yaml:"template"`
	Color        string  `yaml:"color"`
	Font         string  `yaml:"font"`
	FontDir      string  `yaml:"fontDir"`
	PageSize     string  `yaml:"pageSize"`
	ContentSize  float64 `yaml:"contentSize"` // points
	TitleSize    float64 `yaml:"titleSize"`   // points
	ShowDate     bool    `yaml:"showDate"`
	ShowTemplate bool    `yaml:"showTemplate"`
	DateLayout   string  `yaml:"dateLayout"`
}

// EnhanceConfig defines the enhancement client.
type EnhanceConfig struct {
	// APIKey is normally supplied through ANTHROPIC_API_KEY.
	APIKey       string        `yaml:"apiKey"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"baseURL"`
	Level        string        `yaml:"level"`
	DocumentType string        `yaml:"documentType"`
	MaxRetries   int           `yaml:"maxRetries"`
	CacheTTL     time.Duration `yaml:"cacheTTL"`
	// RedisURL selects a Redis cache; empty means an in-process cache.
	RedisURL string `yaml:"redisURL"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "3005",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    180 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20,
			AllowedOrigins:  []string{"*"},
		},
		Render: RenderConfig{
			Template:     string(style.TemplateDefault),
			Color:        string(style.ColorDefault),
			Font:         fonts.DefaultFamily,
			FontDir:      "fonts",
			PageSize:     pagination.PageSizeA4.Name,
			ContentSize:  12,
			TitleSize:    24,
			ShowDate:     true,
			ShowTemplate: true,
			DateLayout:   "01/02/2006",
		},
		Enhance: EnhanceConfig{
			Model:        enhance.DefaultModel,
			BaseURL:      enhance.DefaultBaseURL,
			Level:        string(enhance.LevelMedium),
			DocumentType: string(enhance.DocArticle),
			MaxRetries:   2,
			CacheTTL:     24 * time.Hour,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads path (if not empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv(os.Getenv)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return err
	}
	if len(data) > MaxFileSize {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrConfigParse, path, MaxFileSize)
	}
	if err := yaml.UnmarshalWithOptions(data, c, yaml.Strict()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Server.Port)
	str("ANTHROPIC_API_KEY", &c.Enhance.APIKey)
	str("ANTHROPIC_MODEL", &c.Enhance.Model)
	str("STYLEPDF_TEMPLATE", &c.Render.Template)
	str("STYLEPDF_COLOR", &c.Render.Color)
	str("STYLEPDF_FONT", &c.Render.Font)
	str("STYLEPDF_FONT_DIR", &c.Render.FontDir)
	str("STYLEPDF_PAGE_SIZE", &c.Render.PageSize)
	str("STYLEPDF_ENHANCE_LEVEL", &c.Enhance.Level)
	str("STYLEPDF_DOCUMENT_TYPE", &c.Enhance.DocumentType)
	str("STYLEPDF_REDIS_URL", &c.Enhance.RedisURL)
	str("STYLEPDF_LOG_LEVEL", &c.Log.Level)
	str("STYLEPDF_LOG_FORMAT", &c.Log.Format)

	if v := getenv("STYLEPDF_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Enhance.CacheTTL = d
		}
	}
	if v := getenv("STYLEPDF_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Enhance.MaxRetries = n
		}
	}
	if v := getenv("STYLEPDF_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
}

// normalize maps the closed enumerations onto their documented defaults.
func (c *Config) normalize() {
	c.Render.Template = string(style.ParseTemplate(c.Render.Template))
	c.Render.Color = string(style.ParseColorClass(c.Render.Color))
	c.Enhance.Level = string(enhance.ParseLevel(c.Enhance.Level))
	c.Enhance.DocumentType = string(enhance.ParseDocumentType(c.Enhance.DocumentType))
	if strings.TrimSpace(c.Render.Font) == "" {
		c.Render.Font = fonts.DefaultFamily
	}
	for i, o := range c.Server.AllowedOrigins {
		c.Server.AllowedOrigins[i] = strings.TrimSpace(o)
	}
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if n, err := strconv.Atoi(c.Server.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("server.port %q is not a valid port", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.maxBodyBytes must be positive"))
	}
	if _, ok := pagination.LookupPageSize(c.Render.PageSize); !ok {
		errs = append(errs, fmt.Errorf("render.pageSize %q is not a known page size", c.Render.PageSize))
	}
	if c.Render.ContentSize <= 0 || c.Render.TitleSize <= 0 {
		errs = append(errs, errors.New("render font sizes must be positive"))
	}
	if c.Enhance.MaxRetries < 0 {
		errs = append(errs, errors.New("enhance.maxRetries must not be negative"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "json" && f != "text" {
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// NewClient builds the enhancement client with an in-process cache, or a
// Redis cache when RedisURL is set. closeFn releases both.
func (e EnhanceConfig) NewClient(logger *slog.Logger) (client *enhance.Client, closeFn func(), err error) {
	var cache enhance.Cache = enhance.NewMemoryCache()
	release := func() {}
	if e.RedisURL != "" {
		rc, err := enhance.NewRedisCacheFromURL(e.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: enhance.redisURL: %v", ErrInvalidConfig, err)
		}
		cache = rc
		release = func() { rc.Close() }
	}
	client = enhance.NewClient(e.APIKey,
		enhance.WithModel(e.Model),
		enhance.WithBaseURL(e.BaseURL),
		enhance.WithMaxRetries(e.MaxRetries),
		enhance.WithCache(cache, e.CacheTTL),
		enhance.WithLogger(logger),
	)
	return client, func() {
		client.Close()
		release()
	}, nil
}

// Apply copies the render settings onto converter options.
func (r RenderConfig) Apply(o *api.Options) {
	if ps, ok := pagination.LookupPageSize(r.PageSize); ok {
		o.PageWidth, o.PageHeight = ps.Width, ps.Height
	}
	o.Template = r.Template
	o.ColorClass = r.Color
	o.FontFamily = r.Font
	if r.FontDir != "" {
		o.FontDirectories = []string{r.FontDir}
	}
	o.ContentSize = r.ContentSize
	o.TitleSize = r.TitleSize
	o.ShowDate = r.ShowDate
	o.ShowTemplate = r.ShowTemplate
	if r.DateLayout != "" {
		o.DateLayout = r.DateLayout
	}
}

// NewLogger builds a logger writing to w. debug forces the debug level.
func (l LogConfig) NewLogger(w io.Writer, debug bool) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", s, err)
	}
	return level, nil
}
