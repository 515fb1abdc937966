package adfh

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/robert-malhotra/go-adfh/internal/layout"
)

// Limits fixed by the ADF format.
const (
	MaxNameLength    = 32
	MaxLabelLength   = 32
	MaxDimensions    = 12
	DefaultMaxFiles  = 128
	DefaultLinkDepth = 100
)

// Child order policies.
const (
	OrderCounter  = "counter"
	OrderExplicit = "explicit"
)

// Config tunes a Session. Absent YAML keys keep their defaults.
type Config struct {
	MaxFiles         int           `yaml:"max_files"`
	LinkDepth        int           `yaml:"link_depth"`
	ChildOrder       string        `yaml:"child_order"`
	AbortOnError     bool          `yaml:"abort_on_error"`
	ExternalCacheTTL time.Duration `yaml:"external_cache_ttl"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	CompactThreshold int           `yaml:"compact_threshold"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		MaxFiles:         DefaultMaxFiles,
		LinkDepth:        DefaultLinkDepth,
		ChildOrder:       OrderCounter,
		ExternalCacheTTL: 5 * time.Minute,
		LogLevel:         "info",
		LogFormat:        "text",
		CompactThreshold: layout.DefaultCompactThreshold,
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.MaxFiles < 1 {
		return errors.Errorf("max_files must be positive, got %d", c.MaxFiles)
	}
	if c.LinkDepth < 1 {
		return errors.Errorf("link_depth must be positive, got %d", c.LinkDepth)
	}
	switch c.ChildOrder {
	case OrderCounter, OrderExplicit:
	default:
		return errors.Errorf("child_order must be %q or %q, got %q", OrderCounter, OrderExplicit, c.ChildOrder)
	}
	if c.CompactThreshold < 0 {
		return errors.Errorf("compact_threshold must not be negative, got %d", c.CompactThreshold)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return errors.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// NewLogger builds the logger described by the configuration.
func (c Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	if strings.EqualFold(c.LogFormat, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l
}
