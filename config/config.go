// Package config provides configuration loading and management for brickshape.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	semconfig "github.com/c360studio/semstreams/config"

	"github.com/c360studio/brickshape/entity"
	"github.com/c360studio/brickshape/shape"
)

// Config represents the complete brickshape configuration
type Config struct {
	// Sources are the ontology files to load, as paths or doublestar globs
	Sources []string `yaml:"sources"`
	// Prefixes are extra prefix bindings registered after the document's own
	Prefixes   map[string]string `yaml:"prefixes,omitempty"`
	Extraction ExtractionConfig  `yaml:"extraction"`
	NATS       NATSConfig        `yaml:"nats"`
	Metrics    MetricsConfig     `yaml:"metrics"`
	Watch      WatchConfig       `yaml:"watch"`
	Log        LogConfig         `yaml:"log"`
}

// ExtractionConfig configures the property shape extractor
type ExtractionConfig struct {
	// MaxDepth caps nested logical constraints (default: 64)
	MaxDepth int `yaml:"max_depth"`
	// MaxListLength caps the cells of one RDF collection (default: 4096)
	MaxListLength int `yaml:"max_list_length"`
	// LabelPolicy is "first" or "join"
	LabelPolicy string `yaml:"label_policy"`
}

// NATSConfig configures the query service connection
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// SubjectPrefix is prepended to every query subject (default: brick.query)
	SubjectPrefix string `yaml:"subject_prefix"`
	// QueueGroup load-balances requests across service instances
	QueueGroup string `yaml:"queue_group"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled)
	Addr string `yaml:"addr"`
}

// WatchConfig configures hot reload of ontology sources
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
	// DebounceDelay is how long to wait after the last change before reloading
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			MaxDepth:      shape.DefaultMaxDepth,
			MaxListLength: shape.DefaultMaxListLength,
			LabelPolicy:   string(entity.LabelFirst),
		},
		NATS: NATSConfig{
			URL:           "nats://localhost:4222",
			SubjectPrefix: "brick.query",
			QueueGroup:    "brickshape",
		},
		Watch: WatchConfig{
			Enabled:       false,
			DebounceDelay: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Extraction.MaxDepth < 1 {
		return fmt.Errorf("extraction.max_depth must be at least 1")
	}
	if c.Extraction.MaxListLength < 1 {
		return fmt.Errorf("extraction.max_list_length must be at least 1")
	}
	if !entity.LabelPolicy(c.Extraction.LabelPolicy).Valid() {
		return fmt.Errorf("extraction.label_policy must be %q or %q", entity.LabelFirst, entity.LabelJoin)
	}
	if strings.TrimSpace(c.NATS.SubjectPrefix) == "" {
		return fmt.Errorf("nats.subject_prefix is required")
	}
	if strings.ContainsAny(c.NATS.SubjectPrefix, " *>") {
		return fmt.Errorf("nats.subject_prefix must not contain spaces or wildcards")
	}
	if c.Watch.DebounceDelay < 0 {
		return fmt.Errorf("watch.debounce_delay must not be negative")
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %s", strings.Join(logLevels, ", "))
	}
	for prefix, base := range c.Prefixes {
		if prefix == "" || strings.Contains(prefix, ":") {
			return fmt.Errorf("prefixes: invalid prefix %q", prefix)
		}
		if base == "" {
			return fmt.Errorf("prefixes: %s has no base IRI", prefix)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. ${VAR} and ${VAR:-default}
// references are expanded from the environment before parsing.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(expandEnv(data), config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// readLayer decodes a config file without defaults, so that merging it only
// overrides the keys the file actually sets.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var layer Config
	if err := yaml.Unmarshal(expandEnv(data), &layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &layer, nil
}

func expandEnv(data []byte) []byte {
	return []byte(semconfig.ExpandEnvWithDefaults(string(data)))
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values).
// Prefix tables are combined; other wins on conflicting prefixes.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Sources) > 0 {
		c.Sources = other.Sources
	}
	for prefix, base := range other.Prefixes {
		if c.Prefixes == nil {
			c.Prefixes = make(map[string]string, len(other.Prefixes))
		}
		c.Prefixes[prefix] = base
	}

	// Extraction
	if other.Extraction.MaxDepth != 0 {
		c.Extraction.MaxDepth = other.Extraction.MaxDepth
	}
	if other.Extraction.MaxListLength != 0 {
		c.Extraction.MaxListLength = other.Extraction.MaxListLength
	}
	if other.Extraction.LabelPolicy != "" {
		c.Extraction.LabelPolicy = other.Extraction.LabelPolicy
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}
	if other.NATS.QueueGroup != "" {
		c.NATS.QueueGroup = other.NATS.QueueGroup
	}

	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}

	// Watch
	if other.Watch.Enabled {
		c.Watch.Enabled = true
	}
	if other.Watch.DebounceDelay != 0 {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// ResolveSources anchors relative source patterns at dir.
func (c *Config) ResolveSources(dir string) {
	for i, src := range c.Sources {
		if src != "" && !filepath.IsAbs(src) {
			c.Sources[i] = filepath.Join(dir, src)
		}
	}
}
