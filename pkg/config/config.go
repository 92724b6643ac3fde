package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for classmeta.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Accessor naming conventions used for property discovery
	Accessors AccessorConfig `koanf:"accessors" toml:"accessors"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AnalysisConfig controls how sources are read.
type AnalysisConfig struct {
	IncludeTests bool  `koanf:"include_tests" toml:"include_tests"`
	MaxFileSize  int64 `koanf:"max_file_size" toml:"max_file_size"` // bytes, 0 = no limit
	Workers      int   `koanf:"workers" toml:"workers"`             // 0 = 2x NumCPU
}

// AccessorConfig decides which methods count as getters and setters.
type AccessorConfig struct {
	GetterPrefixes        []string `koanf:"getter_prefixes" toml:"getter_prefixes"`
	BooleanGetterPrefixes []string `koanf:"boolean_getter_prefixes" toml:"boolean_getter_prefixes"`
	SetterPrefixes        []string `koanf:"setter_prefixes" toml:"setter_prefixes"`
	PublicOnly            bool     `koanf:"public_only" toml:"public_only"`
	IncludeStatic         bool     `koanf:"include_static" toml:"include_static"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon, yaml
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			IncludeTests: false,
			MaxFileSize:  0,
			Workers:      0,
		},
		Accessors: AccessorConfig{
			GetterPrefixes:        []string{"get"},
			BooleanGetterPrefixes: []string{"is"},
			SetterPrefixes:        []string{"set"},
			PublicOnly:            true,
			IncludeStatic:         false,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"package-info.java",
				"module-info.java",
			},
			Dirs: []string{
				".git",
				".classmeta",
				"build",
				"target",
				"out",
				"node_modules",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".classmeta/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"classmeta.toml",
		"classmeta.yaml",
		"classmeta.yml",
		"classmeta.json",
		".classmeta.toml",
		".classmeta.yaml",
		".classmeta.yml",
		".classmeta.json",
	}

	searchDirs := []string{".", ".classmeta"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// Validate reports settings that would make analysis meaningless.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Accessors.GetterPrefixes) == 0 && len(c.Accessors.BooleanGetterPrefixes) == 0 {
		errs = append(errs, errors.New("accessors: at least one getter prefix is required"))
	}
	for _, p := range c.Accessors.SetterPrefixes {
		if p == "" {
			errs = append(errs, errors.New("accessors: empty setter prefix"))
		}
	}
	if c.Analysis.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("analysis: max_file_size must be >= 0, got %d", c.Analysis.MaxFileSize))
	}
	if c.Analysis.Workers < 0 {
		errs = append(errs, fmt.Errorf("analysis: workers must be >= 0, got %d", c.Analysis.Workers))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache: ttl must be >= 0, got %d", c.Cache.TTL))
	}
	return errors.Join(errs...)
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
