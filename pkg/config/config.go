package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"
	dirMode  = 0700
	fileMode = 0600

	DefaultParty       = "Democratic"
	DefaultCountyPlan  = "COUNTY"
	DefaultPopulation  = "TOTPOP"
	DefaultMargin      = 0.03
	DefaultCacheSize   = 1024
	DefaultParallelism = 4
)

// Config holds the scoring defaults. CLI flags override them.
type Config struct {
	Party       string   `yaml:"party"`
	Elections   []string `yaml:"elections,omitempty"`
	CountyPlan  string   `yaml:"county_plan"`
	Population  string   `yaml:"population"`
	Margin      float64  `yaml:"margin"`
	CacheSize   int      `yaml:"cache_size"`
	Parallelism int      `yaml:"parallelism"`
}

func Default() *Config {
	return &Config{
		Party:       DefaultParty,
		CountyPlan:  DefaultCountyPlan,
		Population:  DefaultPopulation,
		Margin:      DefaultMargin,
		CacheSize:   DefaultCacheSize,
		Parallelism: DefaultParallelism,
	}
}

// Validate checks ranges and fills zero values with defaults.
func (c *Config) Validate() error {
	if c.Margin < 0 || c.Margin > 0.5 {
		return fmt.Errorf("margin must be within [0, 0.5], got %v", c.Margin)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism)
	}
	if c.Party == "" {
		c.Party = DefaultParty
	}
	if c.Population == "" {
		c.Population = DefaultPopulation
	}
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.Parallelism == 0 {
		c.Parallelism = DefaultParallelism
	}
	return nil
}

func Save(path string, c *Config) error {
	if path == "" {
		return errors.New("config path required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads the config file at path, creating it with defaults
// (and its directory) when it does not exist.
func ReadOrCreate(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, fmt.Errorf("creating dir %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, Default()); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}
