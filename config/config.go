// Package config loads reportbench settings from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MasterOfBinary/reportbench/archiver"
	"github.com/MasterOfBinary/reportbench/metar"
	"github.com/MasterOfBinary/reportbench/source"
)

// DefaultRepetitions is how many times the embedded dataset is replayed.
const DefaultRepetitions = 300

// Config holds all reportbench configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Archive ArchiveConfig `yaml:"archive"`
	Logging LoggingConfig `yaml:"logging"`
	Report  ReportConfig  `yaml:"report"`
}

// SourceConfig selects the reports to parse.
type SourceConfig struct {
	// Path is a newline-delimited report file. If empty, the embedded
	// dataset is replayed Repetitions times.
	Path        string `yaml:"path"`
	BatchSize   int    `yaml:"batch_size"`
	Compressed  bool   `yaml:"compressed"`
	Repetitions int    `yaml:"repetitions"`
}

// ArchiveConfig configures where parsed groups are archived.
type ArchiveConfig struct {
	Backend         string `yaml:"backend"` // memory, file, sqlite
	Dir             string `yaml:"dir"`
	Compress        bool   `yaml:"compress"`
	ReplayBatchSize int    `yaml:"replay_batch_size"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// ReportConfig configures the frequency ranking printed after a run.
type ReportConfig struct {
	// RankCategory is the group category whose archives are ranked.
	RankCategory string `yaml:"rank_category"`
	// Top limits the ranking to the most frequent entries. Zero prints all.
	Top int `yaml:"top"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BatchSize:   source.DefaultBatchSize,
			Repetitions: DefaultRepetitions,
		},
		Archive: ArchiveConfig{
			Backend:         string(archiver.BackendMemory),
			Dir:             "archives",
			ReplayBatchSize: source.DefaultBatchSize,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Report: ReportConfig{
			RankCategory: metar.UnknownGroup.String(),
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults. A missing
// file is not an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies REPORTBENCH_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("REPORTBENCH_SOURCE_PATH"); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv("REPORTBENCH_ARCHIVE_BACKEND"); v != "" {
		c.Archive.Backend = v
	}
	if v := os.Getenv("REPORTBENCH_ARCHIVE_DIR"); v != "" {
		c.Archive.Dir = v
	}
	if v := os.Getenv("REPORTBENCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"REPORTBENCH_BATCH_SIZE", &c.Source.BatchSize},
		{"REPORTBENCH_REPETITIONS", &c.Source.Repetitions},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", o.env, err)
		}
		*o.dst = n
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Source.BatchSize < 0 {
		return errors.New("source.batch_size cannot be negative")
	}
	if c.Source.Path == "" && c.Source.Repetitions < 1 {
		return errors.New("source.repetitions must be at least 1")
	}
	if _, err := c.ArchiverOptions(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	if _, ok := metar.CategoryFromName(c.Report.RankCategory); !ok {
		return fmt.Errorf("unknown report.rank_category %q", c.Report.RankCategory)
	}
	if c.Report.Top < 0 {
		return errors.New("report.top cannot be negative")
	}
	return nil
}

// ArchiverOptions converts the archive section to archiver.Options.
func (c *Config) ArchiverOptions() (archiver.Options, error) {
	backend, err := archiver.ParseBackend(c.Archive.Backend)
	if err != nil {
		return archiver.Options{}, err
	}
	opts := archiver.Options{
		Backend:         backend,
		Dir:             c.Archive.Dir,
		Compress:        c.Archive.Compress,
		ReplayBatchSize: c.Archive.ReplayBatchSize,
	}
	if err := opts.Validate(); err != nil {
		return archiver.Options{}, err
	}
	return opts, nil
}

// FileConfig converts the source section to a source.FileConfig.
func (c *Config) FileConfig() source.FileConfig {
	return source.FileConfig{
		Path:       c.Source.Path,
		BatchSize:  c.Source.BatchSize,
		Compressed: c.Source.Compressed,
	}
}

// RankCategory returns the category whose archives are ranked.
func (c *Config) RankCategory() metar.Category {
	cat, ok := metar.CategoryFromName(c.Report.RankCategory)
	if !ok {
		return metar.UnknownGroup
	}
	return cat
}
