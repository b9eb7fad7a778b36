package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/reportbench/archiver"
	"github.com/MasterOfBinary/reportbench/metar"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultRepetitions, cfg.Source.Repetitions)
	assert.Equal(t, metar.UnknownGroup, cfg.RankCategory())

	opts, err := cfg.ArchiverOptions()
	require.NoError(t, err)
	assert.Equal(t, archiver.BackendMemory, opts.Backend)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reportbench.yaml")

	cfg := DefaultConfig()
	cfg.Source.Path = "reports.txt.sz"
	cfg.Source.Compressed = true
	cfg.Archive.Backend = "sqlite"
	cfg.Report.Top = 20
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reportbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("archive:\n  backend: file\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Archive.Backend)
	assert.Equal(t, DefaultRepetitions, cfg.Source.Repetitions, "unset keys keep defaults")
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reportbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REPORTBENCH_SOURCE_PATH", "/data/metar.txt")
	t.Setenv("REPORTBENCH_ARCHIVE_BACKEND", "file")
	t.Setenv("REPORTBENCH_ARCHIVE_DIR", "/tmp/out")
	t.Setenv("REPORTBENCH_LOG_LEVEL", "debug")
	t.Setenv("REPORTBENCH_BATCH_SIZE", "250")
	t.Setenv("REPORTBENCH_REPETITIONS", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/metar.txt", cfg.Source.Path)
	assert.Equal(t, "file", cfg.Archive.Backend)
	assert.Equal(t, "/tmp/out", cfg.Archive.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 250, cfg.Source.BatchSize)
	assert.Equal(t, 7, cfg.Source.Repetitions)
}

func TestEnvOverrides_BadNumber(t *testing.T) {
	t.Setenv("REPORTBENCH_BATCH_SIZE", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORTBENCH_BATCH_SIZE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative batch size", func(c *Config) { c.Source.BatchSize = -1 }},
		{"zero repetitions", func(c *Config) { c.Source.Repetitions = 0 }},
		{"unknown backend", func(c *Config) { c.Archive.Backend = "tape" }},
		{"compressed memory", func(c *Config) { c.Archive.Compress = true }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"unknown category", func(c *Config) { c.Report.RankCategory = "NoSuchGroup" }},
		{"negative top", func(c *Config) { c.Report.Top = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_RepetitionsIgnoredForFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Path = "reports.txt"
	cfg.Source.Repetitions = 0
	assert.NoError(t, cfg.Validate())
}
