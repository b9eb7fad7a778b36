package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MasterOfBinary/reportbench/archiver"
	"github.com/MasterOfBinary/reportbench/config"
	"github.com/MasterOfBinary/reportbench/metar"
	"github.com/MasterOfBinary/reportbench/source"
)

func setup(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	verbose = false
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunCmd_EmbeddedDataset(t *testing.T) {
	setup(t)

	out, err := execute(t, newRunCmd(), "--repetitions", "2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Checking overall parser performance\nTest set size is "))
	assert.Contains(t, out, " reports per second.\n")
	assert.Contains(t, out, "Reports not recognised by the parser:\nReports with errors: ")
	assert.Contains(t, out, "\nGroups not recognised by the parser:\n")
}

func TestRunCmd_File(t *testing.T) {
	setup(t)

	dir := t.TempDir()
	reports := filepath.Join(dir, "reports.txt")
	require.NoError(t, os.WriteFile(reports, []byte(
		"METAR EGLL 121250Z 24010KT 9999 FEW020 12/08 Q1012\n"+
			"METAR KJFK 121251Z 22014KT 10SM FEW045 18/09 A3002 RMK AO2 ZZZZZ\n"+
			"METAR KBOS 121254Z 22014KT 10SM FEW045 18/09 A3002 RMK AO2 ZZZZZ\n"), 0644))

	out, err := execute(t, newRunCmd(),
		"--file", reports,
		"--batch-size", "2",
		"--backend", "file",
		"--dir", filepath.Join(dir, "archives"))
	require.NoError(t, err)

	assert.Contains(t, out, "Test set size is 3\n")
	assert.Contains(t, out, "no report errors, all reports parsed successfully\n")
	assert.True(t, strings.HasSuffix(out, "Groups not recognised by the parser:\n2: ZZZZZ\n"), out)

	data, err := os.ReadFile(filepath.Join(dir, "archives", "UnknownGroup-remark.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ZZZZZ\nZZZZZ\n", string(data))
}

func TestRunCmd_SQLiteBackend(t *testing.T) {
	setup(t)

	_, err := execute(t, newRunCmd(), "--repetitions", "1", "--backend", "sqlite", "--dir", t.TempDir())
	require.NoError(t, err)
}

func TestRunCmd_InvalidConfig(t *testing.T) {
	setup(t)

	_, err := execute(t, newRunCmd(), "--backend", "tape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRunCmd_MissingFile(t *testing.T) {
	setup(t)

	_, err := execute(t, newRunCmd(), "--file", filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRankCmd(t *testing.T) {
	setup(t)

	dir := t.TempDir()
	a := filepath.Join(dir, "UnknownGroup-metar.txt")
	b := filepath.Join(dir, "UnknownGroup-remark.txt")
	require.NoError(t, os.WriteFile(a, []byte("X\nY\nX\nX\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("Y\nX\nX\nY\nY\nY"), 0644))

	out, err := execute(t, newRankCmd(), a, b)
	require.NoError(t, err)
	assert.Equal(t, "5: X\n5: Y\n", sortTies(out))

	out, err = execute(t, newRankCmd(), "--repetitions", "5", "--top", "1", a, b)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
	assert.True(t, strings.HasPrefix(out, "1: "))
}

// sortTies makes output with equal counts comparable.
func sortTies(out string) string {
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) == 2 && lines[0] > lines[1] {
		lines[0], lines[1] = lines[1], lines[0]
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestRankCmd_BadRepetitions(t *testing.T) {
	setup(t)

	_, err := execute(t, newRankCmd(), "--repetitions", "0", "x.txt")
	assert.Error(t, err)
}

func TestArchivesCmd(t *testing.T) {
	setup(t)
	cfg.Archive.Backend = "file"
	cfg.Archive.Dir = "out"

	out, err := execute(t, newArchivesCmd())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, metar.NumCategories*metar.NumParts+1)
	assert.Equal(t, filepath.Join("out", "KeywordGroup-unknown.txt"), lines[0])
	assert.Equal(t, filepath.Join("out", archiver.ErrorArchiveName+".txt"), lines[len(lines)-1])
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestLogRankedFile(t *testing.T) {
	setup(t)
	core, logs := observer.New(zapcore.DebugLevel)
	logger = zap.New(core)

	path := writeTemp(t, "a\nb\nc\n")
	src, err := source.NewFile(source.FileConfig{Path: path})
	require.NoError(t, err)
	defer src.Close()

	logRankedFile(path, src)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "3", logs.All()[0].ContextMap()["records"])
}

func TestLogRankedFile_CountFails(t *testing.T) {
	setup(t)
	core, logs := observer.New(zapcore.DebugLevel)
	logger = zap.New(core)

	path := writeTemp(t, "a\n")
	src, err := source.NewFile(source.FileConfig{Path: path})
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, os.Remove(path))

	logRankedFile(path, src)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Contains(t, fields, "error")
	assert.NotContains(t, fields, "records")
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
