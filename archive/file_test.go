package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CloudGroup-metar.txt")
	a, err := NewFile(FileConfig{Path: path})
	require.NoError(t, err)

	require.NoError(t, a.Append("FEW020"))
	require.NoError(t, a.Append("BKN040\n"))
	require.NoError(t, a.Append(""))
	require.NoError(t, a.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "FEW020\nBKN040\n\n", string(data))
}

func TestFile_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reportError.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\nrecords\n"), 0o644))

	a, err := NewFile(FileConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, a.Append("fresh"))

	src, err := a.Source(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, replay(t, src, 10))
}

func TestFile_Multiline(t *testing.T) {
	a, err := NewFile(FileConfig{Path: filepath.Join(t.TempDir(), "a.txt")})
	require.NoError(t, err)
	defer a.Close()

	assert.ErrorIs(t, a.Append("one\ntwo"), ErrMultiline)
	assert.Zero(t, a.Len())
	assert.NoError(t, a.Append("three"), "multiline rejection is not sticky")
}

func TestFile_WriteErrorSticky(t *testing.T) {
	a, err := NewFile(FileConfig{Path: filepath.Join(t.TempDir(), "a.txt")})
	require.NoError(t, err)

	// Closing the file underneath the archive makes sealing fail.
	require.NoError(t, a.f.Close())

	_, err = a.Source(10)
	require.Error(t, err)
	assert.Equal(t, err, a.Append("x"))
	_, err2 := a.Source(10)
	assert.Equal(t, err, err2)
}

func TestNewFile_InvalidConfig(t *testing.T) {
	_, err := NewFile(FileConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path cannot be empty")
}

func TestFile_MissingDirectory(t *testing.T) {
	_, err := NewFile(FileConfig{Path: filepath.Join(t.TempDir(), "missing", "a.txt")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
