package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SharedArchives(t *testing.T) {
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "archives.db"))
	require.NoError(t, err)
	defer store.Close()
	store.SetCommitEvery(2)

	clouds, err := store.Archive("CloudGroup-metar")
	require.NoError(t, err)
	winds, err := store.Archive("WindGroup-metar")
	require.NoError(t, err)

	require.NoError(t, clouds.Append("FEW020"))
	require.NoError(t, winds.Append("24010KT"))
	require.NoError(t, clouds.Append("BKN040"))
	require.NoError(t, winds.Append("VRB02KT"))
	require.NoError(t, clouds.Append("OVC100"))

	src, err := clouds.Source(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"FEW020", "BKN040", "OVC100"}, replay(t, src, 2))

	require.NoError(t, winds.Append("00000KT"))
	src, err = winds.Source(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"24010KT", "VRB02KT", "00000KT"}, replay(t, src, 0))
}

func TestSQLiteStore_ArchiveResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archives.db")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	a, err := store.Archive("reportError")
	require.NoError(t, err)
	require.NoError(t, a.Append("stale"))
	require.NoError(t, store.Close())

	store, err = OpenSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	a, err = store.Archive("reportError")
	require.NoError(t, err)
	require.NoError(t, a.Append("fresh"))

	src, err := a.Source(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, replay(t, src, 10))
}

func TestOpenSQLiteStore_EmptyPath(t *testing.T) {
	_, err := OpenSQLiteStore(" ")
	assert.Error(t, err)
}
