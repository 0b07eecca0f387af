package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkFindsDSStoreCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "weird.Ds_Store.bak"), []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("z"), 0o644))

	var found []string
	err := Walk(dir, func(f Found) error {
		found = append(found, f.Stat.Path)
		return nil
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, ".DS_Store"),
		filepath.Join(sub, "weird.Ds_Store.bak"),
	}, found)
}

func TestWalkFlagsZeroByteDSStoreAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), nil, 0o644))

	var got Found
	err := Walk(dir, func(f Found) error {
		got = f
		return nil
	})
	require.NoError(t, err)
	assert.True(t, got.Stat.IsEmptyStore)
}

func TestWalkDoesNotFlagNonEmptyStoreAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("not empty"), 0o644))

	var got Found
	err := Walk(dir, func(f Found) error {
		got = f
		return nil
	})
	require.NoError(t, err)
	assert.False(t, got.Stat.IsEmptyStore)
}
