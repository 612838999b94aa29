package dgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "erupted", "core", "types.d")

	require.NoError(t, writeFileAtomic(path, []byte("module erupted.core.types;\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "module erupted.core.types;\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, writeFileAtomic(path, []byte("module x;\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "module x;\n", string(data), "existing files are replaced")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")
	assert.Equal(t, "types.d", entries[0].Name())
}

func TestWriteFileAtomic_BlockedDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "erupted")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := writeFileAtomic(filepath.Join(blocker, "types.d"), []byte("x"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "create directory")
}
