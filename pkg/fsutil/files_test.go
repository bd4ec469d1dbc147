package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_File_SameFilesystem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pkg_1.0_amd64.deb")
	dst := filepath.Join(dir, "archive", "pkg", "1.0", "pkg_1.0_amd64.deb")

	require.NoError(t, os.WriteFile(src, []byte("deb content"), FileModeDefault))
	require.NoError(t, Move(src, dst))

	assert.False(t, Exists(src))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "deb content", string(data))
}

func TestMove_SourceDoesNotExist(t *testing.T) {
	dir := t.TempDir()
	err := Move(filepath.Join(dir, "missing.deb"), filepath.Join(dir, "dst.deb"))
	assert.Error(t, err)
}

func TestMove_InvalidPaths(t *testing.T) {
	assert.Error(t, Move("", "dst"))
	assert.Error(t, Move("src", ""))
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.deb")
	dst := filepath.Join(dir, "sub", "b.deb")

	require.NoError(t, os.WriteFile(src, []byte("payload"), FileModeDefault))
	require.NoError(t, Copy(src, dst))

	assert.True(t, Exists(src))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestListSubdirsAndFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EnsureDir(filepath.Join(dir, "stable")))
	require.NoError(t, EnsureDir(filepath.Join(dir, "sources")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.tar.gz"), nil, FileModeDefault))

	dirs, err := ListSubdirs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"sources", "stable"}, dirs)

	files, err := ListFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.tar.gz"}, files)
}

func TestMd5File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg_1.0_amd64.deb")
	require.NoError(t, os.WriteFile(path, []byte("hello"), FileModeDefault))

	sum, err := Md5File(path)
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", sum)
}

func TestReadMd5Sidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg_1.0_amd64.deb")
	require.NoError(t, os.WriteFile(path+Md5SidecarSuffix, []byte("abc123  pkg_1.0_amd64.deb\n"), FileModeDefault))

	sum, err := ReadMd5Sidecar(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", sum)

	_, err = ReadMd5Sidecar(filepath.Join(dir, "missing.deb"))
	assert.True(t, os.IsNotExist(err))
}

func TestJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg", "index.json")

	in := map[string]interface{}{"latest": "1.0"}
	require.NoError(t, WriteJSON(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "  \"latest\": \"1.0\"")

	var out map[string]interface{}
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, "1.0", out["latest"])
}
