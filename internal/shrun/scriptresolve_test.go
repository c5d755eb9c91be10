package shrun

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScriptFile_ExactMatchInCwd(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "greet.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo hi\n"), 0o755))

	path, err := FindScriptFile(dir, nil, "greet.sh")
	require.NoError(t, err)
	assert.Equal(t, script, path)
}

func TestFindScriptFile_SearchesBinPath(t *testing.T) {
	dir := t.TempDir()
	bin := t.TempDir()
	script := filepath.Join(bin, "tool.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo hi\n"), 0o755))

	path, err := FindScriptFile(dir, []string{bin}, "tool")
	require.NoError(t, err)
	assert.Equal(t, script, path)
}

func TestFindScriptFile_DirectoryMatchIsDirectoryError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	_, err := FindScriptFile(dir, nil, "sub")
	var isDir *IsDirectoryError
	require.ErrorAs(t, err, &isDir)
}

func TestFindScriptFile_NotFound(t *testing.T) {
	_, err := FindScriptFile(t.TempDir(), nil, "nope")
	var notFound *FileNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestEffectiveBinPath_ExtraInsertedBeforeBinPath(t *testing.T) {
	state := NewRootState("/cwd", map[string]string{
		"BIN_PATH":      "/a:/b",
		extraBinPathEnv: "/extra1:/extra2",
	})
	assert.Equal(t, []string{"/extra1", "/extra2", "/a", "/b"}, effectiveBinPath(state, nil))
}

func TestEffectiveBinPath_FallsBackWhenUnset(t *testing.T) {
	state := NewRootState("/cwd", map[string]string{})
	assert.Equal(t, []string{"/fallback"}, effectiveBinPath(state, []string{"/fallback"}))
}
