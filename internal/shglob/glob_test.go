package shglob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeWildcards(t *testing.T) {
	assert.Equal(t, `foo[*]bar`, EscapeWildcards("foo*bar"))
	assert.Equal(t, `[?][[]x[]]`, EscapeWildcards("?[x]"))
	assert.Equal(t, "plain", EscapeWildcards("plain"))
}

func TestHasMeta(t *testing.T) {
	assert.True(t, HasMeta("*.txt"))
	assert.True(t, HasMeta("file?.go"))
	assert.True(t, HasMeta("[abc]"))
	assert.False(t, HasMeta("plain.txt"))
}

func TestExpand_NoMetaReturnsNil(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, Expand(dir, "plain.txt"))
}

func TestExpand_MatchesRelativeToCwd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.go"), nil, 0o644))

	matches := Expand(dir, "*.txt")
	require.Len(t, matches, 2)
	assert.Equal(t, []string{"a.txt", "b.txt"}, matches)
}

func TestExpand_NoMatchesReturnsNil(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, Expand(dir, "*.nonexistent"))
}
