package shexpand

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAliases map[string]string

func (f fakeAliases) Lookup(name string) (string, bool) { v, ok := f[name]; return v, ok }

type fakeHistory map[string]string

func (f fakeHistory) Search(tok string) (string, error) {
	if v, ok := f[tok]; ok {
		return v, nil
	}
	return "", assertErr{tok}
}

type assertErr struct{ tok string }

func (e assertErr) Error() string { return e.tok + ": event not found" }

type fakeSub struct{ out string }

func (f fakeSub) Substitute(ctx context.Context, inner string) (string, error) { return f.out, nil }

func newTestExpander(cwd string, vars map[string]string) *Expander {
	return &Expander{
		Env:     &MapEnviron{Vars: vars},
		Aliases: fakeAliases{},
		History: fakeHistory{},
		Sub:     fakeSub{},
		Cwd:     func() string { return cwd },
		Home:    "/home/tester",
	}
}

func expandAll(t *testing.T, e *Expander, line string) []string {
	t.Helper()
	_, n, it, err := e.Expand(line)
	require.NoError(t, err)
	var cmds []string
	for i := 0; i < n; i++ {
		seq, ok, err := it.Next(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		for _, c := range seq.Commands {
			cmds = append(cmds, c.CmdWord)
			cmds = append(cmds, c.Args...)
		}
	}
	return cmds
}

func TestExpand_EmptyLine(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	line, n, it, err := e.Expand("")
	require.NoError(t, err)
	assert.Equal(t, "", line)
	assert.Equal(t, 0, n)
	_, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpand_VariableSubstitution(t *testing.T) {
	e := newTestExpander(t.TempDir(), map[string]string{"A": "42"})
	fields := expandAll(t, e, "echo $A")
	assert.Equal(t, []string{"echo", "42"}, fields)
}

func TestExpand_BraceVariable(t *testing.T) {
	e := newTestExpander(t.TempDir(), map[string]string{"FOO": "bar"})
	fields := expandAll(t, e, "echo ${FOO}baz")
	assert.Equal(t, []string{"echo", "barbaz"}, fields)
}

func TestExpand_UnknownVariableIsEmpty(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	fields := expandAll(t, e, "echo $NOPE")
	assert.Equal(t, []string{"echo"}, fields)
}

func TestExpand_SingleQuotedNoExpansion(t *testing.T) {
	e := newTestExpander(t.TempDir(), map[string]string{"A": "42"})
	fields := expandAll(t, e, `echo '$A'`)
	assert.Equal(t, []string{"echo", "$A"}, fields)
}

func TestExpand_DoubleQuotedExpandsVarsNotTilde(t *testing.T) {
	e := newTestExpander(t.TempDir(), map[string]string{"A": "42"})
	fields := expandAll(t, e, `echo "$A ~"`)
	assert.Equal(t, []string{"echo", "42 ~"}, fields)
}

func TestExpand_BadSubstitutionUnterminatedBrace(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	_, n, it, err := e.Expand("echo ${A")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	_, _, err = it.Next(context.Background())
	require.Error(t, err)
	var bad *BadSubstitutionError
	require.ErrorAs(t, err, &bad)
}

func TestExpand_AmbiguousRedirectEmptyFilename(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	_, n, it, err := e.Expand(`echo hi > ""`)
	require.NoError(t, err)
	_, _, err = it.Next(context.Background())
	_ = n
	require.Error(t, err)
	var ambig *AmbiguousRedirectError
	require.ErrorAs(t, err, &ambig)
}

func TestExpand_GlobMatchesFilesystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644))
	e := newTestExpander(dir, nil)
	fields := expandAll(t, e, "echo *.txt")
	assert.Equal(t, []string{"echo", "a.txt", "b.txt"}, fields)
}

func TestExpand_GlobNoMatchKeepsLiteral(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	fields := expandAll(t, e, "echo *.nonexistent")
	assert.Equal(t, []string{"echo", "*.nonexistent"}, fields)
}

func TestExpand_AliasSubstitution(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	e.Aliases = fakeAliases{"ll": "ls -l"}
	fields := expandAll(t, e, "ll /tmp")
	assert.Equal(t, []string{"ls", "-l", "/tmp"}, fields)
}

func TestExpand_HistoryBang(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	e.History = fakeHistory{"!!": "echo previous"}
	fields := expandAll(t, e, "!!")
	assert.Equal(t, []string{"echo", "previous"}, fields)
}

func TestExpand_BacktickSubstitutionSingleField(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	e.Sub = fakeSub{out: "result"}
	fields := expandAll(t, e, "echo `whoami`")
	assert.Equal(t, []string{"echo", "result"}, fields)
}

func TestExpand_BacktickSubstitutionMultiField(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	e.Sub = fakeSub{out: "one two three"}
	fields := expandAll(t, e, "echo `list`")
	assert.Equal(t, []string{"echo", "one", "two", "three"}, fields)
}

func TestExpand_PureAssignmentNoCmdWord(t *testing.T) {
	e := newTestExpander(t.TempDir(), map[string]string{})
	_, n, it, err := e.Expand("A=42")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	seq, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, seq.Commands, 1)
	assert.Equal(t, "", seq.Commands[0].CmdWord)
	require.Len(t, seq.Commands[0].Assignments, 1)
	assert.Equal(t, "A", seq.Commands[0].Assignments[0].Identifier)
	assert.Equal(t, "42", seq.Commands[0].Assignments[0].Value)
}

func TestExpand_InBackground(t *testing.T) {
	e := newTestExpander(t.TempDir(), nil)
	_, n, it, err := e.Expand("sleep 1 &")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	seq, _, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.True(t, seq.InBackground)
}
