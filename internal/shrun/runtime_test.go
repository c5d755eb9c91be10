package shrun

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T) (*Runtime, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	rt := NewRuntime(dir, map[string]string{}, "/home/tester", nil, 30, 0)
	var out bytes.Buffer
	rt.Root.Stdout = &out
	rt.Root.Stderr = &out
	return rt, &out
}

func run(t *testing.T, rt *Runtime, line string) int {
	t.Helper()
	w, err := rt.Run(context.Background(), nil, line, nil, nil, nil, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, w.Join())
	return w.State.ReturnValue
}

func TestRun_AssignmentVisibleToNextPipeSequence(t *testing.T) {
	rt, out := newTestRuntime(t)
	code := run(t, rt, "A=42; echo $A")
	assert.Equal(t, 0, code)
	assert.Equal(t, "42\n", out.String())
}

func TestRun_PrefixAssignmentNotVisibleToOwnArgs(t *testing.T) {
	rt, out := newTestRuntime(t)
	code := run(t, rt, "A=42 echo $A")
	assert.Equal(t, 0, code)
	assert.Equal(t, "\n", out.String())
	_, ok := rt.Root.Environ["A"]
	assert.False(t, ok)
}

func TestRun_PureAssignmentPersists(t *testing.T) {
	rt, _ := newTestRuntime(t)
	run(t, rt, "A=hello")
	assert.Equal(t, "hello", rt.Root.Environ["A"])
}

func TestRun_PipelineOrdering(t *testing.T) {
	rt, out := newTestRuntime(t)
	code := run(t, rt, "echo hello | cat")
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", out.String())
}

func TestRun_CommandNotFound(t *testing.T) {
	rt, out := newTestRuntime(t)
	code := run(t, rt, "nope-this-does-not-exist")
	assert.NotEqual(t, 0, code)
	assert.Contains(t, out.String(), "command not found")
}

func TestRun_RedirectWritesFile(t *testing.T) {
	rt, _ := newTestRuntime(t)
	code := run(t, rt, "echo hi > out.txt")
	require.Equal(t, 0, code)
	data, err := os.ReadFile(filepath.Join(rt.Root.Cwd, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(data))
}

func TestRun_BacktickSubstitution(t *testing.T) {
	rt, out := newTestRuntime(t)
	code := run(t, rt, "echo `echo inner`")
	assert.Equal(t, 0, code)
	assert.Equal(t, "inner\n", out.String())
}

func TestRun_ScriptDispatch(t *testing.T) {
	rt, out := newTestRuntime(t)
	require.NoError(t, os.WriteFile(filepath.Join(rt.Root.Cwd, "greet.sh"), []byte("echo hi $1\n"), 0o755))
	code := run(t, rt, "greet.sh world")
	assert.Equal(t, 0, code)
	assert.Equal(t, "hi world\n", out.String())
}

func TestRun_CdChangesCwdForSubsequentCommands(t *testing.T) {
	rt, out := newTestRuntime(t)
	sub := filepath.Join(rt.Root.Cwd, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	run(t, rt, "cd sub; pwd")
	assert.Equal(t, sub+"\n", out.String())
}

func TestRun_ExitSignalsErrExit(t *testing.T) {
	rt, _ := newTestRuntime(t)
	w, err := rt.Run(context.Background(), nil, "exit", nil, nil, nil, true, false, nil)
	require.NoError(t, err)
	joinErr := w.Join()
	assert.ErrorIs(t, joinErr, ErrExit)
}

func TestRun_RejectsNonForegroundCaller(t *testing.T) {
	rt, _ := newTestRuntime(t)
	imposter := &Worker{ID: "bogus", State: rt.Root, done: make(chan struct{})}
	close(imposter.done)
	_, err := rt.Run(context.Background(), imposter, "echo hi", nil, nil, nil, false, false, nil)
	require.Error(t, err)
	var fgErr *AmbiguousForegroundError
	require.ErrorAs(t, err, &fgErr)
}
