package shterm

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeTerminal_ReadsLinesInOrder(t *testing.T) {
	term := NewFakeTerminal("echo hi", "pwd")

	line, err := term.ReadInputLine()
	require.NoError(t, err)
	assert.Equal(t, "echo hi", line)
	assert.True(t, term.InputDidReturn())

	line, err = term.ReadInputLine()
	require.NoError(t, err)
	assert.Equal(t, "pwd", line)
}

func TestFakeTerminal_EOFAfterLastLine(t *testing.T) {
	term := NewFakeTerminal("only")
	_, err := term.ReadInputLine()
	require.NoError(t, err)

	_, err = term.ReadInputLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, term.InputDidEOF())
}

func TestFakeTerminal_SetInputLineIsConsumedNext(t *testing.T) {
	term := NewFakeTerminal("ls")
	term.SetInputLine("echo recalled", 0)

	line, err := term.ReadInputLine()
	require.NoError(t, err)
	assert.Equal(t, "echo recalled", line)

	line, err = term.ReadInputLine()
	require.NoError(t, err)
	assert.Equal(t, "ls", line)
}

func TestFakeTerminal_WriteWithPrefix(t *testing.T) {
	term := NewFakeTerminal()
	term.WriteWithPrefix("command not found")
	assert.Equal(t, "flintsh: command not found\n", term.Output.String())
}
