package shrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRuntimeCommands_HistoryShowsPastLines(t *testing.T) {
	rt, out := newTestRuntime(t)
	RegisterRuntimeCommands(rt)

	run(t, rt, "echo one")
	run(t, rt, "history")
	assert.Contains(t, out.String(), "echo one")
}

func TestRegisterRuntimeCommands_HelpListsCommands(t *testing.T) {
	rt, out := newTestRuntime(t)
	RegisterRuntimeCommands(rt)

	run(t, rt, "help")
	assert.Contains(t, out.String(), "history")
}
