package shterm

import (
	"io"
	"strings"
)

// FakeTerminal is an in-memory Terminal for tests and for scripted
// (non-interactive) input feeds, e.g. piping a file into flintsh.
type FakeTerminal struct {
	Lines  []string
	Output strings.Builder

	idx                             int
	didReturn, didEOF, didInterrupt bool
	pendingLine                     string
	pendingSet                      bool
}

func NewFakeTerminal(lines ...string) *FakeTerminal {
	return &FakeTerminal{Lines: lines}
}

func (t *FakeTerminal) Write(s string)               { t.Output.WriteString(s) }
func (t *FakeTerminal) WriteWithPrefix(s string)      { t.Output.WriteString("flintsh: " + s + "\n") }
func (t *FakeTerminal) Flush()                        {}
func (t *FakeTerminal) SetCursor(offset, whence int)  {}

func (t *FakeTerminal) SetInputLine(s string, cursorAt int) {
	t.pendingLine = s
	t.pendingSet = true
}

func (t *FakeTerminal) NewInputLine(withText string) {
	t.pendingLine = withText
	t.pendingSet = false
}

func (t *FakeTerminal) ReadInputLine() (string, error) {
	t.didReturn, t.didEOF, t.didInterrupt = false, false, false

	if t.pendingSet {
		line := t.pendingLine
		t.pendingLine = ""
		t.pendingSet = false
		t.didReturn = true
		return line, nil
	}

	if t.idx >= len(t.Lines) {
		t.didEOF = true
		return "", io.EOF
	}
	line := t.Lines[t.idx]
	t.idx++
	t.didReturn = true
	return line, nil
}

func (t *FakeTerminal) InputDidReturn() bool    { return t.didReturn }
func (t *FakeTerminal) InputDidEOF() bool       { return t.didEOF }
func (t *FakeTerminal) InputDidInterrupt() bool { return t.didInterrupt }

var _ Terminal = (*FakeTerminal)(nil)
