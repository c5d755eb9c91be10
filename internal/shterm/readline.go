package shterm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// ReadlineTerminal is the concrete Terminal (spec §4.6) used by cmd/flintsh's
// interactive REPL, grounded on internal/shell/repl.go's use of
// readline.NewEx/Readline/SetPrompt.
type ReadlineTerminal struct {
	rl     *readline.Instance
	prefix string

	pendingLine string
	pendingSet  bool

	didReturn    bool
	didEOF       bool
	didInterrupt bool
}

// NewReadlineTerminal wires a readline.Instance with the given prompt,
// history file and completer (spec §4.5's Completer, handed in as a
// readline.AutoCompleter so shterm doesn't need to import shcomplete).
func NewReadlineTerminal(prompt, historyFile string, completer readline.AutoCompleter) (*ReadlineTerminal, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		HistorySearchFold: true,
		AutoComplete:      completer,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
	})
	if err != nil {
		return nil, err
	}
	return &ReadlineTerminal{rl: rl, prefix: "flintsh: "}, nil
}

func (t *ReadlineTerminal) Close() error { return t.rl.Close() }

// SetPrompt refreshes the prompt readline shows on the next Readline call.
// Not part of the Terminal contract (spec §4.6 has no prompt-setting verb —
// original_source/system/shruntime.py's script_will_end instead has the
// *runtime* write a freshly computed get_prompt() string once a top-level
// run finishes); cmd/flintsh calls this directly the same way teacher's
// repl.go calls rl.SetPrompt(buildPrompt()) before every Readline.
func (t *ReadlineTerminal) SetPrompt(prompt string) { t.rl.SetPrompt(prompt) }

func (t *ReadlineTerminal) Write(s string) {
	fmt.Fprint(t.rl.Stdout(), s)
}

func (t *ReadlineTerminal) WriteWithPrefix(s string) {
	fmt.Fprintf(t.rl.Stdout(), "%s%s\n", t.prefix, s)
}

// ReadInputLine reads one line and updates the input-state flags the
// runtime polls afterward (spec §4.6). A pending line queued by
// SetInputLine/NewInputLine is consumed first instead of prompting again.
func (t *ReadlineTerminal) ReadInputLine() (string, error) {
	t.didReturn, t.didEOF, t.didInterrupt = false, false, false

	if t.pendingSet {
		line := t.pendingLine
		t.pendingSet = false
		t.didReturn = true
		return line, nil
	}

	if t.pendingLine != "" {
		t.rl.Operation.SetBuffer(t.pendingLine)
		t.pendingLine = ""
	}

	line, err := t.rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		t.didInterrupt = true
		return "", err
	case errors.Is(err, io.EOF):
		t.didEOF = true
		return "", err
	case err != nil:
		return "", err
	}
	t.didReturn = true
	return line, nil
}

// SetInputLine queues a complete line to be returned by the very next
// ReadInputLine without prompting (spec §4.6's "set_inp_line"), used by the
// history-up/down and `!` expansion flows to splice a recalled command back
// in as if the user had typed and submitted it.
func (t *ReadlineTerminal) SetInputLine(s string, cursorAt int) {
	t.pendingLine = s
	t.pendingSet = true
	_ = cursorAt // readline has no per-offset cursor placement API; see SetCursor.
}

// NewInputLine pre-fills readline's edit buffer with withText but does not
// submit it, letting the user keep typing (spec §4.6's "new_inp_line").
func (t *ReadlineTerminal) NewInputLine(withText string) {
	t.pendingLine = withText
	t.pendingSet = false
}

// SetCursor is a best-effort no-op: chzyer/readline doesn't expose
// per-offset cursor placement. Re-rendering the buffer (done by
// Operation.SetBuffer in ReadInputLine) already leaves the cursor at the
// end of the inserted text, which covers the common "recall and edit"
// case even without a finer-grained whence/offset.
func (t *ReadlineTerminal) SetCursor(offset int, whence int) {}

func (t *ReadlineTerminal) Flush() {}

func (t *ReadlineTerminal) InputDidReturn() bool    { return t.didReturn }
func (t *ReadlineTerminal) InputDidEOF() bool       { return t.didEOF }
func (t *ReadlineTerminal) InputDidInterrupt() bool { return t.didInterrupt }

var _ Terminal = (*ReadlineTerminal)(nil)

// TrimmedLine is a small convenience shared by cmd/flintsh's REPL loop: the
// runtime treats a blank or whitespace-only line as a no-op (spec §8).
func TrimmedLine(s string) string { return strings.TrimSpace(s) }
