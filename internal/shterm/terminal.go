// Package shterm defines spec §4.6's Terminal interface contract — the
// only surface the runtime uses to talk to whatever is reading/writing the
// interactive session — plus a concrete implementation backed by
// chzyer/readline, the same library teacher's internal/shell/repl.go uses
// for its own REPL loop.
package shterm

import "io"

// Whence values for SetCursor, mirroring io.Seek* so callers can reuse the
// same constants without importing shterm for them.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// Terminal is spec §4.6's interface contract, verbatim: write/write-with-
// prefix, read one input line, pre-fill or replace the pending input line,
// move the cursor, flush, and the three input-state flags the runtime polls
// after a read. The runtime never reaches past this surface — it doesn't
// know or care whether the concrete implementation is an interactive
// terminal, a test double, or a scripted input feed.
type Terminal interface {
	Write(s string)
	WriteWithPrefix(s string)
	ReadInputLine() (string, error)
	SetInputLine(s string, cursorAt int)
	NewInputLine(withText string)
	SetCursor(offset int, whence int)
	Flush()

	InputDidReturn() bool
	InputDidEOF() bool
	InputDidInterrupt() bool
}
