package shrun

import "fmt"

// FileNotFoundError is returned when a cmd_word resolves to nothing on the
// search path (spec §4.3.2).
type FileNotFoundError struct{ Name string }

func (e *FileNotFoundError) Error() string { return fmt.Sprintf("%s: command not found", e.Name) }

// IsDirectoryError is returned when only a directory entry matched cmd_word.
type IsDirectoryError struct{ Name string }

func (e *IsDirectoryError) Error() string { return fmt.Sprintf("%s: is a directory", e.Name) }

// NotExecutableError is returned when cmd_word resolves to a file whose
// content looks binary rather than a shell script (spec §4.3.1).
type NotExecutableError struct {
	Name   string
	Detail string // secondary, human-readable mimetype signal
}

func (e *NotExecutableError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: not executable (detected: %s)", e.Name, e.Detail)
	}
	return fmt.Sprintf("%s: not executable", e.Name)
}

// AmbiguousForegroundError is returned when run() is invoked by anything
// other than the UI thread or the current top-of-stack worker (spec §5,
// "Locking discipline").
type AmbiguousForegroundError struct{ Caller string }

func (e *AmbiguousForegroundError) Error() string {
	return fmt.Sprintf("run: %s is not the foreground worker", e.Caller)
}

// InternalError wraps an unexpected failure surfaced to the interactive
// stream as "flintsh: <msg>" (mirrors original_source/system/shruntime.py's
// run() exception handling).
type InternalError struct{ Cause error }

func (e *InternalError) Error() string { return e.Cause.Error() }
func (e *InternalError) Unwrap() error { return e.Cause }
