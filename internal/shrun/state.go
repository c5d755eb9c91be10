// Package shrun implements the runtime and worker stack described in spec
// §4.3: pipeline execution, per-frame state, and script dispatch. It is
// grounded on original_source/system/shruntime.py's ShRuntime class and on
// the teacher's internal/shell pipeline, generalized from a single
// in-process pipeline executor into the spec's stackable worker model.
package shrun

import (
	"io"
	"os"
)

// WorkerState is one frame of the worker stack (spec §3 "WorkerState").
// Unlike original_source/system/shruntime.py, which mutates a single
// process-wide os.Getcwd() and must explicitly os.chdir() on frame pop, Cwd
// here is a plain per-frame field: every child frame is a Clone(), so a
// non-persistent pop's "restore enclosed_cwd" step is a no-op by
// construction (see Runtime.Run in runtime.go) rather than a real OS chdir.
type WorkerState struct {
	Environ map[string]string
	Aliases map[string]string
	Cwd     string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// EnclosingEnviron holds the current command's prefix assignments
	// (e.g. "A=1 printenv A"); reset before each simple command.
	EnclosingEnviron map[string]string

	ReturnValue int

	// EnclosedCwd is the cwd captured at frame-push time (spec §3).
	EnclosedCwd string
}

// NewRootState creates the initial WorkerState for the top-level (UI) frame.
func NewRootState(cwd string, environ map[string]string) *WorkerState {
	if environ == nil {
		environ = map[string]string{}
	}
	return &WorkerState{
		Environ:          environ,
		Aliases:          map[string]string{},
		Cwd:              cwd,
		Stdin:            os.Stdin,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		EnclosingEnviron: map[string]string{},
		EnclosedCwd:      cwd,
	}
}

// Clone returns a new frame pushed on top of s: copies of environ/aliases,
// enclosed_cwd set to the current cwd (spec §4.3, step "Push a new
// WorkerState").
func (s *WorkerState) Clone() *WorkerState {
	environ := make(map[string]string, len(s.Environ))
	for k, v := range s.Environ {
		environ[k] = v
	}
	aliases := make(map[string]string, len(s.Aliases))
	for k, v := range s.Aliases {
		aliases[k] = v
	}
	return &WorkerState{
		Environ:          environ,
		Aliases:          aliases,
		Cwd:              s.Cwd,
		Stdin:            s.Stdin,
		Stdout:           s.Stdout,
		Stderr:           s.Stderr,
		EnclosingEnviron: map[string]string{},
		EnclosedCwd:      s.Cwd,
	}
}

// mergedEnviron returns environ overlaid with enclosing_environ, the env a
// dispatched command actually sees (spec §4.3.1).
func (s *WorkerState) mergedEnviron() map[string]string {
	out := make(map[string]string, len(s.Environ)+len(s.EnclosingEnviron))
	for k, v := range s.Environ {
		out[k] = v
	}
	for k, v := range s.EnclosingEnviron {
		out[k] = v
	}
	return out
}

// Worker is a unit of shell execution with its own state frame; it
// corresponds to one `Run` invocation (spec GLOSSARY "Worker").
type Worker struct {
	ID         string
	State      *WorkerState
	Parent     *Worker
	Background bool

	done chan struct{}
	err  error
}

// IsTopLevel reports whether w is the direct child of the idle UI (spec
// §3's WorkerStack invariant: "exactly one frame is top-level").
func (w *Worker) IsTopLevel() bool { return w.Parent == nil }

// Join blocks until w has finished and returns its terminal error, if any.
func (w *Worker) Join() error {
	<-w.done
	return w.err
}
