package shrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/flintsh/flintsh/internal/shexpand"
	"github.com/flintsh/flintsh/internal/shhist"
	"github.com/flintsh/flintsh/internal/shtoken"
	"github.com/flintsh/flintsh/internal/util"
)

// Runtime is the top-level coordinator: one worker stack rooted at the UI
// frame, a process-wide history swapper, and the native/script command
// search path (spec §4.3, §5).
type Runtime struct {
	Root    *WorkerState
	History *shhist.Swapper
	BinPath []string
	Home    string
	// BufferMax is spec §6's configured BUFFER_MAX ([display] section): a
	// hard cap on the in-memory pipe and command-substitution buffers this
	// runtime allocates (see Capture and resolveStreams). <= 0 means
	// unbounded.
	BufferMax int64

	mu         sync.Mutex
	foreground *Worker // nil means the UI frame is foreground
	background []*Worker
	nextIDNum  int
}

// NewRuntime creates a Runtime rooted at cwd with the given initial environ.
func NewRuntime(cwd string, environ map[string]string, home string, binPath []string, historyMax int, bufferMax int64) *Runtime {
	return &Runtime{
		Root:      NewRootState(cwd, environ),
		History:   shhist.NewSwapper(historyMax),
		BinPath:   binPath,
		Home:      home,
		BufferMax: bufferMax,
	}
}

func (rt *Runtime) nextID() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.nextIDNum++
	return "w" + strconv.Itoa(rt.nextIDNum)
}

// newExpander builds a shexpand.Expander bound to active and worker, per
// spec §4.2 (the expander never talks to shrun's runtime directly; see
// internal/shexpand's small interfaces).
func (rt *Runtime) newExpander(active *WorkerState, worker *Worker, caller *Worker) *shexpand.Expander {
	return &shexpand.Expander{
		Env:     &envAdapter{active: active, worker: worker},
		Aliases: &aliasAdapter{active: active},
		History: &historyAdapter{swapper: rt.History},
		Sub:     &subAdapter{rt: rt, caller: caller},
		Cwd:     func() string { return active.Cwd },
		Home:    rt.Home,
	}
}

// Run implements spec §4.3's `run(input, final_ins, final_outs, final_errs,
// add_to_history, persistent) -> Worker`. caller must be nil (the UI
// thread) or the current foreground worker (spec §5 "Locking discipline");
// extraEnv, when non-nil, is merged into every pushed frame's Environ for
// the duration of this call (used by exec_sh_file to inject $0.."$n"/$#/$@
// into a nested script's whole execution, not just one command).
func (rt *Runtime) Run(ctx context.Context, caller *Worker, input string, finalIns io.Reader, finalOuts, finalErrs io.Writer, addToHistory, persistent bool, extraEnv map[string]string) (*Worker, error) {
	rt.mu.Lock()
	if caller != rt.foreground {
		rt.mu.Unlock()
		name := "UI"
		if caller != nil {
			name = caller.ID
		}
		return nil, &AmbiguousForegroundError{Caller: name}
	}
	isTop := caller == nil
	parentState := rt.Root
	if caller != nil {
		parentState = caller.State
	}
	w := &Worker{ID: rt.nextID(), Parent: caller, done: make(chan struct{})}
	prevForeground := rt.foreground
	rt.foreground = w
	rt.mu.Unlock()

	if !isTop {
		rt.History.Swap()
	}

	go func() {
		defer func() {
			if !isTop {
				rt.History.Swap()
			}
			rt.mu.Lock()
			rt.foreground = prevForeground
			rt.mu.Unlock()
			close(w.done)
		}()

		// active is an independent working copy: extraEnv (positional
		// vars for a nested script, spec §4.3.1 exec_sh_file) is merged
		// in once, up front, so it is visible to every line's expansion
		// for the whole call, not just the first.
		active := parentState.Clone()
		active.ReturnValue = parentState.ReturnValue
		for k, v := range extraEnv {
			active.Environ[k] = v
		}

		// A multi-line script is run one line at a time through the same
		// per-line algorithm spec §4.3 describes for a single input line;
		// exec_sh_file feeds its script's lines through here sequentially
		// so earlier lines' assignments/cwd changes are visible to later
		// ones (the same "A=42; echo $A" ordering, just across lines).
	lines:
		for _, line := range strings.Split(input, "\n") {
			exp := rt.newExpander(active, w, w)
			rewritten, n, it, err := exp.Expand(line)
			if err != nil {
				fmt.Fprintf(active.Stderr, "flintsh: %v\n", err)
				continue
			}
			if addToHistory {
				rt.History.Active().Add(rewritten)
			}

			for i := 0; i < n; i++ {
				child := active.Clone()
				// Set before Next: expanding a backtick runs a nested
				// Capture whose caller is w, and it clones w.State.
				w.State = child

				seq, ok, err := it.Next(ctx)
				if err != nil {
					fmt.Fprintf(active.Stderr, "flintsh: %v\n", err)
					break
				}
				if !ok {
					break
				}

				if seq.InBackground {
					rt.PushForegroundToBackground(ctx, w, child, seq)
					continue
				}

				seqErr := rt.runPipeSequence(ctx, w, child, seq, finalIns, finalOuts, finalErrs)
				active.ReturnValue = child.ReturnValue

				if isTop || persistent {
					active.Environ = child.Environ
					active.Aliases = child.Aliases
					active.Cwd = child.Cwd
				}
				// else: cwd/environ restore to enclosed_cwd is a no-op by
				// construction; active was never mutated (child is a clone).

				if errors.Is(seqErr, ErrExit) {
					w.err = ErrExit
					break lines
				}
			}
		}

		if isTop || persistent {
			parentState.Environ = active.Environ
			parentState.Aliases = active.Aliases
			parentState.Cwd = active.Cwd
		}
		parentState.ReturnValue = active.ReturnValue
		w.State = active
	}()

	return w, nil
}

// Capture runs inner (the text inside a pair of backticks) as a nested,
// non-persistent worker with a captured stdout buffer, then joins it and
// returns the output with interior newlines collapsed to single spaces
// (spec §4.2, "Backtick substitution"). The capture buffer is bounded by
// BufferMax (spec §6); a command that writes past it is treated the same
// way spec §8 already treats a failing backtick command: the outer command
// still runs, substitution just yields the empty string.
func (rt *Runtime) Capture(ctx context.Context, caller *Worker, inner string) (string, error) {
	buf := util.NewBoundedBuffer(rt.BufferMax)
	w, err := rt.Run(ctx, caller, inner, strings.NewReader(""), buf, io.Discard, false, false, nil)
	if err != nil {
		return "", err
	}
	if err := w.Join(); err != nil {
		return "", err
	}
	if buf.Exceeded() {
		return "", nil
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	return strings.Join(lines, " "), nil
}

// PushForegroundToBackground detaches one pipe sequence of a top-level line
// from the caller, running it in its own goroutine against a cloned frame
// (spec §5, grounded on original_source/system/shruntime.py's
// push_to_background: "&" hands a command off to run unattended rather than
// blocking the calling worker). The returned Worker is already registered
// with Background(); it is removed automatically when the sequence finishes,
// or earlier via PushBackgroundToForeground.
func (rt *Runtime) PushForegroundToBackground(ctx context.Context, parent *Worker, child *WorkerState, seq *shtoken.PipeSequence) *Worker {
	bg := &Worker{ID: rt.nextID(), Parent: parent, Background: true, done: make(chan struct{})}
	bg.State = child
	rt.pushBackground(bg)
	go func() {
		rt.runPipeSequence(ctx, bg, child, seq, nil, os.Stdout, os.Stderr)
		close(bg.done)
		rt.popBackground(bg)
	}()
	return bg
}

// PushBackgroundToForeground removes a still-running background worker from
// the job list and returns it so the caller can Join() it, mirroring
// push_to_foreground's "fg %n" behaviour. The worker keeps running; only its
// bookkeeping moves, since flintsh has no OS-process job control to suspend
// or resume (spec's job-control-signals Non-goal).
func (rt *Runtime) PushBackgroundToForeground(id string) (*Worker, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for i, b := range rt.background {
		if b.ID == id {
			rt.background = append(rt.background[:i], rt.background[i+1:]...)
			return b, true
		}
	}
	return nil, false
}

func (rt *Runtime) pushBackground(w *Worker) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.background = append(rt.background, w)
}

func (rt *Runtime) popBackground(w *Worker) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for i, b := range rt.background {
		if b == w {
			rt.background = append(rt.background[:i], rt.background[i+1:]...)
			return
		}
	}
}

// Background returns the currently detached background workers (spec §5,
// "push_to_background"/"push_to_foreground").
func (rt *Runtime) Background() []*Worker {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	out := make([]*Worker, len(rt.background))
	copy(out, rt.background)
	return out
}

// GetPrompt renders the PROMPT template's "\w" (cwd relative to HOME) and
// "\W" (basename) escapes against the root frame's current cwd (spec §6,
// grounded on original_source/system/shruntime.py's get_prompt).
func (rt *Runtime) GetPrompt(template string) string {
	cwd := rt.Root.Cwd
	w := cwd
	switch {
	case cwd == rt.Home:
		w = "~"
	case strings.HasPrefix(cwd, rt.Home+"/"):
		w = "~" + cwd[len(rt.Home):]
	}
	base := cwd
	if idx := strings.LastIndexByte(cwd, '/'); idx >= 0 && idx+1 < len(cwd) {
		base = cwd[idx+1:]
	}
	if cwd == rt.Home {
		base = "~"
	}
	r := strings.NewReplacer(`\w`, w, `\W`, base)
	return r.Replace(template)
}
