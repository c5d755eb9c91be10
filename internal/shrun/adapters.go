package shrun

import (
	"context"
	"os"
	"strconv"

	"github.com/flintsh/flintsh/internal/shhist"
)

// envAdapter implements shexpand.Environ against whichever WorkerState is
// currently active for a single Run() invocation. It holds a plain pointer
// to that frame and is rebuilt for each input line; Run copies each pipe
// sequence's environ back into the frame, so an assignment is visible to
// the expansion of the next pipe sequence (spec §4.3, "A=42; echo $A"
// ordering).
type envAdapter struct {
	active *WorkerState
	worker *Worker
}

func (e *envAdapter) Get(name string) (string, bool) {
	if name == "?" {
		return strconv.Itoa(e.active.ReturnValue), true
	}
	v, ok := e.active.Environ[name]
	return v, ok
}

func (e *envAdapter) WorkerID() string { return e.worker.ID }

// Names implements shcomplete.Environ ("$NAME-prefix" candidates, spec
// §4.5).
func (e *envAdapter) Names() []string {
	out := make([]string, 0, len(e.active.Environ))
	for k := range e.active.Environ {
		out = append(out, k)
	}
	return out
}

// aliasAdapter implements shexpand.Aliases against the active frame.
type aliasAdapter struct{ active *WorkerState }

func (a *aliasAdapter) Lookup(name string) (string, bool) {
	v, ok := a.active.Aliases[name]
	return v, ok
}

// Names implements shcomplete.Aliases.
func (a *aliasAdapter) Names() []string {
	out := make([]string, 0, len(a.active.Aliases))
	for k := range a.active.Aliases {
		out = append(out, k)
	}
	return out
}

// scriptSourceAdapter implements shcomplete.ScriptSource by scanning the
// same ["."]+BinPath search order FindScriptFile uses (spec §4.5: "add all
// script names under [\".\"]+BIN_PATH").
type scriptSourceAdapter struct{ rt *Runtime }

func (s *scriptSourceAdapter) ScriptNames(cwd string) []string {
	dirs := append([]string{cwd}, effectiveBinPath(s.rt.Root, s.rt.BinPath)...)
	var out []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			if ent.IsDir() {
				continue
			}
			out = append(out, ent.Name())
		}
	}
	return out
}

// historyAdapter implements shexpand.HistorySearcher against the runtime's
// active (possibly swapped) history store.
type historyAdapter struct{ swapper *shhist.Swapper }

func (h *historyAdapter) Search(token string) (string, error) {
	return h.swapper.Active().Search(token)
}

// subAdapter implements shexpand.Substituter by recursively running the
// backtick's inner text as a nested, non-persistent worker with a captured
// output buffer, then joining it (spec §4.2, "Backtick substitution").
type subAdapter struct {
	rt     *Runtime
	caller *Worker
}

func (s *subAdapter) Substitute(ctx context.Context, inner string) (string, error) {
	return s.rt.Capture(ctx, s.caller, inner)
}
