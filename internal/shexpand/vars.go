package shexpand

import "context"

// Environ is the variable namespace the expander reads from. The single
// positional/status variables ("0".."9", "@", "#", "?") are plain entries
// in the same namespace, kept up to date by the runtime (internal/shrun)
// exactly as original_source/system/shruntime.py stores them in envars —
// only "$$" (the live worker id) bypasses it, via WorkerID.
type Environ interface {
	Get(name string) (string, bool)
	WorkerID() string
}

// Aliases resolves a command-word alias, per spec §4.2 step 2.
type Aliases interface {
	Lookup(name string) (string, bool)
}

// HistorySearcher resolves a "!..." history reference to the literal text
// it should be replaced by, per spec §4.4/§4.6.
type HistorySearcher interface {
	Search(token string) (string, error)
}

// Substituter runs the inner text of a backtick expression as a pipeline
// and returns its captured standard output. Implemented by internal/shrun.
type Substituter interface {
	Substitute(ctx context.Context, inner string) (string, error)
}

// MapEnviron is a minimal Environ backed by a plain map, handy for tests
// and for small scripts that don't need the full worker stack.
type MapEnviron struct {
	Vars map[string]string
	ID   string
}

func (m *MapEnviron) Get(name string) (string, bool) {
	v, ok := m.Vars[name]
	return v, ok
}

func (m *MapEnviron) WorkerID() string { return m.ID }
