package shrun

import "github.com/flintsh/flintsh/internal/shcomplete"

// NewCompleter builds a shcomplete.Completer bound to the runtime's root
// frame, wired through the same adapters Run uses for expansion (spec
// §4.5). It is rebuilt by the caller whenever it needs a fresh view of
// root-frame cwd/environ/aliases — typically once at REPL startup, since
// completion always operates against the UI's own (non-nested) frame.
func (rt *Runtime) NewCompleter(displayCap int) *shcomplete.Completer {
	return &shcomplete.Completer{
		Env:        &envAdapter{active: rt.Root, worker: &Worker{ID: "UI"}},
		Aliases:    &aliasAdapter{active: rt.Root},
		Scripts:    &scriptSourceAdapter{rt: rt},
		Cwd:        func() string { return rt.Root.Cwd },
		Home:       rt.Home,
		DisplayCap: displayCap,
	}
}
