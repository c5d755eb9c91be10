package shrun

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
)

// ErrExit is returned by dispatch when "exit" runs; the REPL checks for it
// with errors.Is and stops the input loop.
var ErrExit = errors.New("exit")

// builtin is a command that needs direct access to the running WorkerState
// (cwd, aliases) rather than the copy-only nativecmd.ExecutionEnv. These
// mirror the handful of special-cased commands original_source/stash.py
// handles directly on ShRuntime/ShState rather than dispatching to a
// script file.
var builtins = map[string]func(rt *Runtime, state *WorkerState, args []string, outs, errs io.Writer) (int, error){
	"cd":      builtinCd,
	"alias":   builtinAlias,
	"unalias": builtinUnalias,
	"exit":    builtinExit,
	"jobs":    builtinJobs,
	"fg":      builtinFg,
}

func builtinCd(rt *Runtime, state *WorkerState, args []string, outs, errs io.Writer) (int, error) {
	target := state.Environ["HOME"]
	if len(args) > 0 {
		target = args[0]
	}
	if target == "" {
		target = "/"
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(state.Cwd, target)
	}
	target = filepath.Clean(target)
	state.Cwd = target
	return 0, nil
}

func builtinAlias(rt *Runtime, state *WorkerState, args []string, outs, errs io.Writer) (int, error) {
	if len(args) == 0 {
		for name, value := range state.Aliases {
			fmt.Fprintf(outs, "alias %s='%s'\n", name, value)
		}
		return 0, nil
	}
	for _, arg := range args {
		name, value, ok := splitAssignment(arg)
		if !ok {
			if v, ok := state.Aliases[arg]; ok {
				fmt.Fprintf(outs, "alias %s='%s'\n", arg, v)
			}
			continue
		}
		state.Aliases[name] = value
	}
	return 0, nil
}

func builtinUnalias(rt *Runtime, state *WorkerState, args []string, outs, errs io.Writer) (int, error) {
	for _, name := range args {
		delete(state.Aliases, name)
	}
	return 0, nil
}

func builtinExit(rt *Runtime, state *WorkerState, args []string, outs, errs io.Writer) (int, error) {
	return 0, ErrExit
}

// builtinJobs lists detached background workers, one per line, numbered the
// way "jobs" numbers them in a job-control shell.
func builtinJobs(rt *Runtime, state *WorkerState, args []string, outs, errs io.Writer) (int, error) {
	for i, w := range rt.Background() {
		fmt.Fprintf(outs, "[%d] %s\n", i+1, w.ID)
	}
	return 0, nil
}

// builtinFg brings a background job back into the foreground and waits for
// it to finish, reporting its return value (original's "fg %n"; see
// Runtime.PushBackgroundToForeground).
func builtinFg(rt *Runtime, state *WorkerState, args []string, outs, errs io.Writer) (int, error) {
	if len(args) == 0 {
		fmt.Fprintln(errs, "fg: usage: fg <job-id>")
		return 1, nil
	}
	w, ok := rt.PushBackgroundToForeground(args[0])
	if !ok {
		fmt.Fprintf(errs, "fg: %s: no such job\n", args[0])
		return 1, nil
	}
	if err := w.Join(); err != nil {
		return 1, err
	}
	return w.State.ReturnValue, nil
}

func splitAssignment(s string) (name, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
