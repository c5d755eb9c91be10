package shrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flintsh/flintsh/internal/nativecmd"
	"github.com/flintsh/flintsh/internal/shlog"
	"github.com/flintsh/flintsh/internal/shtoken"
	"github.com/flintsh/flintsh/internal/util"
)

// ioRedirectSentinel is the "&3" filename that redirects back to the
// process-level stdout/stderr (spec §4.3.1).
const ioRedirectSentinel = "&3"

// runPipeSequence executes one pipe of simple commands in-line, per spec
// §4.3.1. It mutates state in place (permanent assignments, cwd changes
// from "cd", ReturnValue) and returns ErrExit when a command ran "exit",
// nil otherwise; command failures are reported to state.Stderr and recorded in
// state.ReturnValue, matching the original's per-line error reporting.
func (rt *Runtime) runPipeSequence(ctx context.Context, w *Worker, state *WorkerState, seq *shtoken.PipeSequence, finalIns io.Reader, finalOuts, finalErrs io.Writer) error {
	var prevOuts *util.BoundedBuffer
	n := len(seq.Commands)

	for i, cmd := range seq.Commands {
		state.EnclosingEnviron = make(map[string]string, len(cmd.Assignments))
		for _, a := range cmd.Assignments {
			state.EnclosingEnviron[a.Identifier] = a.Value
		}

		if cmd.CmdWord == "" {
			if i == 0 && n == 1 {
				for k, v := range state.EnclosingEnviron {
					state.Environ[k] = v
				}
				state.ReturnValue = 0
			}
			continue
		}

		var ins io.Reader
		switch {
		case prevOuts != nil:
			ins = prevOuts
		case i == 0 && finalIns != nil:
			ins = finalIns
		default:
			ins = state.Stdin
		}

		outs, errs, closer, err := rt.resolveStreams(cmd, i, n, state, finalOuts, finalErrs)
		if err != nil {
			fmt.Fprintf(state.Stderr, "flintsh: %v\n", err)
			state.ReturnValue = 1
			break
		}

		code, err := rt.dispatch(ctx, w, state, cmd.CmdWord, cmd.Args, ins, outs, errs)
		if closer != nil {
			closer.Close()
		}
		if errors.Is(err, ErrExit) {
			return ErrExit
		}
		if err != nil {
			fmt.Fprintf(state.Stderr, "flintsh: %v\n", err)
			state.ReturnValue = 1
			break
		}
		state.ReturnValue = code

		if buf, ok := outs.(*util.BoundedBuffer); ok {
			if buf.Exceeded() {
				fmt.Fprintf(state.Stderr, "flintsh: %s\n", buf.Reason())
				state.ReturnValue = 1
				break
			}
			prevOuts = buf
		} else {
			prevOuts = nil
		}

		if state.ReturnValue != 0 {
			break
		}
	}
	return nil
}

// resolveStreams picks the outs/errs destinations for one command within a
// pipe sequence, per spec §4.3.1's "Choose outs/errs" rule.
func (rt *Runtime) resolveStreams(cmd shtoken.SimpleCommand, i, n int, state *WorkerState, finalOuts, finalErrs io.Writer) (io.Writer, io.Writer, io.Closer, error) {
	if cmd.IORedirect != nil {
		if cmd.IORedirect.Filename == ioRedirectSentinel {
			return os.Stdout, os.Stderr, nil, nil
		}
		path := cmd.IORedirect.Filename
		if !filepath.IsAbs(path) {
			path = filepath.Join(state.Cwd, path)
		}
		flags := os.O_CREATE | os.O_WRONLY
		if cmd.IORedirect.Operator == shtoken.RedirectAppend {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(path, flags, 0o644)
		if err != nil {
			return nil, nil, nil, err
		}
		return f, f, f, nil
	}

	if i != n-1 {
		return util.NewBoundedBuffer(rt.BufferMax), state.Stderr, nil, nil
	}

	outs := state.Stdout
	if finalOuts != nil {
		outs = finalOuts
	}
	errs := state.Stderr
	if finalErrs != nil {
		errs = finalErrs
	}
	return outs, errs, nil, nil
}

// dispatch resolves cmdWord to a native command or a nested shell script and
// runs it, returning the command's exit/return value (spec §4.3.1
// "Resolve cmd_word ... Dispatch by extension").
func (rt *Runtime) dispatch(ctx context.Context, w *Worker, state *WorkerState, cmdWord string, args []string, ins io.Reader, outs, errs io.Writer) (int, error) {
	shlog.Runtime("dispatch %q args=%v cwd=%s", cmdWord, args, state.Cwd)

	if fn, ok := builtins[cmdWord]; ok {
		return fn(rt, state, args, outs, errs)
	}

	if cmd, ok := nativecmd.Get(filepath.Base(cmdWord)); ok {
		if nativecmd.HasHelpFlag(args) {
			printUsage(outs, cmd)
			return 0, nil
		}
		env := &nativecmd.ExecutionEnv{
			Stdin:   ins,
			Stdout:  outs,
			Stderr:  errs,
			Environ: state.mergedEnviron(),
			Cwd:     state.Cwd,
		}
		return cmd.Run(ctx, env, args), nil
	}

	path, err := FindScriptFile(state.Cwd, effectiveBinPath(state, rt.BinPath), cmdWord)
	if err != nil {
		return 1, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 1, err
	}
	if looksBinary(data) {
		return 1, &NotExecutableError{Name: cmdWord, Detail: describeContent(data)}
	}

	extraEnv := positionalVars(cmdWord, args)
	child, err := rt.Run(ctx, w, string(data), ins, outs, errs, false, false, extraEnv)
	if err != nil {
		return 1, err
	}
	if err := child.Join(); err != nil {
		return 1, err
	}
	return child.State.ReturnValue, nil
}

// positionalVars builds $0..$n, $#, $@ for exec_sh_file (spec §4.3.1).
func positionalVars(name string, args []string) map[string]string {
	out := map[string]string{
		"0": name,
		"#": strconv.Itoa(len(args)),
		"@": strings.Join(args, "\t"),
	}
	for i, a := range args {
		out[strconv.Itoa(i+1)] = a
	}
	return out
}

func printUsage(w io.Writer, cmd *nativecmd.Command) {
	fmt.Fprintf(w, "%s - %s\n", cmd.Name, cmd.Description)
	if cmd.Usage != "" {
		fmt.Fprintf(w, "usage: %s\n", cmd.Usage)
	}
}
