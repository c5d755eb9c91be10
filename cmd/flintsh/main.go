// Command flintsh is the interactive shell entry point: load configuration,
// run the default and user rcfiles, then hand off to a readline-backed REPL
// loop, grounded on the teacher's cmd/drime/main.go (init sequence, --version
// flag) and original_source/stash.py's StaSh.__init__ (default rc, then user
// rc, both with add_to_history=False).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flintsh/flintsh/internal/config"
	"github.com/flintsh/flintsh/internal/shrun"
	"github.com/flintsh/flintsh/internal/shterm"
	"github.com/flintsh/flintsh/internal/ui"

	_ "github.com/flintsh/flintsh/internal/nativecmd"
)

const version = "0.1.0"

// defaultPromptTemplate is PROMPT's built-in value (spec §6) when the user
// hasn't set one in the environment or rcfile.
const defaultPromptTemplate = `[\W]$ `

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println(version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flintsh: %v\n", err)
		os.Exit(1)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flintsh: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flintsh: %v\n", err)
		os.Exit(1)
	}

	environ := initialEnviron(home)
	binPath := splitBinPath(environ["BIN_PATH"])

	rt := shrun.NewRuntime(cwd, environ, home, binPath, cfg.HistoryMax, cfg.BufferMax)
	rt.History.Active().SetIPythonStyle(cfg.IPythonStyleHistorySearch)
	shrun.RegisterRuntimeCommands(rt)

	ctx := context.Background()
	runStartup(ctx, rt, config.DefaultRC)
	if cfg.RCFile != "" {
		if data, err := os.ReadFile(cfg.RCFile); err == nil {
			runStartup(ctx, rt, string(data))
		}
	}

	historyPath, _ := config.HistoryPath()
	if historyPath != "" {
		os.MkdirAll(filepath.Dir(historyPath), 0o700)
	}

	completer := rt.NewCompleter(cfg.AutoCompletionMax)
	term, err := shterm.NewReadlineTerminal(displayPrompt(rt, environ), historyPath, completer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flintsh: %v\n", err)
		os.Exit(1)
	}
	defer term.Close()

	runREPL(ctx, rt, term)
}

// runStartup executes rcfile text (default then user) with
// add_to_history=false per spec §6's rcfile contract.
func runStartup(ctx context.Context, rt *shrun.Runtime, text string) {
	w, err := rt.Run(ctx, nil, text, strings.NewReader(""), io.Discard, os.Stderr, false, true, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flintsh: %v\n", err)
		return
	}
	if err := w.Join(); err != nil && !errors.Is(err, shrun.ErrExit) {
		fmt.Fprintf(os.Stderr, "flintsh: %v\n", err)
	}
}

func runREPL(ctx context.Context, rt *shrun.Runtime, term *shterm.ReadlineTerminal) {
	for {
		term.SetPrompt(displayPrompt(rt, rt.Root.Environ))
		line, err := term.ReadInputLine()
		if term.InputDidEOF() || term.InputDidInterrupt() {
			return
		}
		if err != nil {
			return
		}

		line = shterm.TrimmedLine(line)
		if line == "" {
			continue
		}

		w, err := rt.Run(ctx, nil, line, nil, nil, nil, true, false, nil)
		if err != nil {
			term.WriteWithPrefix(err.Error())
			continue
		}
		if err := w.Join(); err != nil {
			if errors.Is(err, shrun.ErrExit) {
				return
			}
			term.WriteWithPrefix(err.Error())
		}
	}
}

// initialEnviron seeds the root worker's environ from the process
// environment, sets HOME, and defaults HOME2, STASH_ROOT and PROMPT when
// unset. BIN_PATH and PYTHONPATH are not defaulted here; they come from the
// process environment or the default rcfile.
func initialEnviron(home string) map[string]string {
	environ := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			environ[kv[:i]] = kv[i+1:]
		}
	}
	environ["HOME"] = home
	if _, ok := environ["HOME2"]; !ok {
		environ["HOME2"] = home
	}
	if _, ok := environ["STASH_ROOT"]; !ok {
		environ["STASH_ROOT"] = home
	}
	if _, ok := environ["PROMPT"]; !ok {
		environ["PROMPT"] = defaultPromptTemplate
	}
	return environ
}

func promptTemplate(environ map[string]string) string {
	if p, ok := environ["PROMPT"]; ok {
		return p
	}
	return defaultPromptTemplate
}

// displayPrompt renders the prompt shown to the terminal. A user-customised
// PROMPT template (spec §6, "\w"/"\W" substitution) is honoured verbatim; the
// built-in default is instead rendered Powerline-style via internal/ui,
// grounded on the teacher's Shell.buildPrompt in internal/shell/repl.go. The
// trailing badge reports detached background jobs (Runtime.Background),
// replacing the teacher's vault indicator since flintsh has no vault.
func displayPrompt(rt *shrun.Runtime, environ map[string]string) string {
	template := promptTemplate(environ)
	if template != defaultPromptTemplate {
		return rt.GetPrompt(template)
	}

	user := environ["USER"]
	if user == "" {
		user = "flintsh"
	}
	path := rt.GetPrompt(`\w`)
	badge := ""
	if n := len(rt.Background()); n > 0 {
		badge = fmt.Sprintf("%d bg", n)
	}
	return ui.RenderPrompt(user, path, badge)
}

func splitBinPath(binPath string) []string {
	if binPath == "" {
		return nil
	}
	return strings.Split(binPath, ":")
}
