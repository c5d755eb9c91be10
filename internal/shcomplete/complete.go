// Package shcomplete implements spec §4.5's completer: given a line and a
// cursor position, parse it, find the token under the cursor, and compute
// path/script/alias/env-var candidates. It is grounded on
// original_source/stash.py's ShCompleter.complete/path_match/
// format_all_names and shaped like the teacher's internal/shell/completer.go
// (a struct implementing readline.AutoCompleter, completeCommand/completePath
// split, trailing-space-after-single-match rule) — but talks to the running
// shell through small interfaces instead of a concrete session type, the
// same dependency-injection pattern internal/shexpand uses so shcomplete
// never imports internal/shrun directly.
package shcomplete

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flintsh/flintsh/internal/shlog"
	"github.com/flintsh/flintsh/internal/shparse"
	"github.com/flintsh/flintsh/internal/shtoken"
)

// Environ is the read-only view of a worker's variables the completer needs
// for $NAME expansion and $NAME-prefix candidates.
type Environ interface {
	Get(name string) (string, bool)
	Names() []string
}

// Aliases is the read-only view of a worker's alias table.
type Aliases interface {
	Names() []string
}

// ScriptSource supplies the names of scripts reachable on the search path
// (spec §4.5: "add all script names under [\".\"]+BIN_PATH"), mirroring
// shrun.FindScriptFile's own resolution order without importing shrun.
type ScriptSource interface {
	ScriptNames(cwd string) []string
}

// Completer computes completion candidates for one line/cursor pair.
type Completer struct {
	Env        Environ
	Aliases    Aliases
	Scripts    ScriptSource
	Cwd        func() string
	Home       string
	DisplayCap int
}

// Result is the outcome of one completion request, mirroring spec §4.5's
// "single match appends a trailing space; otherwise longest common prefix,
// else display all candidates (subject to a cap)".
type Result struct {
	// Candidates holds the matches found, cut to at most DisplayCap
	// entries when the cap is set (Truncated reports the cut).
	Candidates []string
	// Replacement is the text that should replace [Start:cursor) in the
	// line — either the single remaining match (with a trailing space) or
	// the longest common prefix extension.
	Replacement string
	// Start is the byte offset where word_to_complete begins.
	Start int
	// Truncated reports whether Candidates was capped for display.
	Truncated bool
}

// Complete implements spec §4.5 end to end.
func (c *Completer) Complete(line string, cursor int) Result {
	if cursor < 0 || cursor > len(line) {
		cursor = len(line)
	}
	isCmdWord, start := tokenUnderCursor(line, cursor)
	wordToComplete := line[start:cursor]

	var candidates []string
	switch {
	case strings.HasPrefix(wordToComplete, "$"):
		candidates = c.envCandidates(wordToComplete)
	default:
		paths := c.pathCandidates(wordToComplete)
		if isCmdWord {
			paths = filterCmdWordPaths(paths)
			paths = append(paths, c.commandCandidates(wordToComplete)...)
		}
		candidates = paths
	}

	sort.Strings(candidates)
	candidates = dedup(candidates)

	res := Result{Candidates: candidates, Start: start}
	switch len(candidates) {
	case 0:
		res.Replacement = wordToComplete
	case 1:
		res.Replacement = candidates[0]
		if !strings.HasSuffix(res.Replacement, "/") {
			res.Replacement += " "
		}
	default:
		lcp := longestCommonPrefix(candidates)
		if len(lcp) > len(wordToComplete) {
			res.Replacement = lcp
		} else {
			res.Replacement = wordToComplete
		}
		if c.DisplayCap > 0 && len(candidates) > c.DisplayCap {
			res.Candidates = candidates[:c.DisplayCap]
			res.Truncated = true
		}
	}
	shlog.Completer("complete %q@%d -> %d candidates (truncated=%v)", line, cursor, len(candidates), res.Truncated)
	return res
}

// tokenUnderCursor parses line and returns whether the token containing (or
// immediately before) cursor is the pipe stage's cmd_word, plus its start
// offset. A cursor that isn't inside any token appends an empty token there
// (spec §4.5: "identifies the token under the cursor, or appends an empty
// token at cursor").
func tokenUnderCursor(line string, cursor int) (isCmdWord bool, start int) {
	tokens, _, err := shparse.Parse(line[:cursor])
	if err != nil || len(tokens) == 0 {
		return atLineStart(line, cursor), cursor
	}
	last := tokens[len(tokens)-1]
	if last.End < cursor {
		// whitespace between the last real token and the cursor: the new
		// word is a cmd_word only if the last token was a chain punctuator
		// or pipe operator.
		switch last.Kind {
		case shtoken.Punctuator, shtoken.PipeOp:
			return true, cursor
		default:
			return false, cursor
		}
	}
	switch last.Kind {
	case shtoken.Cmd:
		return true, last.Start
	default:
		return false, last.Start
	}
}

func atLineStart(line string, cursor int) bool {
	return len(strings.TrimLeft(line[:cursor], " \t")) == 0
}

func (c *Completer) envCandidates(word string) []string {
	prefix := word[1:]
	var out []string
	for _, name := range c.Env.Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, "$"+name)
		}
	}
	return out
}

func (c *Completer) commandCandidates(word string) []string {
	var out []string
	if c.Scripts != nil {
		for _, name := range c.Scripts.ScriptNames(c.Cwd()) {
			if strings.HasPrefix(name, word) {
				out = append(out, name)
			}
		}
	}
	if c.Aliases != nil {
		for _, name := range c.Aliases.Names() {
			if strings.HasPrefix(name, word) {
				out = append(out, name)
			}
		}
	}
	return out
}

// filterCmdWordPaths keeps only the path candidates that could resolve to
// something runnable in cmd_word position: a directory to descend into, or a
// file dispatchable by extension (spec §4.5: "if cmd_word: filter paths to
// /, .py, .sh").
func filterCmdWordPaths(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if strings.HasSuffix(p, "/") || strings.HasSuffix(p, ".py") || strings.HasSuffix(p, ".sh") {
			out = append(out, p)
		}
	}
	return out
}

// pathCandidates resolves word_to_complete against the filesystem, per spec
// §4.5's glob-safe unescaping / ~ expansion / env-var expansion.
func (c *Completer) pathCandidates(word string) []string {
	unescaped := strings.ReplaceAll(word, `\ `, " ")
	expanded := c.expandForPath(unescaped)

	dir, prefix := filepath.Split(expanded)
	searchDir := dir
	if searchDir == "" {
		searchDir = "."
	}
	resolved := searchDir
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(c.Cwd(), resolved)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil
	}

	var out []string
	for _, ent := range entries {
		name := ent.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		display := dir + name
		if ent.IsDir() {
			display += "/"
		}
		out = append(out, display)
	}
	return out
}

// expandForPath expands a leading "~" and any "$NAME" references using the
// completer's Env, matching the subset of spec §4.2's variable expansion
// that's meaningful for a not-yet-complete path fragment.
func (c *Completer) expandForPath(s string) string {
	if strings.HasPrefix(s, "~") && (len(s) == 1 || s[1] == '/') {
		s = c.Home + s[1:]
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		j := i + 1
		for j < len(s) && isIdentByte(s[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(s[i])
			continue
		}
		name := s[i+1 : j]
		if v, ok := c.Env.Get(name); ok {
			b.WriteString(v)
		}
		i = j - 1
	}
	return b.String()
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func dedup(sorted []string) []string {
	out := sorted[:0]
	var prev string
	first := true
	for _, s := range sorted {
		if first || s != prev {
			out = append(out, s)
			prev = s
			first = false
		}
	}
	return out
}

func longestCommonPrefix(sorted []string) string {
	if len(sorted) == 0 {
		return ""
	}
	first, last := sorted[0], sorted[len(sorted)-1]
	i := 0
	for i < len(first) && i < len(last) && first[i] == last[i] {
		i++
	}
	return first[:i]
}
