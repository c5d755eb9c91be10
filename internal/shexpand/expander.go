package shexpand

import (
	"context"
	"strings"

	"github.com/flintsh/flintsh/internal/shparse"
	"github.com/flintsh/flintsh/internal/shtoken"
)

// Expander implements spec §4.2: history substitution, alias substitution,
// and per-command word expansion. It depends only on interfaces so
// internal/shrun can supply live worker state without an import cycle.
type Expander struct {
	Env     Environ
	Aliases Aliases
	History HistorySearcher
	Sub     Substituter
	Cwd     func() string
	Home    string
}

// Iterator yields each pipe sequence of one parsed line in order, expanding
// it lazily on Next so that an earlier "A=42" in the same line is visible
// to a later "$A" (spec §4.3: "Generator to allow previous command to run
// first before later command is expanded").
type Iterator struct {
	exp *Expander
	cmd *shparse.CompleteCommand
	pos int
}

// N is the number of pipe sequences this iterator will yield.
func (it *Iterator) N() int {
	if it.cmd == nil {
		return 0
	}
	return len(it.cmd.Entries)
}

// Next expands and returns the next pipe sequence, or (nil, false, nil) once
// exhausted.
func (it *Iterator) Next(ctx context.Context) (*shtoken.PipeSequence, bool, error) {
	if it.cmd == nil || it.pos >= len(it.cmd.Entries) {
		return nil, false, nil
	}
	entry := it.cmd.Entries[it.pos]
	it.pos++

	seq, err := it.exp.expandPipeSequence(ctx, entry)
	if err != nil {
		return nil, false, err
	}
	return seq, true, nil
}

// Expand lexes, history-substitutes and alias-substitutes line, returning
// the rewritten line (for history recording), the pipe-sequence count, and
// an Iterator to pull expanded pipe sequences from one at a time. A blank
// line yields ("", 0, an exhausted iterator, nil) per spec §8.
func (e *Expander) Expand(line string) (string, int, *Iterator, error) {
	tokens, cmd, err := shparse.Parse(line)
	if err != nil {
		return "", 0, nil, err
	}
	if cmd == nil {
		return "", 0, &Iterator{exp: e}, nil
	}

	tokens, cmd, line, err = e.historySubs(tokens, cmd, line)
	if err != nil {
		return "", 0, nil, err
	}
	_, cmd, line, err = e.aliasSubs(tokens, cmd, line, "")
	if err != nil {
		return "", 0, nil, err
	}

	it := &Iterator{exp: e, cmd: cmd}
	return line, it.N(), it, nil
}

func (e *Expander) historySubs(tokens []shtoken.Token, cmd *shparse.CompleteCommand, line string) ([]shtoken.Token, *shparse.CompleteCommand, string, error) {
	found := false
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
		if t.Kind == shtoken.Cmd && strings.HasPrefix(t.Text, "!") {
			resolved, err := e.History.Search(t.Text)
			if err != nil {
				return nil, nil, "", err
			}
			texts[i] = resolved
			found = true
		}
	}
	if !found {
		return tokens, cmd, line, nil
	}
	newLine := strings.Join(texts, " ")
	newTokens, newCmd, err := shparse.Parse(newLine)
	if err != nil {
		return nil, nil, "", err
	}
	if newCmd == nil {
		newCmd = &shparse.CompleteCommand{}
	}
	return newTokens, newCmd, newLine, nil
}

// aliasSubs substitutes every CMD token that names a defined alias, other
// than exclude. Expand makes a single pass with an empty exclude, so a
// replacement is never itself alias-expanded and a self-referential alias
// like ls='ls --color' is substituted once.
func (e *Expander) aliasSubs(tokens []shtoken.Token, cmd *shparse.CompleteCommand, line, exclude string) ([]shtoken.Token, *shparse.CompleteCommand, string, error) {
	found := false
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
		if t.Kind == shtoken.Cmd && t.Text != exclude {
			if repl, ok := e.Aliases.Lookup(t.Text); ok {
				texts[i] = repl
				found = true
			}
		}
	}
	if !found {
		return tokens, cmd, line, nil
	}
	newLine := strings.Join(texts, " ")
	newTokens, newCmd, err := shparse.Parse(newLine)
	if err != nil {
		return nil, nil, "", err
	}
	if newCmd == nil {
		newCmd = &shparse.CompleteCommand{}
	}
	return newTokens, newCmd, newLine, nil
}

func (e *Expander) expandPipeSequence(ctx context.Context, entry shparse.Entry) (*shtoken.PipeSequence, error) {
	seq := &shtoken.PipeSequence{InBackground: entry.Op == shtoken.ChainBg}
	for _, sc := range entry.Seq.Commands {
		cmd, err := e.expandSimpleCommand(ctx, sc)
		if err != nil {
			return nil, err
		}
		seq.Commands = append(seq.Commands, *cmd)
	}
	return seq, nil
}

func (e *Expander) expandSimpleCommand(ctx context.Context, sc shparse.SimpleCommand) (*shtoken.SimpleCommand, error) {
	out := &shtoken.SimpleCommand{}

	for _, a := range sc.Assignments {
		fields, err := e.expandWord(ctx, a.Value)
		if err != nil {
			return nil, err
		}
		out.Assignments = append(out.Assignments, shtoken.Assignment{
			Identifier: a.Identifier,
			Value:      strings.Join(fields, " "),
		})
	}

	if sc.CmdWord != nil {
		fields, err := e.expandWord(ctx, *sc.CmdWord)
		if err != nil {
			return nil, err
		}
		if len(fields) > 0 {
			out.CmdWord = fields[0]
			out.Args = append(out.Args, fields[1:]...)
		}
	}

	for _, a := range sc.Args {
		fields, err := e.expandWord(ctx, a)
		if err != nil {
			return nil, err
		}
		out.Args = append(out.Args, fields...)
	}

	// Drop empty fields after expansion (spec §4.2 step 3).
	nonEmpty := out.Args[:0]
	for _, a := range out.Args {
		if a != "" {
			nonEmpty = append(nonEmpty, a)
		}
	}
	out.Args = nonEmpty

	if out.CmdWord == "" && len(out.Args) > 0 {
		out.CmdWord = out.Args[0]
		out.Args = out.Args[1:]
	}

	if sc.RedirectOp != nil {
		fields, err := e.expandWord(ctx, *sc.RedirectArg)
		if err != nil {
			return nil, err
		}
		if len(fields) != 1 {
			return nil, &AmbiguousRedirectError{Detail: strings.Join(fields, " ")}
		}
		if fields[0] == "" {
			return nil, &AmbiguousRedirectError{Detail: "empty filename"}
		}
		out.IORedirect = &shtoken.IORedirect{Operator: sc.RedirectOp.Text, Filename: fields[0]}
	}

	return out, nil
}
