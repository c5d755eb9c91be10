package shexpand

import (
	"context"
	"os/user"
	"strings"

	"github.com/flintsh/flintsh/internal/shglob"
	"github.com/flintsh/flintsh/internal/shparse"
	"github.com/flintsh/flintsh/internal/shtoken"
)

// fieldsBuilder mirrors ShExpander.expand_word's words_expanded /
// words_expanded_globable accumulator pair: a word yields one field by
// default, but a multi-field backtick result can split it into several.
type fieldsBuilder struct {
	raw, glb       []string
	curRaw, curGlb strings.Builder
}

func (fb *fieldsBuilder) append(raw, glb string) {
	fb.curRaw.WriteString(raw)
	fb.curGlb.WriteString(glb)
}

// addBacktickResult folds a command-substitution result into the builder,
// splitting on whitespace exactly like the original's ret.split(): more
// than one field closes out the current field (and any interior fields),
// leaving only the last fragment open for further touching parts.
func (fb *fieldsBuilder) addBacktickResult(ret string) {
	fields := strings.Fields(ret)
	if len(fields) <= 1 {
		fb.append(ret, ret)
		return
	}
	fb.raw = append(fb.raw, fb.curRaw.String()+fields[0])
	fb.glb = append(fb.glb, fb.curGlb.String()+fields[0])
	for _, f := range fields[1 : len(fields)-1] {
		fb.raw = append(fb.raw, f)
		fb.glb = append(fb.glb, f)
	}
	fb.curRaw.Reset()
	fb.curGlb.Reset()
	last := fields[len(fields)-1]
	fb.curRaw.WriteString(last)
	fb.curGlb.WriteString(last)
}

func (fb *fieldsBuilder) finish() ([]string, []string) {
	fb.raw = append(fb.raw, fb.curRaw.String())
	fb.glb = append(fb.glb, fb.curGlb.String())
	return fb.raw, fb.glb
}

// expandEscaped translates a two-character ESCAPED leaf ("\c") per spec
// §4.2.1: control-character shorthands, bracket-quoted glob specials, or
// the literal character.
func expandEscaped(tok string) (raw, glb string) {
	c := tok[1]
	switch c {
	case 't':
		return "\t", "\t"
	case 'r':
		return "\r", "\r"
	case 'n':
		return "\n", "\n"
	case '[', ']', '?', '*':
		return string(c), "[" + string(c) + "]"
	default:
		return string(c), string(c)
	}
}

// expandUser expands a leading "~" or "~user" the way os.path.expanduser
// does: unchanged if there is no leading tilde.
func expandUser(s, home string) string {
	if len(s) == 0 || s[0] != '~' {
		return s
	}
	rest := s[1:]
	if rest == "" || rest[0] == '/' {
		return home + rest
	}
	cut := strings.IndexByte(rest, '/')
	name, tail := rest, ""
	if cut >= 0 {
		name, tail = rest[:cut], rest[cut:]
	}
	if u, err := user.Lookup(name); err == nil {
		return u.HomeDir + tail
	}
	return s
}

// expandVars scans s left to right substituting "$NAME", "${NAME}",
// "$0".."$9", "$@", "$#", "$?" and "$$", per spec §4.2.1. It is a direct
// port of the state machine in original_source/stash.py's expandvars.
func (e *Expander) expandVars(s string) (string, error) {
	var out strings.Builder
	const (
		stateLit = iota
		stateDollar
		stateBrace
	)
	state := stateLit
	var name strings.Builder

	isIdentChar := func(c byte) bool {
		return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
	}
	isIdentStart := func(c byte) bool {
		return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case stateLit:
			if c == '$' {
				state = stateDollar
				name.Reset()
			} else {
				out.WriteByte(c)
			}

		case stateDollar:
			if name.Len() == 0 {
				switch {
				case c == '{':
					state = stateBrace
				case c >= '0' && c <= '9' || c == '@' || c == '#' || c == '?':
					if v, ok := e.Env.Get(string(c)); ok {
						out.WriteString(v)
					}
					state = stateLit
				case c == '$':
					out.WriteString(e.Env.WorkerID())
					state = stateLit
				case isIdentStart(c):
					name.WriteByte(c)
				default:
					out.WriteByte('$')
					out.WriteByte(c)
					state = stateLit
				}
			} else {
				if isIdentChar(c) {
					name.WriteByte(c)
				} else {
					if v, ok := e.Env.Get(name.String()); ok {
						out.WriteString(v)
					}
					out.WriteByte(c)
					state = stateLit
				}
			}

		case stateBrace:
			if c == '}' {
				if name.Len() == 0 {
					return "", &BadSubstitutionError{Detail: "bad envars substitution"}
				}
				if v, ok := e.Env.Get(name.String()); ok {
					out.WriteString(v)
				}
				state = stateLit
			} else if isIdentChar(c) {
				name.WriteByte(c)
			} else {
				return "", &BadSubstitutionError{Detail: "bad envars substitution"}
			}
		}
	}

	switch state {
	case stateDollar:
		if name.Len() != 0 {
			if v, ok := e.Env.Get(name.String()); ok {
				out.WriteString(v)
			}
		} else {
			out.WriteByte('$')
		}
	case stateBrace:
		return "", &BadSubstitutionError{Detail: "bad envars substitution"}
	}
	return out.String(), nil
}

// expandWord runs the part-wise expansion table of spec §4.2.1 over one
// WORD/ASSIGN_WORD/CMD/FILE composite token and returns its final fields
// (after glob matching).
func (e *Expander) expandWord(ctx context.Context, word shtoken.Token) ([]string, error) {
	fb := &fieldsBuilder{}

	for i, p := range word.Parts {
		var raw, glb string

		switch p.Kind {
		case shtoken.Escaped:
			raw, glb = expandEscaped(p.Text)

		case shtoken.UnquotedWord:
			text := p.Text
			if i == 0 {
				text = expandUser(text, e.Home)
			}
			expanded, err := e.expandVars(text)
			if err != nil {
				return nil, err
			}
			raw, glb = expanded, expanded

		case shtoken.SingleQuoted:
			interior := p.Text[1 : len(p.Text)-1]
			raw = interior
			glb = shglob.EscapeWildcards(interior)

		case shtoken.DoubleQuoted:
			var err error
			raw, glb, err = e.expandDoubleQuoted(ctx, p.Text[1:len(p.Text)-1])
			if err != nil {
				return nil, err
			}

		case shtoken.BacktickWord:
			ret, err := e.Sub.Substitute(ctx, p.Text[1:len(p.Text)-1])
			if err != nil {
				return nil, err
			}
			fb.addBacktickResult(ret)
			continue

		default:
			return nil, &BadSubstitutionError{Detail: "unknown word part kind " + p.Kind.String()}
		}

		fb.append(raw, glb)
	}

	rawFields, glbFields := fb.finish()
	var out []string
	for i, glb := range glbFields {
		if matches := shglob.Expand(e.Cwd(), glb); len(matches) > 0 {
			out = append(out, matches...)
		} else {
			out = append(out, rawFields[i])
		}
	}
	return out, nil
}

// expandDoubleQuoted re-lexes the interior of a double-quoted leaf and
// expands each inner leaf; tilde and glob matching do not apply inside
// double quotes (spec §4.2.1), but wildcard characters in the result are
// still bracket-escaped so a later glob pass never treats them as meta.
func (e *Expander) expandDoubleQuoted(ctx context.Context, inner string) (raw, glb string, err error) {
	leaves, err := shparse.ParseWithinDoubleQuotes(inner)
	if err != nil {
		return "", "", err
	}
	var rawB, glbB strings.Builder
	for _, p := range leaves {
		switch p.Kind {
		case shtoken.Escaped:
			r, g := expandEscaped(p.Text)
			rawB.WriteString(r)
			glbB.WriteString(g)

		case shtoken.UnquotedWord:
			ex, err := e.expandVars(p.Text)
			if err != nil {
				return "", "", err
			}
			rawB.WriteString(ex)
			glbB.WriteString(shglob.EscapeWildcards(ex))

		case shtoken.BacktickWord:
			ret, err := e.Sub.Substitute(ctx, p.Text[1:len(p.Text)-1])
			if err != nil {
				return "", "", err
			}
			rawB.WriteString(ret)
			glbB.WriteString(shglob.EscapeWildcards(ret))

		default:
			return "", "", &BadSubstitutionError{Detail: "unknown dq_word part kind " + p.Kind.String()}
		}
	}
	return rawB.String(), glbB.String(), nil
}
