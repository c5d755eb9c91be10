// Package shparse turns a line of input into the flat token stream and the
// simple-command AST described in spec §4.1. It is a single-pass
// recursive-descent scanner rather than a grammar-combinator parser (the
// teacher's internal/shell/tokenizer.go takes the same hand-rolled approach);
// the grammar itself is carried over from original_source/stash.py's
// pyparsing ShParser.
package shparse

import (
	"github.com/flintsh/flintsh/internal/shlog"
	"github.com/flintsh/flintsh/internal/shtoken"
)

// Assignment pairs an identifier with the Word token holding its value, so
// the expander can run the normal word-expansion pipeline over it.
type Assignment struct {
	Identifier string
	Value      shtoken.Token // Kind == shtoken.Word (may have zero Parts for "A=")
}

// SimpleCommand is one pipeline stage: zero or more prefix assignments, an
// optional command word, zero or more argument words, and an optional
// trailing redirect.
type SimpleCommand struct {
	Assignments []Assignment
	CmdWord     *shtoken.Token // Kind == shtoken.Cmd; nil for a pure-assignment command
	Args        []shtoken.Token
	RedirectOp  *shtoken.Token // Kind == shtoken.IORedirectOp
	RedirectArg *shtoken.Token // Kind == shtoken.File
}

// PipeSequence is one or more SimpleCommands joined by "|".
type PipeSequence struct {
	Commands []SimpleCommand
}

// Entry is a PipeSequence together with the punctuator that follows it.
type Entry struct {
	Seq *PipeSequence
	Op  shtoken.ChainOp
}

// CompleteCommand is the parse of one full input line.
type CompleteCommand struct {
	Entries []Entry
}

// parser drives the scanner and accumulates the flat token stream required
// by spec §4.1 alongside the AST.
type parser struct {
	sc     scanner
	tokens []shtoken.Token
}

func (p *parser) emit(t shtoken.Token) shtoken.Token {
	p.tokens = append(p.tokens, t)
	return t
}

// Parse lexes and parses one line, returning the flat token stream and the
// AST. An empty or all-whitespace line yields a nil CompleteCommand and no
// error (spec §8: "Empty line -> no-op").
func Parse(line string) ([]shtoken.Token, *CompleteCommand, error) {
	shlog.Parser("parse %q", line)
	p := &parser{sc: scanner{s: line}}
	p.sc.skipSpaces()
	if p.sc.eof() {
		return nil, nil, nil
	}

	cmd := &CompleteCommand{}
	for {
		seq, err := p.parsePipeSequence()
		if err != nil {
			shlog.Parser("parse error: %v", err)
			return p.tokens, nil, err
		}
		entry := Entry{Seq: seq, Op: shtoken.ChainNone}
		p.sc.skipSpaces()
		if !p.sc.eof() && (p.sc.peek() == ';' || p.sc.peek() == '&') {
			op := shtoken.ChainSeq
			if p.sc.peek() == '&' {
				op = shtoken.ChainBg
			}
			start := p.sc.pos
			p.sc.pos++
			p.emit(shtoken.NewLeaf(line[start:p.sc.pos], start, shtoken.Punctuator))
			entry.Op = op
		}
		cmd.Entries = append(cmd.Entries, entry)

		p.sc.skipSpaces()
		if p.sc.eof() {
			break
		}
		if entry.Op == shtoken.ChainNone {
			return p.tokens, nil, &shtoken.ParseError{
				Offset: p.sc.pos, Remainder: line[p.sc.pos:],
				Message: "expected ';', '&' or end of line",
			}
		}
	}
	return p.tokens, cmd, nil
}

func (p *parser) parsePipeSequence() (*PipeSequence, error) {
	seq := &PipeSequence{}
	cmd, err := p.parseSimpleCommand()
	if err != nil {
		return nil, err
	}
	seq.Commands = append(seq.Commands, *cmd)

	for {
		p.sc.skipSpaces()
		if p.sc.eof() || p.sc.peek() != '|' {
			break
		}
		start := p.sc.pos
		p.sc.pos++
		p.emit(shtoken.NewLeaf(p.sc.s[start:p.sc.pos], start, shtoken.PipeOp))
		p.sc.skipSpaces()
		cmd, err := p.parseSimpleCommand()
		if err != nil {
			return nil, err
		}
		seq.Commands = append(seq.Commands, *cmd)
	}
	return seq, nil
}

func (p *parser) atEndOfCommand() bool {
	if p.sc.eof() {
		return true
	}
	switch p.sc.peek() {
	case ';', '&', '|':
		return true
	}
	return false
}

func (p *parser) parseSimpleCommand() (*SimpleCommand, error) {
	cmd := &SimpleCommand{}

	for {
		p.sc.skipSpaces()
		assign, ok, err := p.tryParseAssignment()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cmd.Assignments = append(cmd.Assignments, *assign)
	}

	p.sc.skipSpaces()
	if p.atEndOfCommand() {
		if len(cmd.Assignments) == 0 {
			return nil, &shtoken.ParseError{Offset: p.sc.pos, Remainder: p.sc.s[p.sc.pos:], Message: "empty command"}
		}
		return cmd, nil
	}

	word, ok, err := p.sc.parseWord(shtoken.Cmd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &shtoken.ParseError{Offset: p.sc.pos, Remainder: p.sc.s[p.sc.pos:], Message: "expected command word"}
	}
	cmdTok := p.emit(word)
	cmd.CmdWord = &cmdTok

	for {
		p.sc.skipSpaces()
		if p.atEndOfCommand() {
			break
		}
		if p.sc.peek() == '>' {
			op, arg, err := p.parseIORedirect()
			if err != nil {
				return nil, err
			}
			cmd.RedirectOp = op
			cmd.RedirectArg = arg
			break
		}
		argWord, ok, err := p.sc.parseWord(shtoken.Word)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &shtoken.ParseError{Offset: p.sc.pos, Remainder: p.sc.s[p.sc.pos:], Message: "unexpected character"}
		}
		cmd.Args = append(cmd.Args, p.emit(argWord))
	}

	return cmd, nil
}

func (p *parser) parseIORedirect() (*shtoken.Token, *shtoken.Token, error) {
	start := p.sc.pos
	op := shtoken.RedirectTruncate
	p.sc.pos++ // first '>'
	if !p.sc.eof() && p.sc.peek() == '>' {
		op = shtoken.RedirectAppend
		p.sc.pos++
	}
	opTok := p.emit(shtoken.NewLeaf(op, start, shtoken.IORedirectOp))

	p.sc.skipSpaces()
	word, ok, err := p.sc.parseWord(shtoken.File)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, &shtoken.ParseError{Offset: p.sc.pos, Remainder: p.sc.s[p.sc.pos:], Message: "expected filename after redirect"}
	}
	fileTok := p.emit(word)
	return &opTok, &fileTok, nil
}

// tryParseAssignment peeks for IDENT "=" word without committing unless the
// "=" is actually found; "=" is itself a word character, so ordinary words
// like "FOO=bar" (no preceding identifier/assignment context) are only ever
// reached through this path, never misparsed as a bare word containing "=".
func (p *parser) tryParseAssignment() (*Assignment, bool, error) {
	start := p.sc.pos
	if p.sc.eof() || !isIdentStart(p.sc.peek()) {
		return nil, false, nil
	}
	idEnd := p.sc.pos
	for idEnd < len(p.sc.s) && isIdentByte(p.sc.s[idEnd]) {
		idEnd++
	}
	if idEnd >= len(p.sc.s) || p.sc.s[idEnd] != '=' {
		return nil, false, nil
	}
	ident := p.sc.s[start:idEnd]
	p.sc.pos = idEnd + 1

	valueStart := p.sc.pos
	word, ok, err := p.sc.parseWord(shtoken.Word)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		// "A=" with nothing following: value is the empty word.
		word = shtoken.NewComposite("", valueStart, shtoken.Word, nil)
	}

	full := p.sc.s[start:p.sc.pos]
	name := shtoken.NewLeaf(p.sc.s[start:valueStart], start, shtoken.UnquotedWord)
	tok := p.emit(shtoken.NewComposite(full, start, shtoken.AssignWord, []shtoken.Token{name, word}))
	_ = tok
	return &Assignment{Identifier: ident, Value: word}, true, nil
}
