package shparse

import (
	"fmt"

	"github.com/flintsh/flintsh/internal/shtoken"
)

// wordPunct is the punctuation part of the word-character class from spec
// §4.1; isWordByte accepts digits, ASCII letters, and this fixed set. Quotes, backslash, whitespace
// and the operator characters (; & | >) are deliberately excluded.
const wordPunct = "!#$%()*+,-./:=?@[]^_{}~"

func isWordByte(b byte) bool {
	if b >= '0' && b <= '9' {
		return true
	}
	if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' {
		return true
	}
	for i := 0; i < len(wordPunct); i++ {
		if wordPunct[i] == b {
			return true
		}
	}
	return false
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// scanner is the low-level character cursor shared by the line lexer and
// the within-double-quotes sub-lexer.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) eof() bool       { return sc.pos >= len(sc.s) }
func (sc *scanner) peek() byte      { return sc.s[sc.pos] }
func (sc *scanner) peekAt(n int) (byte, bool) {
	if sc.pos+n >= len(sc.s) {
		return 0, false
	}
	return sc.s[sc.pos+n], true
}

func (sc *scanner) skipSpaces() {
	for !sc.eof() && (sc.peek() == ' ' || sc.peek() == '\t') {
		sc.pos++
	}
}

// parseLeaf scans exactly one word-part leaf (escaped, unquoted run,
// backtick/double/single quoted) starting at the current position. ok is
// false if the current position does not start a word part at all.
func (sc *scanner) parseLeaf() (tok shtoken.Token, ok bool, err error) {
	if sc.eof() {
		return shtoken.Token{}, false, nil
	}
	start := sc.pos
	switch ch := sc.peek(); {
	case ch == '\\':
		if sc.pos+1 >= len(sc.s) {
			return shtoken.Token{}, false, &shtoken.ParseError{Offset: start, Remainder: sc.s[start:], Message: "trailing backslash"}
		}
		text := sc.s[sc.pos : sc.pos+2]
		sc.pos += 2
		return shtoken.NewLeaf(text, start, shtoken.Escaped), true, nil

	case ch == '`':
		text, nerr := sc.scanQuoted('`')
		if nerr != nil {
			return shtoken.Token{}, false, nerr
		}
		return shtoken.NewLeaf(text, start, shtoken.BacktickWord), true, nil

	case ch == '"':
		text, nerr := sc.scanQuoted('"')
		if nerr != nil {
			return shtoken.Token{}, false, nerr
		}
		return shtoken.NewLeaf(text, start, shtoken.DoubleQuoted), true, nil

	case ch == '\'':
		text, nerr := sc.scanSingleQuoted()
		if nerr != nil {
			return shtoken.Token{}, false, nerr
		}
		return shtoken.NewLeaf(text, start, shtoken.SingleQuoted), true, nil

	case isWordByte(ch):
		for !sc.eof() && isWordByte(sc.peek()) {
			sc.pos++
		}
		return shtoken.NewLeaf(sc.s[start:sc.pos], start, shtoken.UnquotedWord), true, nil

	default:
		return shtoken.Token{}, false, nil
	}
}

// scanQuoted scans a quote-delimited span where a backslash escapes the
// next character (so it never terminates the quote early). The returned
// text includes the surrounding quote characters, unprocessed, so a later
// re-scan (ParseWithinDoubleQuotes, or backtick re-execution) sees the raw
// source.
func (sc *scanner) scanQuoted(q byte) (string, error) {
	start := sc.pos
	sc.pos++ // opening quote
	for {
		if sc.eof() {
			return "", &shtoken.ParseError{Offset: start, Remainder: sc.s[start:], Message: fmt.Sprintf("unclosed %c", q)}
		}
		ch := sc.peek()
		if ch == '\\' && sc.pos+1 < len(sc.s) {
			sc.pos += 2
			continue
		}
		if ch == q {
			sc.pos++
			return sc.s[start:sc.pos], nil
		}
		sc.pos++
	}
}

// scanSingleQuoted scans '...' where backslash is NOT an escape character
// (spec §4.1: "opaque; backslash does not escape the closing quote").
func (sc *scanner) scanSingleQuoted() (string, error) {
	start := sc.pos
	sc.pos++
	for {
		if sc.eof() {
			return "", &shtoken.ParseError{Offset: start, Remainder: sc.s[start:], Message: "unclosed '"}
		}
		if sc.peek() == '\'' {
			sc.pos++
			return sc.s[start:sc.pos], nil
		}
		sc.pos++
	}
}

// parseWord scans the "word" production: one or more touching leaves.
// Returns ok=false (no error) if nothing word-like starts here.
func (sc *scanner) parseWord(kind shtoken.Kind) (shtoken.Token, bool, error) {
	start := sc.pos
	var parts []shtoken.Token
	for {
		leaf, ok, err := sc.parseLeaf()
		if err != nil {
			return shtoken.Token{}, false, err
		}
		if !ok {
			break
		}
		parts = append(parts, leaf)
	}
	if len(parts) == 0 {
		return shtoken.Token{}, false, nil
	}
	return shtoken.NewComposite(sc.s[start:sc.pos], start, kind, parts), true, nil
}

// ParseWithinDoubleQuotes re-lexes a string as if it were already inside a
// pair of double quotes: only escaped characters, backtick substitutions,
// and literal unquoted runs are recognised (spec §4.1's secondary entry
// point, consumed by the expander for DOUBLE_QUOTED_WORD parts).
func ParseWithinDoubleQuotes(s string) ([]shtoken.Token, error) {
	sc := &scanner{s: s}
	var leaves []shtoken.Token
	for !sc.eof() {
		start := sc.pos
		switch ch := sc.peek(); {
		case ch == '\\':
			if sc.pos+1 >= len(s) {
				return nil, &shtoken.ParseError{Offset: start, Remainder: s[start:], Message: "trailing backslash"}
			}
			text := s[sc.pos : sc.pos+2]
			sc.pos += 2
			leaves = append(leaves, shtoken.NewLeaf(text, start, shtoken.Escaped))

		case ch == '`':
			text, err := sc.scanQuoted('`')
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, shtoken.NewLeaf(text, start, shtoken.BacktickWord))

		default:
			for !sc.eof() && sc.peek() != '\\' && sc.peek() != '`' {
				sc.pos++
			}
			leaves = append(leaves, shtoken.NewLeaf(s[start:sc.pos], start, shtoken.UnquotedWord))
		}
	}
	return leaves, nil
}
