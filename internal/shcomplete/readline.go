package shcomplete

import "github.com/chzyer/readline"

// Do implements readline.AutoCompleter, the same interface teacher's
// internal/shell/completer.go (DrimeCompleter) implements, so Completer can
// be handed directly to readline.Config.AutoComplete.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	res := c.Complete(string(line), pos)
	wordToComplete := string(line[c.tokenStart(line, pos):pos])

	if len(res.Candidates) != 1 {
		out := make([][]rune, len(res.Candidates))
		for i, cand := range res.Candidates {
			out[i] = []rune(suffixAfter(cand, wordToComplete))
		}
		return out, len(wordToComplete)
	}

	suffix := suffixAfter(res.Candidates[0], wordToComplete)
	if !hasTrailingSlash(res.Candidates[0]) {
		suffix += " "
	}
	return [][]rune{[]rune(suffix)}, len(wordToComplete)
}

func (c *Completer) tokenStart(line []rune, pos int) int {
	_, start := tokenUnderCursor(string(line), pos)
	return start
}

func suffixAfter(candidate, prefix string) string {
	if len(candidate) >= len(prefix) && candidate[:len(prefix)] == prefix {
		return candidate[len(prefix):]
	}
	return candidate
}

func hasTrailingSlash(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '/'
}

var _ readline.AutoCompleter = (*Completer)(nil)
