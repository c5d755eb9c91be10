// Package shglob implements the glob/globbable half of spec §4.2.1: escaping
// wildcard characters inside quoted or already-expanded text, and matching a
// globbable field against the real filesystem. Grounded on the teacher's
// internal/shell/glob.go (doublestar-backed matching against a directory
// listing) and original_source/stash.py's escape_wildcards/expand_sq_word.
package shglob

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// EscapeWildcards brackets every "[]?*" character in s so that a segment
// known not to contain real wildcards (single-quoted text, command
// substitution output, escaped characters) can be embedded into a globbable
// accumulator without doublestar treating it as a pattern.
func EscapeWildcards(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '[', ']', '?', '*':
			b.WriteByte('[')
			b.WriteByte(c)
			b.WriteByte(']')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// HasMeta reports whether s contains any of the wildcard characters "*",
// "?" or "[" (escaped or not), i.e. whether it is worth treating as a glob
// pattern at all.
func HasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// Expand matches the globbable field (rooted at cwd when relative) against
// the filesystem and returns the sorted list of matches, or nil if nothing
// matched. Matching is done against doublestar, which supports "*", "?",
// "[...]" and "{...}" the same way the teacher's ExpandGlobs does; a
// pattern with no "*", "?" or "[" is not matched at all, so braces alone
// do not expand.
func Expand(cwd, pattern string) []string {
	if !HasMeta(pattern) {
		return nil
	}

	abs := pattern
	if !filepath.IsAbs(pattern) {
		abs = filepath.Join(cwd, pattern)
	}

	root, rel := splitAtFirstMeta(abs)
	matches, err := doublestar.Glob(os.DirFS(root), rel)
	if err != nil || len(matches) == 0 {
		return nil
	}

	sort.Strings(matches)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		full := filepath.Join(root, m)
		if !filepath.IsAbs(pattern) {
			if r, err := filepath.Rel(cwd, full); err == nil {
				out = append(out, r)
				continue
			}
		}
		out = append(out, full)
	}
	return out
}

// splitAtFirstMeta finds the deepest directory prefix of abs that contains
// no wildcard characters, so the remainder can be handed to doublestar as a
// relative pattern rooted at a real, existing directory (doublestar.Glob
// requires an fs.FS root).
func splitAtFirstMeta(abs string) (root, rel string) {
	segs := strings.Split(filepath.ToSlash(abs), "/")
	cut := len(segs)
	for i, seg := range segs {
		if HasMeta(seg) {
			cut = i
			break
		}
	}
	root = strings.Join(segs[:cut], "/")
	if root == "" {
		root = "/"
	}
	rel = strings.Join(segs[cut:], "/")
	if rel == "" {
		rel = "."
	}
	return root, rel
}
