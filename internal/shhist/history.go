// Package shhist implements the bounded history ring described in spec
// §4.4: insertion with dedup, "!"-token search, and up/down navigation with
// template capture. Grounded on original_source/system/shruntime.py's
// add_history/search_history/history_up/history_dn/history_swap.
package shhist

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMax is the default ring size (spec §4.4, "default 30").
const DefaultMax = 30

// EventNotFoundError is returned by Search when a "!" token matches nothing.
type EventNotFoundError struct{ Token string }

func (e *EventNotFoundError) Error() string { return fmt.Sprintf("%s: event not found", e.Token) }

// Store is a bounded ring of history entries, oldest first.
type Store struct {
	Max     int
	entries []string

	idx      int // -1 = live input, per spec §4.4 "idx_to_history"
	template string
	ipython  bool
}

// NewStore creates a Store with the given maximum size (DefaultMax if max<=0).
func NewStore(max int) *Store {
	if max <= 0 {
		max = DefaultMax
	}
	return &Store{Max: max, idx: -1}
}

// SetIPythonStyle toggles the ipython_style_history_search config flag
// consulted by Up (spec §4.4, §6 "[system] ipython_style_history_search").
func (s *Store) SetIPythonStyle(on bool) { s.ipython = on }

// Add inserts line, skipping empty lines and immediate duplicates of the
// most recent entry (spec §4.4 "Insert rule").
func (s *Store) Add(line string) {
	if line == "" {
		return
	}
	if len(s.entries) > 0 && s.entries[len(s.entries)-1] == line {
		return
	}
	s.entries = append(s.entries, line)
	if len(s.entries) > s.Max {
		s.entries = s.entries[len(s.entries)-s.Max:]
	}
	s.idx = -1
}

// All returns every stored entry, oldest first.
func (s *Store) All() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Search resolves a "!"-prefixed token (spec §4.4 "Search rule"):
// "!" alone -> latest; "!N" -> Nth entry counting from oldest (1-indexed);
// "!prefix" -> first entry (scanning from the most recent) starting with
// prefix; anything else is EventNotFound.
func (s *Store) Search(token string) (string, error) {
	if !strings.HasPrefix(token, "!") {
		return "", &EventNotFoundError{Token: token}
	}
	rest := token[1:]

	if rest == "" || token == "!!" {
		if len(s.entries) == 0 {
			return "", &EventNotFoundError{Token: token}
		}
		return s.entries[len(s.entries)-1], nil
	}

	if n, err := strconv.Atoi(rest); err == nil {
		if n < 1 || n > len(s.entries) {
			return "", &EventNotFoundError{Token: token}
		}
		return s.entries[n-1], nil
	}

	for i := len(s.entries) - 1; i >= 0; i-- {
		if strings.HasPrefix(s.entries[i], rest) {
			return s.entries[i], nil
		}
	}
	return "", &EventNotFoundError{Token: token}
}

// JumpTo returns the entry at 1-indexed position n, reinstating the
// original's history_popover_tapped feature (spec SPEC_FULL.md §4).
func (s *Store) JumpTo(n int) (string, bool) {
	if n < 1 || n > len(s.entries) {
		return "", false
	}
	return s.entries[n-1], true
}

// Up moves one step back through history, capturing the live input as a
// template on first invocation (spec §4.4 "Navigation"). When ipython-style
// search is enabled, it walks past entries that don't share the template's
// prefix.
func (s *Store) Up(currentLine string) (string, bool) {
	if len(s.entries) == 0 {
		return "", false
	}
	if s.idx == -1 {
		s.template = currentLine
	}
	next := s.idx + 1
	for next < len(s.entries) {
		candidate := s.entries[len(s.entries)-1-next]
		if !s.ipython || strings.HasPrefix(candidate, s.template) {
			s.idx = next
			return candidate, true
		}
		next++
	}
	return "", false
}

// Down moves one step forward through history, toward the live template.
func (s *Store) Down() (string, bool) {
	if s.idx <= -1 {
		return "", false
	}
	next := s.idx - 1
	for next >= 0 {
		candidate := s.entries[len(s.entries)-1-next]
		if !s.ipython || strings.HasPrefix(candidate, s.template) {
			s.idx = next
			return candidate, true
		}
		next--
	}
	s.idx = -1
	return s.template, true
}

// ResetIdx resets navigation to "live input" (spec's reset_idx_to_history).
func (s *Store) ResetIdx() { s.idx = -1 }
