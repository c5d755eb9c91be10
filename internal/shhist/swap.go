package shhist

// Swapper holds the interactive (primary) and nested-script (alt) history
// stores and swaps between them, so a running script neither sees nor grows
// the interactive history (spec §4.4, "primary and alt histories swap").
// Grounded on original_source/system/shruntime.py's history_swap.
type Swapper struct {
	primary *Store
	alt     *Store
	active  *Store
}

// NewSwapper creates a Swapper with two independently bounded stores.
func NewSwapper(max int) *Swapper {
	primary := NewStore(max)
	alt := NewStore(max)
	return &Swapper{primary: primary, alt: alt, active: primary}
}

// Active returns the currently active store.
func (s *Swapper) Active() *Store { return s.active }

// Swap toggles which store is active, called when a nested worker begins
// and again when it exits.
func (s *Swapper) Swap() {
	if s.active == s.primary {
		s.active = s.alt
	} else {
		s.active = s.primary
	}
}
