package derive

// Sticky tracks the last valid value of a display metric so the UI does
// not flicker to a placeholder when a live source returns nothing for a
// tick. It is a pure reducer: Observe returns the next state and never
// mutates the receiver.
type Sticky struct {
	last *float64
}

// Observe folds a new sample into the state. A valid sample (finite and
// positive) replaces the retained value; anything else leaves the
// previous state in place.
func (s Sticky) Observe(sample *float64) Sticky {
	if v, ok := positive(sample); ok {
		return Sticky{last: &v}
	}
	return s
}

// Value returns the retained last-known-good value, or nil if no valid
// sample has been observed yet.
func (s Sticky) Value() *float64 {
	if s.last == nil {
		return nil
	}
	v := *s.last
	return &v
}
