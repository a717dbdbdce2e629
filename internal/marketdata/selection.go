package marketdata

import "github.com/saiputra-labs/vantage/internal/clock"

// maxInstant stands in for i64::MAX as the effectively-unbounded upper
// selection edge.
const maxInstant = clock.Instant(1<<63 - 1)

// Selection bounds a replay or stream request to a pattern and an instant
// range. An absent From defaults to epoch-zero, an absent To to
// maxInstant -- callers express "absent" with a nil pointer at
// construction via NewSelection, after which From/To are always concrete.
type Selection struct {
	Path Pattern
	From clock.Instant
	To   clock.Instant
}

// NewSelection builds a Selection over pattern: a nil from means
// epoch-zero, a nil to means unbounded.
func NewSelection(pattern Pattern, from, to *clock.Instant) Selection {
	sel := Selection{Path: pattern, From: 0, To: maxInstant}
	if from != nil {
		sel.From = *from
	}
	if to != nil {
		sel.To = *to
	}
	return sel
}

// Contains reports whether t falls within the selection's [From, To]
// bound, inclusive on both ends (unlike clock.TimeRange's half-open
// convention, since a selection end is explicitly documented as the
// closed "i64::MAX" sentinel rather than an exclusive boundary).
func (s Selection) Contains(t clock.Instant) bool {
	return t >= s.From && t <= s.To
}
