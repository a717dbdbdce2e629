package marketdata

const wildcard = "*"

// Pattern is a market-data path where any segment may be the wildcard
// "*", matching every value at that position.
type Pattern struct {
	Exchange   string
	Instrument string
	Datatype   string
}

func (p Pattern) String() string {
	return p.Exchange + "/" + p.Instrument + "/" + p.Datatype
}

// ParsePattern parses a pattern, same three-segment shape as ParsePath
// but permitting "*" in any segment.
func ParsePattern(s string) (Pattern, error) {
	segs, err := splitSegments(s)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{Exchange: segs[0], Instrument: segs[1], Datatype: segs[2]}, nil
}

// PatternOf widens a concrete Path into a Pattern with no wildcards, which
// matches only that path (e.g. for an exact-match Index.Expand or
// NewSelection).
func PatternOf(p Path) Pattern {
	return Pattern{Exchange: p.Exchange, Instrument: p.Instrument, Datatype: string(p.Datatype)}
}

// Matches reports whether path satisfies every non-wildcard segment of
// the pattern.
func (p Pattern) Matches(path Path) bool {
	return segmentMatches(p.Exchange, path.Exchange) &&
		segmentMatches(p.Instrument, path.Instrument) &&
		segmentMatches(p.Datatype, string(path.Datatype))
}

func segmentMatches(pattern, value string) bool {
	return pattern == wildcard || pattern == value
}

// literalPrefix returns the segments of p up to (but not including) its
// first wildcard, each followed by its separating "/". An Index keys
// every registered path the same way (indexKey), so a prefix walk over
// this string only ever visits complete, matching segments -- "a/" never
// spuriously matches a path starting "ab/".
func (p Pattern) literalPrefix() string {
	segs := []string{p.Exchange, p.Instrument, p.Datatype}
	prefix := ""
	for _, seg := range segs {
		if seg == wildcard {
			break
		}
		prefix += seg + "/"
	}
	return prefix
}
