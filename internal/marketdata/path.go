// Package marketdata implements the hierarchical market-data addressing
// scheme a live feed is selected against: a three-segment path
// (exchange/instrument/datatype), wildcard pattern expansion against an
// in-memory index, the selection range used to bound a replay, and the
// snapshot order record a book is rebuilt from. Streaming itself is an
// external collaborator (Source); this package stops at addressing.
package marketdata

import (
	"fmt"
	"strings"
)

// Datatype is one segment of a Path identifying what kind of stream a
// path addresses.
type Datatype string

const (
	DatatypeTrades Datatype = "trades"
	DatatypeBook   Datatype = "book"
)

// CandlesDatatype builds the candles_<duration> datatype segment, e.g.
// CandlesDatatype("1m") -> "candles_1m".
func CandlesDatatype(duration string) Datatype {
	return Datatype("candles_" + duration)
}

// LadderDatatype builds the ladder_<depth> datatype segment, e.g.
// LadderDatatype(10) -> "ladder_10".
func LadderDatatype(depth int) Datatype {
	return Datatype(fmt.Sprintf("ladder_%d", depth))
}

// Path is a concrete, wildcard-free market-data address:
// exchange/instrument/datatype.
type Path struct {
	Exchange   string
	Instrument string
	Datatype   Datatype
}

func (p Path) String() string {
	return p.Exchange + "/" + p.Instrument + "/" + string(p.Datatype)
}

// ErrMalformedPath is returned by ParsePath and ParsePattern when the
// input does not have exactly three non-empty segments.
var ErrMalformedPath = fmt.Errorf("marketdata: path must have exactly three non-empty segments (exchange/instrument/datatype)")

// ParsePath parses a concrete path. Every segment must be present and
// none may be the wildcard segment; use ParsePattern for addresses that
// may contain "*".
func ParsePath(s string) (Path, error) {
	segs, err := splitSegments(s)
	if err != nil {
		return Path{}, err
	}
	for _, seg := range segs {
		if seg == wildcard {
			return Path{}, fmt.Errorf("marketdata: %q is a pattern, not a concrete path", s)
		}
	}
	return Path{Exchange: segs[0], Instrument: segs[1], Datatype: Datatype(segs[2])}, nil
}

func splitSegments(s string) ([3]string, error) {
	var out [3]string
	segs := strings.Split(s, "/")
	if len(segs) != 3 {
		return out, ErrMalformedPath
	}
	for i, seg := range segs {
		if seg == "" {
			return out, ErrMalformedPath
		}
		out[i] = seg
	}
	return out, nil
}
