package marketdata

import "context"

// Source is the narrow external-collaborator interface a concrete
// market-data transport (REST backfill, WebSocket stream, local file)
// implements. Everything upstream of this interface -- JSON framing,
// HTTP/WebSocket plumbing, on-disk formats -- is out of scope; vantage
// only ever calls Stream with an already-resolved Selection.
type Source interface {
	// Stream delivers every item addressed by sel.Path and timestamped
	// within [sel.From, sel.To], in non-decreasing instant order, closing
	// the channel when exhausted.
	Stream(ctx context.Context, sel Selection) (<-chan any, error)
}
