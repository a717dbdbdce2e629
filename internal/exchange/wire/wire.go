// Package wire is the binary market-data codec for a live transport: a
// fixed-header, BigEndian encoding for book.Delta frames.
package wire

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
)

var (
	ErrInvalidDeltaKind = errors.New("wire: invalid delta kind byte")
	ErrMessageTooShort  = errors.New("wire: message too short for declared header")
)

// DeltaKind wire tags, stable across releases -- never renumber these.
const (
	wireOpen   byte = 0
	wireDone   byte = 1
	wireChange byte = 2
)

const (
	sideBuy  byte = 0
	sideSell byte = 1
)

// deltaHeaderLen is the fixed prefix common to every delta frame: kind(1)
// + instant(8) + id-length(2).
const deltaHeaderLen = 1 + 8 + 2

// EncodeDelta serializes a market-data delta for instant at onto the
// wire. Price/size are encoded as float64 bit patterns rather than
// decimal.Decimal's own text form, trading exact base-10 round-tripping
// for a fixed-width frame; callers needing bit-exact decimal replay
// should reconstruct via decimal.NewFromFloat at the documented
// precision instead of relying on wire equality.
func EncodeDelta(at clock.Instant, d book.Delta) []byte {
	idBytes := []byte(d.ID)

	buf := make([]byte, deltaHeaderLen+len(idBytes)+variantLen(d.Kind))
	offset := 0

	buf[offset] = kindByte(d.Kind)
	offset++
	binary.BigEndian.PutUint64(buf[offset:offset+8], uint64(at))
	offset += 8
	binary.BigEndian.PutUint16(buf[offset:offset+2], uint16(len(idBytes)))
	offset += 2
	offset += copy(buf[offset:], idBytes)

	switch d.Kind {
	case book.DeltaOpen:
		binary.BigEndian.PutUint64(buf[offset:offset+8], math.Float64bits(mustFloat(d.Price)))
		offset += 8
		binary.BigEndian.PutUint64(buf[offset:offset+8], math.Float64bits(mustFloat(d.Size)))
		offset += 8
		buf[offset] = sideByte(d.Side)
	case book.DeltaChange:
		binary.BigEndian.PutUint64(buf[offset:offset+8], math.Float64bits(mustFloat(d.Size)))
	case book.DeltaDone:
		// no additional payload
	}

	return buf
}

// DecodeDelta parses a frame produced by EncodeDelta, returning the
// instant it was emitted at alongside the delta.
func DecodeDelta(msg []byte) (clock.Instant, book.Delta, error) {
	if len(msg) < deltaHeaderLen {
		return 0, book.Delta{}, ErrMessageTooShort
	}

	kindB := msg[0]
	at := clock.Instant(binary.BigEndian.Uint64(msg[1:9]))
	idLen := int(binary.BigEndian.Uint16(msg[9:11]))
	offset := deltaHeaderLen

	if len(msg) < offset+idLen {
		return 0, book.Delta{}, ErrMessageTooShort
	}
	id := string(msg[offset : offset+idLen])
	offset += idLen

	switch kindB {
	case wireOpen:
		if len(msg) < offset+1+8+8 {
			return 0, book.Delta{}, ErrMessageTooShort
		}
		price := decimal.NewFromFloat(math.Float64frombits(binary.BigEndian.Uint64(msg[offset : offset+8])))
		offset += 8
		size := decimal.NewFromFloat(math.Float64frombits(binary.BigEndian.Uint64(msg[offset : offset+8])))
		offset += 8
		side := sideFrom(msg[offset])
		return at, book.Open(id, price, size, side), nil
	case wireDone:
		return at, book.Done(id), nil
	case wireChange:
		if len(msg) < offset+8 {
			return 0, book.Delta{}, ErrMessageTooShort
		}
		size := decimal.NewFromFloat(math.Float64frombits(binary.BigEndian.Uint64(msg[offset : offset+8])))
		return at, book.Change(id, size), nil
	default:
		return 0, book.Delta{}, ErrInvalidDeltaKind
	}
}

func variantLen(kind book.DeltaKind) int {
	switch kind {
	case book.DeltaOpen:
		return 1 + 8 + 8
	case book.DeltaChange:
		return 8
	default:
		return 0
	}
}

func kindByte(kind book.DeltaKind) byte {
	switch kind {
	case book.DeltaOpen:
		return wireOpen
	case book.DeltaChange:
		return wireChange
	default:
		return wireDone
	}
}

func sideByte(s book.Side) byte {
	if s == book.Sell {
		return sideSell
	}
	return sideBuy
}

func sideFrom(b byte) book.Side {
	if b == sideSell {
		return book.Sell
	}
	return book.Buy
}

func mustFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
