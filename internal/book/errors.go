package book

import "errors"

var (
	// ErrInvalidDelta is returned by Change when the referenced order id is
	// unknown. Done for an unknown id is tolerated (late exchange events are
	// common); Change for an unknown id is not.
	ErrInvalidDelta = errors.New("book: change references unknown order id")

	// ErrBookInvariantViolation is a fatal assertion failure: the book has
	// been driven into a crossed state by a corrupted delta stream.
	ErrBookInvariantViolation = errors.New("book: invariant violation, crossed book")

	// ErrMissingPrice is returned when an operation that requires a resting
	// price (every order in a book) is handed one without it.
	ErrMissingPrice = errors.New("book: order is missing a required price")
)
