package matchengine

import "errors"

var (
	ErrInvalidSide = errors.New("invalid side")

	// ErrBusy is returned when a book's inbound queue is full. The request
	// was not accepted; the caller may retry with backoff.
	ErrBusy = errors.New("book queue full")

	ErrBookStopped = errors.New("book stopped")

	errUnknownSymbol = errors.New("unknown symbol")
)
