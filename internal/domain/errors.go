package domain

import "errors"

// The four terminal failure modes of an analysis request. Everything the
// engine returns wraps one of these so the API boundary can classify
// without string matching.
var (
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrUnknownTicker       = errors.New("unknown ticker")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrUpstreamFetch       = errors.New("price provider unavailable")
)
