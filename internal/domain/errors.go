package domain

import "errors"

// Sentinel error kinds. Callers at the transport boundary map these to
// HTTP status codes with errors.Is; internal callers prefer tagging a
// degraded result over propagating an error wherever a fallback path
// exists.
var (
	// ErrNotFound means the requested article or user preferences do not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrBadInput means the request failed validation (pagination out of
	// range, empty preference set, non-array preferences).
	ErrBadInput = errors.New("bad input")

	// ErrIndexUnavailable means the vector/text index is unreachable.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrStoreUnavailable means the backing key/value or SQL store is
	// unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrFatalCache means an admin cache operation failed outright; only
	// reached by admin actions.
	ErrFatalCache = errors.New("fatal cache error")

	// ErrVectorDimMismatch means a document's vector length does not
	// match the configured index dimension.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrNuclearConfirmationRequired means a nuclear clear was attempted
	// without the literal confirmation token.
	ErrNuclearConfirmationRequired = errors.New("nuclear clear requires confirmation token")
)
