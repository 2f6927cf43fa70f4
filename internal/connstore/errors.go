package connstore

import "errors"

// Error kinds from spec §7. Storage and the enumerator prefer boolean/
// optional returns for "not found"; these sentinels cover the cases that
// are genuine failures (bad bytes, incompatible wire version).
var (
	// ErrBadRecord names the case where packed storage holds the
	// sentinel "never written" pattern instead of a real record. Reads
	// in this package report that case as ok=false and do not return
	// this error themselves.
	ErrBadRecord = errors.New("connstore: record slot is unwritten")

	// ErrIncompatibleVersion is returned by Decode when the wire version
	// byte does not match the version this package writes.
	ErrIncompatibleVersion = errors.New("connstore: incompatible wire format version")

	// ErrInvalidWindow is returned by callers that validate a scan's
	// [windowStart, windowEnd) time frame before querying the windowed
	// departure index: an empty or inverted window can never produce a
	// journey, so it is rejected up front rather than silently yielding
	// zero results.
	ErrInvalidWindow = errors.New("connstore: invalid time window")
)
