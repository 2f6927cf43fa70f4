package query

import "errors"

// ErrConfig is returned by Build (and the terminal query methods, which
// call it implicitly) when the query is missing an origin, destination,
// or time window, per §7.
var ErrConfig = errors.New("query: incomplete query configuration")
