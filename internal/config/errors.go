package config

import "errors"

// ErrConfig is returned by Load when an environment variable is set but
// holds a value this package cannot parse.
var ErrConfig = errors.New("config: invalid configuration value")
