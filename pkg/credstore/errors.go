package credstore

import "errors"

// ErrNoCredentials is returned when no credentials have been cached yet.
var ErrNoCredentials = errors.New("no credentials cached")
