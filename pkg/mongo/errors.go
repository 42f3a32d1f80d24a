package mongo

import "errors"

// ErrFailedToConnect is returned when the client cannot reach the MongoDB
// server within the configured retry attempts.
var ErrFailedToConnect = errors.New("failed to connect to mongo server")
