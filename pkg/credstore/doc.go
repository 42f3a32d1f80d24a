// Package credstore caches the credentials obtained from a successful code
// exchange so downstream consumers can pick them up.
//
// The cache is append-mostly and deliberately separate from the state
// registry: losing it never affects the anti-replay decision. The production
// implementation keeps the latest record in Redis with a TTL matching the
// token lifetime; a mutex-guarded in-memory implementation backs tests and
// local development.
//
// Raw access tokens live only inside the cache payload. Anything written for
// human inspection must go through Record.Redacted.
package credstore
