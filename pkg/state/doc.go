// Package state implements the single-use anti-replay token registry at the
// heart of the callback receiver.
//
// Every issued state is persisted as a Record. Records are append-only: a
// record is never deleted and its Used flag only ever transitions from false
// to true, so the store doubles as an audit trail of issued states.
//
// The Store interface exposes, besides plain reads and writes, an atomic
// TryConsume operation that flips Used from false to true exactly once. Two
// concurrent callbacks presenting the same state race on that single
// document-level compare-and-swap; at most one of them wins.
//
// Issuer generates the identifiers. They are 256-bit random tokens encoded
// as URL-safe base64, wide enough that neither collisions nor brute-force
// guessing are a practical concern over the service's lifetime.
//
// Two Store implementations are provided: MongoStore for production, backed
// by a MongoDB collection with single-document atomicity, and MemoryStore
// for tests and local development.
package state
