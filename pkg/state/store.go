package state

import (
	"context"
	"time"
)

// Record is the unit persisted per issued state.
type Record struct {
	ID        string    `bson:"_id" json:"id"`
	Used      bool      `bson:"used" json:"used"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Store provides access to state records by identifier. It is the only
// shared mutable resource in the callback path; all mutation goes through it.
type Store interface {
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Put creates or overwrites the record. Used for initial issuance.
	Put(ctx context.Context, rec *Record) error

	// MarkUsed marks the record as used. Idempotent: a second call, or a
	// call for an absent identifier, is a no-op and never errors.
	MarkUsed(ctx context.Context, id string) error

	// TryConsume atomically transitions Used from false to true. It returns
	// true only for the caller that performed the transition; false when the
	// record is absent or already used. Concurrent callers racing on the
	// same identifier see exactly one true.
	TryConsume(ctx context.Context, id string) (bool, error)

	// IsEmpty reports whether no record has ever been persisted.
	IsEmpty(ctx context.Context) (bool, error)

	// FindOneUnused returns an arbitrary unconsumed record, or ErrNotFound.
	// Diagnostic use only; authorization decisions never rely on it.
	FindOneUnused(ctx context.Context) (*Record, error)
}
