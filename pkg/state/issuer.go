package state

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// Issuer generates fresh state identifiers and persists their records.
type Issuer struct {
	store Store
}

// NewIssuer creates an issuer writing through the given store.
func NewIssuer(store Store) *Issuer {
	return &Issuer{store: store}
}

// Generate produces a fresh 256-bit random identifier encoded as URL-safe
// base64. The identifier space makes both collisions and brute-force
// guessing negligible over the service's operational lifetime.
func (i *Issuer) Generate() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrGenerateID, err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Issue generates an identifier, persists an unused record for it and
// returns the record.
func (i *Issuer) Issue(ctx context.Context) (*Record, error) {
	id, err := i.Generate()
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:        id,
		Used:      false,
		CreatedAt: time.Now().UTC(),
	}
	if err := i.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist state record: %w", err)
	}
	return rec, nil
}
