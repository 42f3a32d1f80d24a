package callback

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/dmitrymomot/callbackd/pkg/state"
)

// StaticSecretCheck validates the deploy-time shared state secret. It is
// constructed with an explicit expected value instead of reading ambient
// process state, so multiple configurations can coexist in one process.
type StaticSecretCheck struct {
	expected string
}

// NewStaticSecretCheck creates the check for the given expected state.
func NewStaticSecretCheck(expected string) StaticSecretCheck {
	return StaticSecretCheck{expected: expected}
}

// Valid reports whether the request state matches the configured secret.
// An unset secret matches nothing.
func (c StaticSecretCheck) Valid(requestState string) bool {
	if c.expected == "" || requestState == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(requestState), []byte(c.expected)) == 1
}

// SingleUseCheck validates the request state against the persisted registry.
type SingleUseCheck struct {
	store state.Store
}

// NewSingleUseCheck creates the check over the given store.
func NewSingleUseCheck(store state.Store) SingleUseCheck {
	return SingleUseCheck{store: store}
}

// Check reports whether the request may proceed.
//
// ok is true while the registry is empty (bootstrap: only the static secret
// guards the flow) or when the state identifies an existing unused record.
// known is true only in the latter case, telling the caller there is a
// record to consume on success.
func (c SingleUseCheck) Check(ctx context.Context, requestState string) (ok, known bool, err error) {
	empty, err := c.store.IsEmpty(ctx)
	if err != nil {
		return false, false, err
	}
	if empty {
		return true, false, nil
	}

	rec, err := c.store.Get(ctx, requestState)
	if errors.Is(err, state.ErrNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if rec.Used {
		return false, false, nil
	}
	return true, true, nil
}
