package exchange

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork indicates a transport-level failure talking to the provider.
	ErrNetwork = errors.New("network error calling identity provider")
	// ErrProfileFetch indicates the profile lookup failed. Recoverable: the
	// caller proceeds without profile fields.
	ErrProfileFetch = errors.New("failed to fetch provider profile")
)

// ProviderError is a non-success answer from the provider's token endpoint.
// Status and Body are surfaced to the operator verbatim.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("token exchange failed: status=%d body=%s", e.Status, e.Body)
}
