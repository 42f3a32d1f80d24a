package credstore

import (
	"context"
	"time"
)

const redactedPlaceholder = "[redacted]"

// Record is a cached credential set from one successful code exchange.
type Record struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scope        string    `json:"scope"`
	ExpiresAt    time.Time `json:"expires_at"`
	ObtainedAt   time.Time `json:"obtained_at"`
}

// Redacted returns a copy safe for responses, notifications and logs:
// token values are replaced with placeholders, metadata is preserved.
func (r Record) Redacted() Record {
	out := r
	out.AccessToken = redactedPlaceholder
	if out.RefreshToken != "" {
		out.RefreshToken = redactedPlaceholder
	}
	return out
}

// Store caches the most recently exchanged credentials.
type Store interface {
	// Save replaces the cached credentials.
	Save(ctx context.Context, rec Record) error
	// Latest returns the cached credentials, or ErrNoCredentials.
	Latest(ctx context.Context) (*Record, error)
}
