package callback

import "github.com/dmitrymomot/callbackd/pkg/exchange"

// Kind classifies the terminal outcome of one callback request.
type Kind string

const (
	// KindSuccess is a valid first use: code exchanged, state rotated.
	KindSuccess Kind = "success"
	// KindConfigMismatch means the state did not match the deploy-time secret.
	KindConfigMismatch Kind = "config_mismatch"
	// KindProviderError means the provider redirected with an error parameter.
	KindProviderError Kind = "provider_error"
	// KindMissingCode means the request carried neither an error nor a code.
	KindMissingCode Kind = "missing_code"
	// KindReplayOrExpired means the state does not identify an unused record.
	KindReplayOrExpired Kind = "replay_or_expired"
	// KindNetworkError is a transport failure during the code exchange.
	KindNetworkError Kind = "network_error"
	// KindTokenExchangeFailed is a non-success answer from the token endpoint.
	KindTokenExchangeFailed Kind = "token_exchange_failed"
	// KindStoreFailure is a state registry failure; surfaced loudly because
	// an un-rotated or un-consumed state leaves the registry inconsistent.
	KindStoreFailure Kind = "store_failure"
)

// Outcome is the tagged result of one callback request. It carries enough
// context to render the HTTP response and the operator notification without
// revisiting the decision. Raw tokens never leave the Credentials field.
type Outcome struct {
	Kind Kind

	// State is the state presented by the request.
	State string
	// NewState is the rotated state identifier, set once rotation happened.
	NewState string
	// SuggestedState is a best-effort unused record id for replay diagnostics.
	SuggestedState string
	// CodePresent records whether the request carried an authorization code.
	CodePresent bool

	// Provider error parameters (KindProviderError).
	ProviderCode        string
	ProviderDescription string

	// Token endpoint answer (KindTokenExchangeFailed).
	ExchangeStatus int
	ExchangeBody   string

	// Granted credentials and identity (KindSuccess).
	Credentials *exchange.Credentials
	Profile     *exchange.Profile
	// ProfileDegraded is set when the profile lookup failed and the success
	// proceeded without identity fields.
	ProfileDegraded bool

	// Err is the underlying error for network and store failures.
	Err error
}
