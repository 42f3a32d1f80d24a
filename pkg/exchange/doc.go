// Package exchange turns an authorization code into access credentials and
// an identity profile by calling the provider's token and profile endpoints.
//
// Errors are split by what the caller can do about them: transport failures
// wrap ErrNetwork (the legitimate user may retry), a non-2xx answer from the
// token endpoint becomes a *ProviderError carrying the provider's status and
// body, and profile lookup failures wrap ErrProfileFetch so the caller can
// degrade instead of voiding an otherwise valid exchange.
//
// All outbound calls are bounded by the configured timeout and fail closed
// rather than hang.
package exchange
