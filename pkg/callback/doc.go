// Package callback implements the decision tree for inbound OAuth callback
// requests and the end-to-end protocol around it.
//
// An inbound request carries {code, state, error, error_description}. Two
// composable predicates guard it: StaticSecretCheck compares the state
// against the deploy-time shared secret (defeats cross-deployment replay),
// and SingleUseCheck requires the state to identify an existing unused
// record once the registry has been bootstrapped (defeats same-deployment
// replay). Both must hold; before bootstrap only the static check applies.
//
// The Service orchestrates an accepted request: it rotates to a fresh state
// record before the exchange (the consumed state must never be valid again),
// exchanges the code, fetches the profile (degrading to empty identity
// fields when that fails), caches the credentials and atomically consumes
// the presented state. Consumption is a single compare-and-swap on the
// record, so of two concurrent callbacks presenting the same state at most
// one succeeds; the other observes a replay. A transport failure during the
// exchange leaves the state unconsumed and retryable.
//
// Every request ends in exactly one tagged Outcome, reported once to the
// Notifier and rendered once as an HTTP response. Notification failures
// never change an already-decided outcome.
package callback
