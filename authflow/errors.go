package authflow

import "errors"

var (
	// ErrStateMismatch means the callback state did not match the stored
	// CSRF nonce. Hard abort; never retried.
	ErrStateMismatch = errors.New("oauth state mismatch")

	// ErrMissingCode means the callback carried no authorization code.
	ErrMissingCode = errors.New("missing authorization code")

	// ErrProviderDenied means the provider reported an error before any
	// exchange was attempted (user declined, or provider-side failure).
	ErrProviderDenied = errors.New("provider denied authorization")

	// ErrAuthenticationFailed is the deliberately coarse error for any
	// token-exchange or profile-fetch failure. The exact provider failure
	// is not user-actionable, so it goes to the operator log only.
	ErrAuthenticationFailed = errors.New("authentication failed")
)
