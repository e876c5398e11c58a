package provider

import "errors"

var (
	// ErrTokenExchange covers every failure mode of the code exchange:
	// non-2xx responses, malformed payloads and transport errors. Callers
	// cannot tell "bad code" from "provider unreachable" and must not
	// retry, since authorization codes are single-use.
	ErrTokenExchange = errors.New("token exchange failed")

	// ErrProfileFetch is returned when the user-info call fails.
	ErrProfileFetch = errors.New("profile fetch failed")

	// ErrNoRefreshToken is returned when a refresh grant is attempted
	// without a refresh token.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrRevoke is returned for failed revocations. Callers treat it as
	// non-fatal: logout succeeds locally regardless.
	ErrRevoke = errors.New("token revocation failed")
)
