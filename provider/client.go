package provider

import "context"

// Client is the contract for all outbound calls to the identity provider.
// The flow controller depends on this interface only; the Discord
// implementation and the test fake both satisfy it.
type Client interface {
	// AuthorizeURL builds the provider authorize URL carrying the given
	// anti-CSRF state. Pure; persisting the state is the caller's job.
	AuthorizeURL(state string) string

	// ExchangeCode swaps a single-use authorization code for tokens.
	ExchangeCode(ctx context.Context, code string) (TokenSet, error)

	// FetchProfile loads the current user using the access token.
	FetchProfile(ctx context.Context, tokens TokenSet) (UserProfile, error)

	// Refresh returns the input unchanged when no refresh token is
	// present, otherwise performs a refresh grant.
	Refresh(ctx context.Context, tokens TokenSet) (TokenSet, error)

	// Revoke invalidates the tokens remotely, best effort.
	Revoke(ctx context.Context, tokens TokenSet) error
}
