package providerfake

import (
	"context"
	"sync"

	"dashgate/provider"
)

var _ provider.Client = (*FakeProvider)(nil)

// FakeProvider is a scriptable in-memory provider for tests. The error
// fields, when set, are returned by the corresponding call.
type FakeProvider struct {
	lock sync.Mutex

	Tokens  provider.TokenSet
	Profile provider.UserProfile

	ExchangeErr error
	ProfileErr  error
	RevokeErr   error

	ExchangedCodes []string
	RevokedTokens  []provider.TokenSet
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Tokens: provider.TokenSet{
			AccessToken:  "fake-access-token",
			RefreshToken: "fake-refresh-token",
			ExpiresIn:    3600,
			TokenType:    "Bearer",
		},
		Profile: provider.UserProfile{
			ID:       "4242",
			Username: "test-user",
		},
	}
}

func (f *FakeProvider) AuthorizeURL(state string) string {
	return "https://provider.example/oauth2/authorize?state=" + state
}

func (f *FakeProvider) ExchangeCode(_ context.Context, code string) (provider.TokenSet, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.ExchangeErr != nil {
		return provider.TokenSet{}, f.ExchangeErr
	}
	f.ExchangedCodes = append(f.ExchangedCodes, code)
	return f.Tokens, nil
}

func (f *FakeProvider) FetchProfile(_ context.Context, _ provider.TokenSet) (provider.UserProfile, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.ProfileErr != nil {
		return provider.UserProfile{}, f.ProfileErr
	}
	return f.Profile, nil
}

func (f *FakeProvider) Refresh(_ context.Context, tokens provider.TokenSet) (provider.TokenSet, error) {
	if tokens.RefreshToken == "" {
		return tokens, nil
	}
	return f.Tokens, nil
}

func (f *FakeProvider) Revoke(_ context.Context, tokens provider.TokenSet) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.RevokedTokens = append(f.RevokedTokens, tokens)
	return f.RevokeErr
}
