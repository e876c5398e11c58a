package provider

// TokenSet holds the credentials returned by the provider's token endpoint.
// A TokenSet is an immutable value: refreshing produces a new TokenSet, the
// old one is never modified in place.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	TokenType    string
	Raw          map[string]any // full provider payload, kept for forward compatibility
}

// BearerType returns the token type to use in Authorization headers,
// defaulting to "Bearer" when the provider omitted it.
func (t TokenSet) BearerType() string {
	if t.TokenType == "" {
		return "Bearer"
	}
	return t.TokenType
}

// UserProfile is the provider's view of the logged-in user. It is refetched
// on every login and never incrementally updated.
type UserProfile struct {
	ID            string
	Username      string
	Discriminator string
	Avatar        string
	Raw           map[string]any
}
