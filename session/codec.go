package session

import (
	"context"
	"encoding/json"
	"fmt"

	"dashgate/provider"
)

// Session field keys. The repo treats them as opaque.
const (
	keyOAuthState = "oauth_state"
	keyAfterLogin = "after_login"
	keyTokens     = "tokens"
	keyUser       = "user"
)

// storedTokens is the serialization boundary for TokenSet: only the
// JSON-safe scalar fields the rest of the system consumes are persisted,
// the raw provider payload is dropped to keep sessions small.
type storedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type"`
}

type storedUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
}

// Codec exposes the typed session fields over the opaque Repo: the token
// set, the user profile, and the two single-use fields (oauth_state,
// after_login).
type Codec struct {
	id   string
	repo Repo
}

func NewCodec(repo Repo, sessionID string) *Codec {
	return &Codec{id: sessionID, repo: repo}
}

func (c *Codec) ID() string {
	return c.id
}

// SaveLogin persists the token set and profile together. On a partial
// failure the already-written half is rolled back so the session is never
// left half-authenticated.
func (c *Codec) SaveLogin(ctx context.Context, tokens provider.TokenSet, user provider.UserProfile) error {
	tokenDoc, err := json.Marshal(storedTokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.BearerType(),
	})
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	userDoc, err := json.Marshal(storedUser{
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Avatar:        user.Avatar,
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	if err := c.repo.Put(ctx, c.id, keyTokens, string(tokenDoc)); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	if err := c.repo.Put(ctx, c.id, keyUser, string(userDoc)); err != nil {
		_, _, _ = c.repo.PopOnce(ctx, c.id, keyTokens)
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

func (c *Codec) Tokens(ctx context.Context) (provider.TokenSet, bool, error) {
	doc, ok, err := c.repo.Get(ctx, c.id, keyTokens)
	if err != nil || !ok {
		return provider.TokenSet{}, false, err
	}

	var stored storedTokens
	if err := json.Unmarshal([]byte(doc), &stored); err != nil {
		return provider.TokenSet{}, false, fmt.Errorf("unmarshal tokens: %w", err)
	}
	raw := map[string]any{}
	_ = json.Unmarshal([]byte(doc), &raw)

	return provider.TokenSet{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		ExpiresIn:    stored.ExpiresIn,
		TokenType:    stored.TokenType,
		Raw:          raw,
	}, true, nil
}

func (c *Codec) User(ctx context.Context) (provider.UserProfile, bool, error) {
	doc, ok, err := c.repo.Get(ctx, c.id, keyUser)
	if err != nil || !ok {
		return provider.UserProfile{}, false, err
	}

	var stored storedUser
	if err := json.Unmarshal([]byte(doc), &stored); err != nil {
		return provider.UserProfile{}, false, fmt.Errorf("unmarshal user: %w", err)
	}
	raw := map[string]any{}
	_ = json.Unmarshal([]byte(doc), &raw)

	return provider.UserProfile{
		ID:            stored.ID,
		Username:      stored.Username,
		Discriminator: stored.Discriminator,
		Avatar:        stored.Avatar,
		Raw:           raw,
	}, true, nil
}

// Authenticated reports whether the session holds a complete login: both a
// user profile and a token set.
func (c *Codec) Authenticated(ctx context.Context) bool {
	if _, ok, err := c.User(ctx); err != nil || !ok {
		return false
	}
	tokens, ok, err := c.Tokens(ctx)
	return err == nil && ok && tokens.AccessToken != ""
}

func (c *Codec) SetOAuthState(ctx context.Context, state string) error {
	return c.repo.Put(ctx, c.id, keyOAuthState, state)
}

// PopOAuthState reads and clears the CSRF state in one step, so a replayed
// callback can never match a previously consumed value.
func (c *Codec) PopOAuthState(ctx context.Context) (string, bool, error) {
	return c.repo.PopOnce(ctx, c.id, keyOAuthState)
}

func (c *Codec) SetAfterLogin(ctx context.Context, path string) error {
	return c.repo.Put(ctx, c.id, keyAfterLogin, path)
}

func (c *Codec) ClearAfterLogin(ctx context.Context) error {
	_, _, err := c.repo.PopOnce(ctx, c.id, keyAfterLogin)
	return err
}

func (c *Codec) PopAfterLogin(ctx context.Context) (string, bool, error) {
	return c.repo.PopOnce(ctx, c.id, keyAfterLogin)
}

func (c *Codec) Clear(ctx context.Context) error {
	return c.repo.ClearAll(ctx, c.id)
}
