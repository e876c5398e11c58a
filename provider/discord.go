package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

const (
	// requestTimeout bounds every provider call so a slow or unreachable
	// provider cannot hang the login flow.
	requestTimeout = 10 * time.Second

	// missingUsername is substituted when the provider omits the username
	// rather than failing the whole login.
	missingUsername = "unknown"
)

// Options carries everything needed to talk to the provider. All fields are
// required; they come from configuration, validated at startup.
type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthorizeURL string
	TokenURL     string
	RevokeURL    string
	UserInfoURL  string
	Scopes       []string
}

// DiscordClient implements Client against a Discord-shaped OAuth2 API.
// Authorize URL construction, code exchange and the refresh grant go through
// golang.org/x/oauth2; the user-info and revocation endpoints are plain HTTP.
type DiscordClient struct {
	oauth       *oauth2.Config
	httpClient  *resty.Client
	tokenClient *http.Client
	userInfoURL string
	revokeURL   string
}

var _ Client = (*DiscordClient)(nil)

func NewDiscordClient(opts Options) *DiscordClient {
	return &DiscordClient{
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURI,
			Scopes:       opts.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   opts.AuthorizeURL,
				TokenURL:  opts.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient:  resty.New().SetTimeout(requestTimeout),
		tokenClient: &http.Client{Timeout: requestTimeout},
		userInfoURL: opts.UserInfoURL,
		revokeURL:   opts.RevokeURL,
	}
}

func (d *DiscordClient) AuthorizeURL(state string) string {
	return d.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent"))
}

func (d *DiscordClient) ExchangeCode(ctx context.Context, code string) (TokenSet, error) {
	tok, err := d.oauth.Exchange(d.oauthContext(ctx), code)
	if err != nil {
		return TokenSet{}, fmt.Errorf("%w: %s", ErrTokenExchange, err)
	}
	if tok.AccessToken == "" {
		return TokenSet{}, fmt.Errorf("%w: response missing access_token", ErrTokenExchange)
	}
	return tokenSetFrom(tok, ""), nil
}

func (d *DiscordClient) FetchProfile(ctx context.Context, tokens TokenSet) (UserProfile, error) {
	raw := map[string]any{}
	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", tokens.BearerType()+" "+tokens.AccessToken).
		SetResult(&raw).
		Get(d.userInfoURL)
	if err != nil {
		return UserProfile{}, fmt.Errorf("%w: %s", ErrProfileFetch, err)
	}
	if resp.IsError() {
		return UserProfile{}, fmt.Errorf("%w: provider returned %s", ErrProfileFetch, resp.Status())
	}

	id, _ := raw["id"].(string)
	if id == "" {
		return UserProfile{}, fmt.Errorf("%w: response missing user id", ErrProfileFetch)
	}
	username, _ := raw["username"].(string)
	if username == "" {
		username = missingUsername
	}
	discriminator, _ := raw["discriminator"].(string)
	avatar, _ := raw["avatar"].(string)

	return UserProfile{
		ID:            id,
		Username:      username,
		Discriminator: discriminator,
		Avatar:        avatar,
		Raw:           raw,
	}, nil
}

func (d *DiscordClient) Refresh(ctx context.Context, tokens TokenSet) (TokenSet, error) {
	if tokens.RefreshToken == "" {
		return tokens, nil
	}
	return d.refreshGrant(ctx, tokens)
}

func (d *DiscordClient) refreshGrant(ctx context.Context, tokens TokenSet) (TokenSet, error) {
	if tokens.RefreshToken == "" {
		return TokenSet{}, ErrNoRefreshToken
	}
	src := d.oauth.TokenSource(d.oauthContext(ctx), &oauth2.Token{RefreshToken: tokens.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return TokenSet{}, fmt.Errorf("%w: %s", ErrTokenExchange, err)
	}
	refreshed := tokenSetFrom(tok, tokens.RefreshToken)
	if refreshed.TokenType == "" {
		refreshed.TokenType = tokens.TokenType
	}
	return refreshed, nil
}

// Revoke invalidates the refresh token and the access token, each with its
// token_type_hint. Failures are reported but never block a local logout.
func (d *DiscordClient) Revoke(ctx context.Context, tokens TokenSet) error {
	var errs []error
	if tokens.RefreshToken != "" {
		errs = append(errs, d.revokeToken(ctx, tokens.RefreshToken, "refresh_token"))
	}
	if tokens.AccessToken != "" {
		errs = append(errs, d.revokeToken(ctx, tokens.AccessToken, "access_token"))
	}
	return errors.Join(errs...)
}

func (d *DiscordClient) revokeToken(ctx context.Context, token, hint string) error {
	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"token":           token,
			"token_type_hint": hint,
			"client_id":       d.oauth.ClientID,
			"client_secret":   d.oauth.ClientSecret,
		}).
		Post(d.revokeURL)
	if err != nil {
		return fmt.Errorf("%w (%s): %s", ErrRevoke, hint, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w (%s): provider returned %s", ErrRevoke, hint, resp.Status())
	}
	return nil
}

// oauthContext injects a timeout-bounded HTTP client for x/oauth2 calls.
func (d *DiscordClient) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, d.tokenClient)
}

func tokenSetFrom(tok *oauth2.Token, fallbackRefresh string) TokenSet {
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = fallbackRefresh
	}
	return TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn(tok),
		TokenType:    tok.TokenType,
	}
}

// expiresIn recovers the expires_in hint from the token response; the
// oauth2 package only exposes it as an extra field or an absolute expiry.
func expiresIn(tok *oauth2.Token) int64 {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	if !tok.Expiry.IsZero() {
		return int64(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	return 0
}
