package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	clientIDVar     = "DISCORD_CLIENT_ID"
	clientSecretVar = "DISCORD_CLIENT_SECRET"
	redirectURIVar  = "DISCORD_REDIRECT_URI"
	scopesVar       = "DISCORD_SCOPES"

	defaultAuthorizeURL = "https://discord.com/api/oauth2/authorize"
	defaultTokenURL     = "https://discord.com/api/oauth2/token"
	defaultRevokeURL    = "https://discord.com/api/oauth2/token/revoke"
	defaultUserInfoURL  = "https://discord.com/api/users/@me"
)

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetAuthorizeURL() string
	GetTokenURL() string
	GetRevokeURL() string
	GetUserInfoURL() string
	GetScopes() []string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetClientID() string {
	return os.Getenv(clientIDVar)
}

func (OAuth) GetClientSecret() string {
	return os.Getenv(clientSecretVar)
}

func (OAuth) GetRedirectURI() string {
	return os.Getenv(redirectURIVar)
}

func (OAuth) GetAuthorizeURL() string {
	return GetEnv("DISCORD_AUTHORIZE_URL", defaultAuthorizeURL)
}

func (OAuth) GetTokenURL() string {
	return GetEnv("DISCORD_TOKEN_URL", defaultTokenURL)
}

func (OAuth) GetRevokeURL() string {
	return GetEnv("DISCORD_REVOKE_URL", defaultRevokeURL)
}

func (OAuth) GetUserInfoURL() string {
	return GetEnv("DISCORD_USER_INFO_URL", defaultUserInfoURL)
}

func (OAuth) GetScopes() []string {
	return strings.Fields(GetEnv(scopesVar, "identify guilds"))
}

// Validate reports every missing required variable in one pass so a
// misconfigured deployment fails at startup with the full list.
func (o OAuth) Validate() error {
	var missing []string
	for _, v := range []string{clientIDVar, clientSecretVar, redirectURIVar} {
		if os.Getenv(v) == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
