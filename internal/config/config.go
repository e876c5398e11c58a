package config

type Config interface {
	EnvConfig
	OAuthConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Sessions
}

// New builds the configuration and fails fast when any required OAuth
// setting is missing, rather than letting the login flow misbehave later.
func New() (Config, error) {
	c := mainConfig{}
	if err := c.OAuth.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
