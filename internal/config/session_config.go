package config

import (
	"os"
	"time"
)

type SessionConfig interface {
	GetRedisURL() string
	GetSessionTTL() time.Duration
}

type Sessions struct{}

var _ SessionConfig = Sessions{}

// GetRedisURL returns the Redis connection URL. Empty means sessions are
// kept in process memory, which is only suitable for a single instance.
func (Sessions) GetRedisURL() string {
	return os.Getenv("REDIS_URL")
}

func (Sessions) GetSessionTTL() time.Duration {
	ttl, err := time.ParseDuration(GetEnv("SESSION_TTL", "168h"))
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return ttl
}
