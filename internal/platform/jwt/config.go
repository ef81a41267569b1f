package jwtmw

import (
	"os"
	"time"
)

// EnvKeyJWTSecret names the environment variable holding the HMAC secret for read-API tokens.
const EnvKeyJWTSecret = "JWT_SECRET"

const defaultTokenTTL = 30 * 24 * time.Hour

// LoadConfig reads JWT_SECRET and TOKEN_TTL. With an empty secret every guarded route answers 500.
func LoadConfig() (secret string, ttl time.Duration) {
	ttl = defaultTokenTTL
	if d, err := time.ParseDuration(os.Getenv("TOKEN_TTL")); err == nil && d > 0 {
		ttl = d
	}
	return os.Getenv(EnvKeyJWTSecret), ttl
}
