package auth

import (
	"os"
	"strconv"
	"time"
)

const defaultSecretKey = "dev-secret"

// Config holds token and login settings read once at startup.
type Config struct {
	SecretKey          string
	TokenTTL           time.Duration
	LoginRatePerMinute int
	LoginBurst         int
	Hasher             HasherConfig
}

// ConfigFromEnv reads AUTH_SECRET_KEY, ACCESS_TOKEN_EXPIRE_MINUTES,
// LOGIN_RATE_PER_MINUTE and the ARGON2_* cost settings.
func ConfigFromEnv() Config {
	secret := os.Getenv("AUTH_SECRET_KEY")
	if secret == "" {
		secret = defaultSecretKey
	}
	ttl := 30 * time.Minute
	if v := envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 0); v > 0 {
		ttl = time.Duration(v) * time.Minute
	}
	rate := envInt("LOGIN_RATE_PER_MINUTE", 10)
	return Config{
		SecretKey:          secret,
		TokenTTL:           ttl,
		LoginRatePerMinute: rate,
		LoginBurst:         max(rate/2, 1),
		Hasher:             HasherConfigFromEnv(),
	}
}

// UsesDefaultSecret reports whether tokens are signed with the built-in
// development secret.
func (c Config) UsesDefaultSecret() bool { return c.SecretKey == defaultSecretKey }

// HasherConfigFromEnv reads ARGON2_MEMORY_KIB, ARGON2_TIME and ARGON2_THREADS
// on top of DefaultHasherConfig.
func HasherConfigFromEnv() HasherConfig {
	cfg := DefaultHasherConfig()
	if v := envInt("ARGON2_MEMORY_KIB", 0); v > 0 {
		cfg.Memory = uint32(v)
	}
	if v := envInt("ARGON2_TIME", 0); v > 0 {
		cfg.Time = uint32(v)
	}
	if v := envInt("ARGON2_THREADS", 0); v > 0 && v <= 255 {
		cfg.Threads = uint8(v)
	}
	return cfg
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
