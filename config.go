package authcore

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the engine. Zero values are not usable;
// start from DefaultConfig and override, or load with ConfigFromEnv.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Cache    CacheConfig
}

// TokenConfig configures the signing secret and per-purpose lifetimes.
// All three token purposes share one secret and algorithm; the purpose is
// a claim inside the token, never inferred from context.
type TokenConfig struct {
	// Secret is the process-wide HS256 signing secret, read-only after
	// initialization. At least 32 bytes.
	Secret []byte
	Issuer string

	SessionTTL      time.Duration
	VerificationTTL time.Duration
	ResetTTL        time.Duration

	// Leeway tolerates small clock skew during expiry checks.
	Leeway time.Duration
}

// PasswordConfig carries the argon2id parameters and the minimum accepted
// password length.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinLength   int
}

// CacheConfig configures the identity cache. TTL bounds how stale a
// cached principal snapshot may be: the engine never invalidates entries
// on write.
type CacheConfig struct {
	Prefix string
	TTL    time.Duration
}

// DefaultConfig returns the reference configuration: 30-minute sessions,
// 24-hour verification tokens, 10-minute reset tokens, a 15-minute
// identity cache, and moderate argon2id parameters. Token.Secret must
// still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			Issuer:          "authcore",
			SessionTTL:      30 * time.Minute,
			VerificationTTL: 24 * time.Hour,
			ResetTTL:        10 * time.Minute,
			Leeway:          30 * time.Second,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
			MinLength:   8,
		},
		Cache: CacheConfig{
			Prefix: "principal",
			TTL:    15 * time.Minute,
		},
	}
}

// Validate checks the configuration at build time. A missing or short
// signing secret is a fatal configuration error, never discovered at
// request time.
func (c Config) Validate() error {
	if len(c.Token.Secret) < 32 {
		return errors.New("token secret must be at least 32 bytes")
	}
	if c.Token.SessionTTL <= 0 || c.Token.VerificationTTL <= 0 || c.Token.ResetTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("token leeway out of range")
	}
	if c.Password.Memory == 0 || c.Password.Time == 0 || c.Password.Parallelism == 0 {
		return errors.New("argon2 parameters must be non-zero")
	}
	if c.Password.SaltLength < 16 || c.Password.KeyLength < 16 {
		return errors.New("argon2 salt and key must be at least 16 bytes")
	}
	if c.Password.MinLength < 8 {
		return errors.New("minimum password length must be at least 8")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache TTL must be positive")
	}
	if c.Cache.Prefix == "" {
		return errors.New("cache prefix required")
	}
	return nil
}

type envConfig struct {
	Secret          string        `env:"AUTHCORE_TOKEN_SECRET,required"`
	Issuer          string        `env:"AUTHCORE_TOKEN_ISSUER" envDefault:"authcore"`
	SessionTTL      time.Duration `env:"AUTHCORE_SESSION_TTL" envDefault:"30m"`
	VerificationTTL time.Duration `env:"AUTHCORE_VERIFICATION_TTL" envDefault:"24h"`
	ResetTTL        time.Duration `env:"AUTHCORE_RESET_TTL" envDefault:"10m"`
	CachePrefix     string        `env:"AUTHCORE_CACHE_PREFIX" envDefault:"principal"`
	CacheTTL        time.Duration `env:"AUTHCORE_CACHE_TTL" envDefault:"15m"`
	MinPassword     int           `env:"AUTHCORE_MIN_PASSWORD_LENGTH" envDefault:"8"`
}

// ConfigFromEnv loads a Config from AUTHCORE_* environment variables on
// top of DefaultConfig. The returned config is already validated.
func ConfigFromEnv() (Config, error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	cfg.Token.Secret = []byte(ec.Secret)
	cfg.Token.Issuer = ec.Issuer
	cfg.Token.SessionTTL = ec.SessionTTL
	cfg.Token.VerificationTTL = ec.VerificationTTL
	cfg.Token.ResetTTL = ec.ResetTTL
	cfg.Cache.Prefix = ec.CachePrefix
	cfg.Cache.TTL = ec.CacheTTL
	cfg.Password.MinLength = ec.MinPassword

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
