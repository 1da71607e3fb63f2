package authcore

import (
	"testing"
	"time"
)

func TestDefaultConfigTTLs(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Token.SessionTTL != 30*time.Minute {
		t.Fatalf("session TTL = %v", cfg.Token.SessionTTL)
	}
	if cfg.Token.VerificationTTL != 24*time.Hour {
		t.Fatalf("verification TTL = %v", cfg.Token.VerificationTTL)
	}
	if cfg.Token.ResetTTL != 10*time.Minute {
		t.Fatalf("reset TTL = %v", cfg.Token.ResetTTL)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Fatalf("cache TTL = %v", cfg.Cache.TTL)
	}
}

func TestConfigValidate(t *testing.T) {
	base := DefaultConfig()
	base.Token.Secret = testSecret

	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.Token.Secret = nil }},
		{"short secret", func(c *Config) { c.Token.Secret = []byte("short") }},
		{"zero session TTL", func(c *Config) { c.Token.SessionTTL = 0 }},
		{"negative reset TTL", func(c *Config) { c.Token.ResetTTL = -time.Minute }},
		{"excess leeway", func(c *Config) { c.Token.Leeway = 5 * time.Minute }},
		{"zero argon2 memory", func(c *Config) { c.Password.Memory = 0 }},
		{"short salt", func(c *Config) { c.Password.SaltLength = 8 }},
		{"weak min password", func(c *Config) { c.Password.MinLength = 4 }},
		{"zero cache TTL", func(c *Config) { c.Cache.TTL = 0 }},
		{"empty cache prefix", func(c *Config) { c.Cache.Prefix = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("AUTHCORE_TOKEN_SECRET", string(testSecret))
	t.Setenv("AUTHCORE_SESSION_TTL", "45m")
	t.Setenv("AUTHCORE_CACHE_TTL", "5m")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	if cfg.Token.SessionTTL != 45*time.Minute {
		t.Fatalf("session TTL = %v", cfg.Token.SessionTTL)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("cache TTL = %v", cfg.Cache.TTL)
	}
	// Unset knobs keep their defaults.
	if cfg.Token.VerificationTTL != 24*time.Hour {
		t.Fatalf("verification TTL = %v", cfg.Token.VerificationTTL)
	}
}

func TestConfigFromEnvMissingSecret(t *testing.T) {
	t.Setenv("AUTHCORE_TOKEN_SECRET", "")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for missing secret")
	}
}
