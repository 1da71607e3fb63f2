package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose restricts which operation may consume a token. The set is
// closed: verification rejects any purpose claim outside these three.
type Purpose string

const (
	// PurposeSession authorizes bearer-token access to protected routes.
	PurposeSession Purpose = "session"
	// PurposeEmailVerification authorizes completing email verification.
	PurposeEmailVerification Purpose = "email_verification"
	// PurposePasswordReset authorizes completing a password reset.
	PurposePasswordReset Purpose = "password_reset"
)

func (p Purpose) known() bool {
	switch p {
	case PurposeSession, PurposeEmailVerification, PurposePasswordReset:
		return true
	}
	return false
}

// ErrInvalid is returned for every rejected token: bad signature,
// malformed structure, missing or unknown claims, expiry, or a purpose
// mismatch. Callers get no partial data about why.
var ErrInvalid = errors.New("token invalid")

// Config configures a Manager. Secret is required and shared by all
// purposes; it is read-only after construction.
type Config struct {
	Secret []byte
	Issuer string
	Leeway time.Duration
}

// Manager signs and verifies purpose-tagged HS256 tokens. It is
// immutable and safe for concurrent use.
type Manager struct {
	config Config
}

type purposeClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// NewManager validates the config and returns a Manager. A missing or
// short secret is a configuration error surfaced at startup.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("token secret must be at least 32 bytes")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg}, nil
}

// Issue signs a token for subject with the given purpose and ttl. The
// expiration is embedded in the token itself; nothing is persisted. A
// zero or negative ttl produces an already-expired token, which is
// occasionally useful in tests but never valid to verify.
func (m *Manager) Issue(subject string, purpose Purpose, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("empty subject")
	}
	if !purpose.known() {
		return "", errors.New("unknown token purpose")
	}

	now := time.Now()
	claims := purposeClaims{
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// Verify checks signature, structure, expiry, and the purpose claim, and
// returns the subject. Any failure collapses into ErrInvalid: callers
// must not be able to distinguish a forged token from an expired one.
func (m *Manager) Verify(tokenStr string, expected Purpose) (string, error) {
	if tokenStr == "" || !expected.known() {
		return "", ErrInvalid
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &purposeClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		return "", ErrInvalid
	}

	claims, ok := parsed.Claims.(*purposeClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalid
	}
	// The claim set is checked exhaustively: a token with a missing,
	// unknown, or mismatched purpose is rejected even when the signature
	// and expiry are fine.
	if !Purpose(claims.Purpose).known() || Purpose(claims.Purpose) != expected {
		return "", ErrInvalid
	}
	if claims.Subject == "" {
		return "", ErrInvalid
	}

	return claims.Subject, nil
}
