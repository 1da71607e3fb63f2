package authcore

import "errors"

var (
	// ErrInvalidCredentials is returned by Authenticate and Login for both
	// an unknown email and a wrong password. The two cases are deliberately
	// indistinguishable to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a bearer token fails signature,
	// structure, expiry, or purpose checks, or when its subject no longer
	// resolves to a principal.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrVerificationRequired is returned by RequireVerified for an
	// authenticated but unverified principal. It is distinct from
	// ErrUnauthorized so callers can prompt for re-verification rather
	// than re-login.
	ErrVerificationRequired = errors.New("email verification required")

	// ErrAccountExists is returned by Register when the email is taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrAlreadyVerified is returned when requesting a verification token
	// for a principal that is already verified.
	ErrAlreadyVerified = errors.New("account already verified")

	// ErrPrincipalNotFound is the store-level miss. It surfaces directly
	// from profile operations; authentication paths collapse it into
	// ErrInvalidCredentials or ErrUnauthorized.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrTokenInvalid covers every rejected verification or reset token:
	// bad signature, malformed, expired, wrong purpose, or superseded by a
	// newer pending-action token.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrPasswordPolicy is returned when a new password is shorter than
	// the configured minimum.
	ErrPasswordPolicy = errors.New("password policy violation")

	// ErrStoreUnavailable wraps transient credential-store and cache
	// failures. The engine does not retry; retry policy belongs to the
	// caller.
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrEngineNotReady is returned when an Engine is used before Build
	// wired its dependencies.
	ErrEngineNotReady = errors.New("engine not ready")
)
