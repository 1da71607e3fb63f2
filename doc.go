// Package authcore implements the authentication and credential-lifecycle
// core of a contact-management backend: password hashing, purpose-tagged
// signed tokens for login sessions, email verification and password reset,
// a read-through Redis identity cache in front of the durable principal
// store, and the verified-account gate that protected routes depend on.
//
// The package is framework-agnostic. Callers provide a [PrincipalStore]
// implementation (see the pgstore subpackage for PostgreSQL) and a Redis
// client, then build an [Engine]:
//
//	cfg := authcore.DefaultConfig()
//	cfg.Token.Secret = secret
//
//	engine, err := authcore.New().
//		WithConfig(cfg).
//		WithRedis(rdb).
//		WithStore(store).
//		Build()
//
// Every operation takes a context and returns sentinel errors from
// errors.go. Failure modes that could reveal whether an account exists are
// deliberately collapsed into [ErrInvalidCredentials] or [ErrUnauthorized];
// [ErrVerificationRequired] is the one user-distinguishable exception so
// clients can prompt for re-verification instead of re-login.
package authcore
