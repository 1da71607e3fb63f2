// Package token issues and verifies the signed, expiring, purpose-tagged
// tokens the engine uses for login sessions, email verification, and
// password reset. All three purposes share one HS256 secret; the purpose
// is a mandatory claim checked at verification time, so a long-lived
// session token can never be replayed as a password-reset token.
//
// Verification is a pure function of the token and the secret: a forged
// signature fails before any store lookup happens.
package token
