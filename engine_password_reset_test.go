package authcore

import (
	"context"
	"errors"
	"testing"
)

func TestPasswordResetFlow(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, newMemStore())
	ctx := context.Background()

	registerTestPrincipal(t, engine, "a@x.com", "correct-horse")

	resetToken, err := engine.BeginPasswordReset(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("BeginPasswordReset failed: %v", err)
	}
	if resetToken == "" {
		t.Fatal("expected a reset token for an existing email")
	}

	p, err := engine.CompletePasswordReset(ctx, resetToken, "brand-new-password")
	if err != nil {
		t.Fatalf("CompletePasswordReset failed: %v", err)
	}
	if p.Pending.Kind != PendingNone {
		t.Fatal("pending slot should be cleared after reset")
	}

	if _, err := engine.Authenticate(ctx, "a@x.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password still accepted after reset")
	}
	if _, err := engine.Authenticate(ctx, "a@x.com", "brand-new-password"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestBeginPasswordResetUnknownEmailSilentNoOp(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, newMemStore())

	token, err := engine.BeginPasswordReset(context.Background(), "missing@x.com")
	if err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if token != "" {
		t.Fatal("unknown email must not yield a token")
	}
}

func TestCompletePasswordResetRejectsSessionToken(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, newMemStore())
	ctx := context.Background()

	registerTestPrincipal(t, engine, "a@x.com", "correct-horse")
	session, err := engine.Login(ctx, "a@x.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// A long-lived session token must never be replayed as a short-lived
	// reset token.
	if _, err := engine.CompletePasswordReset(ctx, session, "brand-new-password"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestCompletePasswordResetReplayRejected(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, newMemStore())
	ctx := context.Background()

	registerTestPrincipal(t, engine, "a@x.com", "correct-horse")

	resetToken, err := engine.BeginPasswordReset(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("BeginPasswordReset failed: %v", err)
	}
	if _, err := engine.CompletePasswordReset(ctx, resetToken, "brand-new-password"); err != nil {
		t.Fatalf("first reset failed: %v", err)
	}

	if _, err := engine.CompletePasswordReset(ctx, resetToken, "yet-another-password"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("replay: got %v, want ErrTokenInvalid", err)
	}
}

func TestPasswordResetOverwritesPendingVerification(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, newMemStore())
	ctx := context.Background()

	res := registerTestPrincipal(t, engine, "a@x.com", "correct-horse")

	if _, err := engine.BeginPasswordReset(ctx, "a@x.com"); err != nil {
		t.Fatalf("BeginPasswordReset failed: %v", err)
	}

	// The single slot now holds the reset token; the registration's
	// verification token was clobbered and must no longer verify.
	if _, err := engine.CompleteEmailVerification(ctx, res.VerificationToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestCompletePasswordResetPolicy(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, newMemStore())
	ctx := context.Background()

	registerTestPrincipal(t, engine, "a@x.com", "correct-horse")
	resetToken, err := engine.BeginPasswordReset(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("BeginPasswordReset failed: %v", err)
	}

	if _, err := engine.CompletePasswordReset(ctx, resetToken, "tiny"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("got %v, want ErrPasswordPolicy", err)
	}
}
