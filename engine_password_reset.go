package authcore

import (
	"context"
	"errors"

	"github.com/contactbook/authcore/token"
)

// BeginPasswordReset issues a password-reset token for the email, stores
// it in the pending-action slot, and returns it for delivery. When the
// email does not exist the call is a silent no-op returning an empty
// token and nil error, after a small delay, so "if it exists, an email
// was sent" holds without leaking account existence.
func (e *Engine) BeginPasswordReset(ctx context.Context, email string) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	email = normalizeEmail(email)
	p, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		mapped := mapStoreErr(err)
		if !errors.Is(mapped, ErrPrincipalNotFound) {
			return "", mapped
		}
		if err := sleepEnumerationDelay(ctx); err != nil {
			return "", err
		}
		e.emitAudit(ctx, auditEventResetRequest, true, nil, nil, map[string]string{"email": email, "noop": "unknown_email"})
		return "", nil
	}

	resetToken, err := e.tokens.Issue(p.Email, token.PurposePasswordReset, e.config.Token.ResetTTL)
	if err != nil {
		return "", err
	}

	// Overwrites an outstanding verification token as well: the slot
	// holds exactly one pending action.
	p.Pending = PendingAction{Kind: PendingReset, Token: resetToken}
	if err := mapStoreErr(e.store.Update(ctx, p)); err != nil {
		e.emitAudit(ctx, auditEventResetRequest, false, p, err, nil)
		return "", err
	}

	e.emitAudit(ctx, auditEventResetRequest, true, p, nil, nil)
	return resetToken, nil
}

// CompletePasswordReset consumes a reset token, replaces the password
// hash, and clears the pending-action slot. The presented token must
// match the stored pending reset token, so a superseded or already-used
// token is rejected.
func (e *Engine) CompletePasswordReset(ctx context.Context, resetToken, newPassword string) (*Principal, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	subject, err := e.tokens.Verify(resetToken, token.PurposePasswordReset)
	if err != nil {
		e.emitAudit(ctx, auditEventResetConfirm, false, nil, ErrTokenInvalid, map[string]string{"reason": "token_rejected"})
		return nil, ErrTokenInvalid
	}

	if len(newPassword) < e.config.Password.MinLength {
		e.emitAudit(ctx, auditEventResetConfirm, false, nil, ErrPasswordPolicy, nil)
		return nil, ErrPasswordPolicy
	}

	p, err := e.store.FindByEmail(ctx, subject)
	if err != nil {
		mapped := mapStoreErr(err)
		if errors.Is(mapped, ErrPrincipalNotFound) {
			e.emitAudit(ctx, auditEventResetConfirm, false, nil, ErrTokenInvalid, map[string]string{"reason": "no_principal"})
			return nil, ErrTokenInvalid
		}
		return nil, mapped
	}

	if p.Pending.Kind != PendingReset || p.Pending.Token != resetToken {
		e.emitAudit(ctx, auditEventResetConfirm, false, p, ErrTokenInvalid, map[string]string{"reason": "slot_mismatch"})
		return nil, ErrTokenInvalid
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	p.PasswordHash = hash
	p.Pending = PendingAction{}
	if err := mapStoreErr(e.store.Update(ctx, p)); err != nil {
		e.emitAudit(ctx, auditEventResetConfirm, false, p, err, nil)
		return nil, err
	}

	e.emitAudit(ctx, auditEventResetConfirm, true, p, nil, nil)
	return p, nil
}
