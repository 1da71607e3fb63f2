package authcore

import (
	"context"
	"errors"

	"github.com/contactbook/authcore/token"
)

// BeginEmailVerification issues a fresh email-verification token for the
// principal and stores it in the pending-action slot, overwriting any
// prior pending token of either kind. The token is returned for delivery
// by the caller's email collaborator.
//
// A principal that is already Verified gets ErrAlreadyVerified; the
// Unverified -> Verified transition is one way and a verified account
// has nothing left to verify.
func (e *Engine) BeginEmailVerification(ctx context.Context, email string) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	p, err := e.store.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		mapped := mapStoreErr(err)
		e.emitAudit(ctx, auditEventVerificationRequest, false, nil, mapped, nil)
		return "", mapped
	}
	if p.State == Verified {
		e.emitAudit(ctx, auditEventVerificationRequest, false, p, ErrAlreadyVerified, nil)
		return "", ErrAlreadyVerified
	}

	verificationToken, err := e.tokens.Issue(p.Email, token.PurposeEmailVerification, e.config.Token.VerificationTTL)
	if err != nil {
		return "", err
	}

	p.Pending = PendingAction{Kind: PendingVerification, Token: verificationToken}
	if err := mapStoreErr(e.store.Update(ctx, p)); err != nil {
		e.emitAudit(ctx, auditEventVerificationRequest, false, p, err, nil)
		return "", err
	}

	e.emitAudit(ctx, auditEventVerificationRequest, true, p, nil, nil)
	return verificationToken, nil
}

// CompleteEmailVerification consumes a verification token: the principal
// transitions to Verified and the pending-action slot is cleared.
//
// Beyond signature, expiry, and purpose, the presented token must equal
// the stored pending-action token. A token superseded by a resend, or
// replayed after a successful verification already cleared the slot, is
// rejected with ErrTokenInvalid.
func (e *Engine) CompleteEmailVerification(ctx context.Context, verificationToken string) (*Principal, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	subject, err := e.tokens.Verify(verificationToken, token.PurposeEmailVerification)
	if err != nil {
		e.emitAudit(ctx, auditEventVerificationConfirm, false, nil, ErrTokenInvalid, map[string]string{"reason": "token_rejected"})
		return nil, ErrTokenInvalid
	}

	p, err := e.store.FindByEmail(ctx, subject)
	if err != nil {
		mapped := mapStoreErr(err)
		if errors.Is(mapped, ErrPrincipalNotFound) {
			e.emitAudit(ctx, auditEventVerificationConfirm, false, nil, ErrTokenInvalid, map[string]string{"reason": "no_principal"})
			return nil, ErrTokenInvalid
		}
		return nil, mapped
	}

	if p.Pending.Kind != PendingVerification || p.Pending.Token != verificationToken {
		e.emitAudit(ctx, auditEventVerificationConfirm, false, p, ErrTokenInvalid, map[string]string{"reason": "slot_mismatch"})
		return nil, ErrTokenInvalid
	}

	p.State = Verified
	p.Pending = PendingAction{}
	if err := mapStoreErr(e.store.Update(ctx, p)); err != nil {
		e.emitAudit(ctx, auditEventVerificationConfirm, false, p, err, nil)
		return nil, err
	}

	e.emitAudit(ctx, auditEventVerificationConfirm, true, p, nil, nil)
	return p, nil
}
