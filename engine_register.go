package authcore

import (
	"context"
	"strings"

	"github.com/contactbook/authcore/token"
	"github.com/google/uuid"
)

// Register creates an Unverified principal and returns it together with a
// fresh email-verification token for the caller's email-delivery
// collaborator. Registration is the one boundary where a duplicate email
// is reported distinctly (ErrAccountExists); authentication paths never
// reveal account existence.
func (e *Engine) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		e.emitAudit(ctx, auditEventRegister, false, nil, ErrInvalidCredentials, map[string]string{"reason": "malformed_email"})
		return nil, ErrInvalidCredentials
	}
	if len(input.Password) < e.config.Password.MinLength {
		e.emitAudit(ctx, auditEventRegister, false, nil, ErrPasswordPolicy, nil)
		return nil, ErrPasswordPolicy
	}

	hash, err := e.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	verificationToken, err := e.tokens.Issue(email, token.PurposeEmailVerification, e.config.Token.VerificationTTL)
	if err != nil {
		return nil, err
	}

	p := &Principal{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		State:        Unverified,
		Pending:      PendingAction{Kind: PendingVerification, Token: verificationToken},
		DisplayName:  strings.TrimSpace(input.DisplayName),
	}

	if err := mapStoreErr(e.store.Insert(ctx, p)); err != nil {
		e.emitAudit(ctx, auditEventRegister, false, p, err, nil)
		return nil, err
	}

	e.emitAudit(ctx, auditEventRegister, true, p, nil, nil)
	return &RegisterResult{Principal: p, VerificationToken: verificationToken}, nil
}
