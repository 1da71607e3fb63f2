package authcore

import (
	"context"
	"errors"

	"github.com/contactbook/authcore/cache"
	"github.com/contactbook/authcore/token"
)

// Authenticate checks email+password against the credential store,
// bypassing the identity cache so a freshly changed password hash is
// always the one verified. An unknown email and a wrong password yield
// the identical ErrInvalidCredentials.
func (e *Engine) Authenticate(ctx context.Context, email, pass string) (*Principal, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	p, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if mapped := mapStoreErr(err); !errors.Is(mapped, ErrPrincipalNotFound) {
			return nil, mapped
		}
		// Burn a hash comparison so an unknown email takes as long as a
		// wrong password.
		e.hasher.Verify(pass, e.decoyHash)
		e.emitAudit(ctx, auditEventLogin, false, nil, ErrInvalidCredentials, map[string]string{"email": email})
		return nil, ErrInvalidCredentials
	}

	if !e.hasher.Verify(pass, p.PasswordHash) {
		e.emitAudit(ctx, auditEventLogin, false, p, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	return p, nil
}

// Login authenticates and issues a session token with the configured
// session TTL.
func (e *Engine) Login(ctx context.Context, email, pass string) (string, error) {
	p, err := e.Authenticate(ctx, email, pass)
	if err != nil {
		return "", err
	}

	sessionToken, err := e.tokens.Issue(p.Email, token.PurposeSession, e.config.Token.SessionTTL)
	if err != nil {
		return "", err
	}

	e.emitAudit(ctx, auditEventLogin, true, p, nil, nil)
	return sessionToken, nil
}

// ResolveBearer validates a session token and resolves its subject
// through the identity cache, falling back to the credential store on a
// miss. Token validity and principal existence are checked independently:
// a structurally valid token whose subject no longer exists still fails
// as unauthenticated. The snapshot may be up to the cache TTL stale.
func (e *Engine) ResolveBearer(ctx context.Context, bearer string) (*Principal, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	subject, err := e.tokens.Verify(bearer, token.PurposeSession)
	if err != nil {
		e.emitAudit(ctx, auditEventBearerResolve, false, nil, ErrUnauthorized, map[string]string{"reason": "token_rejected"})
		return nil, ErrUnauthorized
	}

	snap, err := e.cache.GetOrLoad(ctx, subject, func(ctx context.Context, email string) (*cache.Snapshot, error) {
		p, err := e.store.FindByEmail(ctx, email)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		return toSnapshot(p), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPrincipalNotFound):
			e.emitAudit(ctx, auditEventBearerResolve, false, nil, ErrUnauthorized, map[string]string{"reason": "no_principal", "email": subject})
			return nil, ErrUnauthorized
		case errors.Is(err, cache.ErrUnavailable):
			return nil, ErrStoreUnavailable
		default:
			return nil, err
		}
	}

	p := fromSnapshot(snap)
	e.emitAudit(ctx, auditEventBearerResolve, true, p, nil, nil)
	return p, nil
}

// RequireVerified passes a Verified principal through and rejects an
// Unverified one with ErrVerificationRequired, which callers must keep
// distinguishable from ErrUnauthorized.
func (e *Engine) RequireVerified(p *Principal) (*Principal, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	if p.State != Verified {
		return nil, ErrVerificationRequired
	}
	return p, nil
}
