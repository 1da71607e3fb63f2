package authcore

import (
	"context"
	"strings"
)

// ChangePassword replaces the principal's password hash after verifying
// the current password. Unlike the reset flow it requires possession of
// the old credential, not an emailed token.
func (e *Engine) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) (*Principal, error) {
	p, err := e.Authenticate(ctx, email, oldPassword)
	if err != nil {
		return nil, err
	}

	if len(newPassword) < e.config.Password.MinLength {
		e.emitAudit(ctx, auditEventPasswordChange, false, p, ErrPasswordPolicy, nil)
		return nil, ErrPasswordPolicy
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	p.PasswordHash = hash
	if err := mapStoreErr(e.store.Update(ctx, p)); err != nil {
		e.emitAudit(ctx, auditEventPasswordChange, false, p, err, nil)
		return nil, err
	}

	e.emitAudit(ctx, auditEventPasswordChange, true, p, nil, nil)
	return p, nil
}

// UpdateAvatar stores a new avatar reference on the principal. The image
// itself lives with the upload collaborator; only its URL is recorded.
// The cached identity snapshot is not invalidated and may serve the old
// avatar for up to the cache TTL.
func (e *Engine) UpdateAvatar(ctx context.Context, email, avatarURL string) (*Principal, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	avatarURL = strings.TrimSpace(avatarURL)
	p, err := e.store.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, mapStoreErr(err)
	}

	p.AvatarURL = avatarURL
	if err := mapStoreErr(e.store.Update(ctx, p)); err != nil {
		e.emitAudit(ctx, auditEventAvatarUpdate, false, p, err, nil)
		return nil, err
	}

	e.emitAudit(ctx, auditEventAvatarUpdate, true, p, nil, nil)
	return p, nil
}

// DeleteAccount removes the principal and, through the store's cascade,
// every record it owns. The cached identity snapshot is left to expire
// on its own TTL, consistent with the cache's no-invalidation contract.
func (e *Engine) DeleteAccount(ctx context.Context, id string) error {
	if err := e.ready(); err != nil {
		return err
	}

	p, err := e.store.FindByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}

	if err := mapStoreErr(e.store.Delete(ctx, p.ID)); err != nil {
		e.emitAudit(ctx, auditEventAccountDelete, false, p, err, nil)
		return err
	}

	e.emitAudit(ctx, auditEventAccountDelete, true, p, nil, nil)
	return nil
}
