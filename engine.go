package authcore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/contactbook/authcore/cache"
	"github.com/contactbook/authcore/password"
	"github.com/contactbook/authcore/token"
)

// Engine is the authentication gate. It resolves credentials and bearer
// tokens into principals and drives the verification and password-reset
// lifecycles. Build one with [New]; a built Engine is immutable and safe
// for concurrent use, since all durable mutation is delegated to the
// store's own row-level atomicity.
type Engine struct {
	config Config
	store  PrincipalStore
	cache  *cache.Identity
	tokens *token.Manager
	hasher *password.Hasher
	audit  AuditSink

	// decoyHash is compared against when an email does not exist, so an
	// unknown-email login costs the same as a wrong-password login.
	decoyHash string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (e *Engine) ready() error {
	if e == nil || e.store == nil || e.cache == nil || e.tokens == nil || e.hasher == nil {
		return ErrEngineNotReady
	}
	return nil
}

// mapStoreErr passes through the sentinels a store is allowed to return
// and wraps anything else (connectivity, constraint machinery) as a
// transient failure.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrPrincipalNotFound), errors.Is(err, ErrAccountExists):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, p *Principal, opErr error, metadata map[string]string) {
	if e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Success:   success,
		Metadata:  metadata,
	}
	if p != nil {
		event.PrincipalID = p.ID
		event.Email = p.Email
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	e.audit.Emit(ctx, event)
}

// sleepEnumerationDelay adds 80-120ms of jitter to flows that would
// otherwise return faster for nonexistent emails than for real ones.
func sleepEnumerationDelay(ctx context.Context) error {
	jitter, err := rand.Int(rand.Reader, big.NewInt(40))
	if err != nil {
		jitter = big.NewInt(0)
	}
	delay := 80*time.Millisecond + time.Duration(jitter.Int64())*time.Millisecond

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func toSnapshot(p *Principal) *cache.Snapshot {
	return &cache.Snapshot{
		ID:           p.ID,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Verified:     p.State == Verified,
		PendingKind:  uint8(p.Pending.Kind),
		PendingToken: p.Pending.Token,
		DisplayName:  p.DisplayName,
		AvatarURL:    p.AvatarURL,
	}
}

func fromSnapshot(s *cache.Snapshot) *Principal {
	state := Unverified
	if s.Verified {
		state = Verified
	}
	return &Principal{
		ID:           s.ID,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		State:        state,
		Pending:      PendingAction{Kind: PendingKind(s.PendingKind), Token: s.PendingToken},
		DisplayName:  s.DisplayName,
		AvatarURL:    s.AvatarURL,
	}
}
