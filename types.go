package authcore

import "context"

// VerificationState represents the account's email-verification state.
// The only legal transition is Unverified -> Verified.
type VerificationState uint8

const (
	// Unverified is the state of every freshly registered principal.
	Unverified VerificationState = iota
	// Verified is terminal; a principal never reverts to Unverified.
	Verified
)

// PendingKind tags the contents of a principal's pending-action slot.
type PendingKind uint8

const (
	// PendingNone means no verification or reset flow is outstanding.
	PendingNone PendingKind = iota
	// PendingVerification marks an outstanding email-verification token.
	PendingVerification
	// PendingReset marks an outstanding password-reset token.
	PendingReset
)

// PendingAction is the single outstanding verification-or-reset token
// associated with a principal. Issuing a new token of either kind
// overwrites the slot; completing the flow clears it. A principal never
// carries both a verification and a reset token at once.
type PendingAction struct {
	Kind  PendingKind
	Token string
}

// Principal is an end-user account. Email is unique across all principals
// and stored lower-cased. PasswordHash is a PHC-encoded argon2id digest,
// never plaintext.
type Principal struct {
	ID           string
	Email        string
	PasswordHash string
	State        VerificationState
	Pending      PendingAction
	DisplayName  string
	AvatarURL    string
}

// IsVerified reports whether the principal has completed email verification.
func (p *Principal) IsVerified() bool {
	return p != nil && p.State == Verified
}

// PrincipalStore is the durable credential store the engine reads and
// writes through. Implementations must enforce email uniqueness and
// provide per-row atomicity; the engine performs no cross-row
// coordination of its own.
//
// Lookups return [ErrPrincipalNotFound] when no row matches. Insert
// returns [ErrAccountExists] on a duplicate email. Delete removes the
// principal and cascades to every record it owns.
type PrincipalStore interface {
	FindByEmail(ctx context.Context, email string) (*Principal, error)
	FindByID(ctx context.Context, id string) (*Principal, error)
	Insert(ctx context.Context, p *Principal) error
	Update(ctx context.Context, p *Principal) error
	Delete(ctx context.Context, id string) error
}

// RegisterInput is the input for [Engine.Register].
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// RegisterResult is returned by [Engine.Register]. VerificationToken is
// handed to the caller's email-delivery collaborator; the engine never
// sends mail itself.
type RegisterResult struct {
	Principal         *Principal
	VerificationToken string
}
