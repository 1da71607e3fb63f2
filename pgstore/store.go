package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/contactbook/authcore"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code raised when the unique
// index on principals.email rejects an insert.
const uniqueViolation = "23505"

// Store implements authcore.PrincipalStore over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ authcore.PrincipalStore = (*Store)(nil)

// New creates a Store. The pool's lifecycle belongs to the caller.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const principalColumns = `id, email, password_hash, verified, pending_kind, pending_token, display_name, avatar_url`

func scanPrincipal(row pgx.Row) (*authcore.Principal, error) {
	var (
		p           authcore.Principal
		verified    bool
		pendingKind int16
	)
	err := row.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &verified,
		&pendingKind, &p.Pending.Token, &p.DisplayName, &p.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, authcore.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if verified {
		p.State = authcore.Verified
	}
	p.Pending.Kind = authcore.PendingKind(pendingKind)
	return &p, nil
}

// FindByEmail returns the principal with the given email, or
// authcore.ErrPrincipalNotFound.
func (s *Store) FindByEmail(ctx context.Context, email string) (*authcore.Principal, error) {
	query := `SELECT ` + principalColumns + ` FROM principals WHERE email = $1`
	return scanPrincipal(s.pool.QueryRow(ctx, query, email))
}

// FindByID returns the principal with the given id, or
// authcore.ErrPrincipalNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*authcore.Principal, error) {
	query := `SELECT ` + principalColumns + ` FROM principals WHERE id = $1`
	return scanPrincipal(s.pool.QueryRow(ctx, query, id))
}

// Insert persists a new principal, generating an ID when one is not set.
// A duplicate email maps to authcore.ErrAccountExists.
func (s *Store) Insert(ctx context.Context, p *authcore.Principal) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO principals (id, email, password_hash, verified, pending_kind, pending_token, display_name, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.State == authcore.Verified,
		int16(p.Pending.Kind), p.Pending.Token, p.DisplayName, p.AvatarURL,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return authcore.ErrAccountExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of the principal row.
func (s *Store) Update(ctx context.Context, p *authcore.Principal) error {
	query := `
		UPDATE principals
		SET email = $2, password_hash = $3, verified = $4, pending_kind = $5,
		    pending_token = $6, display_name = $7, avatar_url = $8, updated_at = now()
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.State == authcore.Verified,
		int16(p.Pending.Kind), p.Pending.Token, p.DisplayName, p.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authcore.ErrPrincipalNotFound
	}
	return nil
}

// Delete removes the principal and its contact records in one
// transaction, so a half-deleted account is never observable.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM contacts WHERE owner_id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM principals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authcore.ErrPrincipalNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
