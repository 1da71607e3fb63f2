// Package pgstore is the PostgreSQL implementation of
// authcore.PrincipalStore, backed by pgx. Row-level atomicity and the
// unique index on email provide the serialization and uniqueness
// guarantees the engine assumes. Account deletion removes the
// principal's contact records in the same transaction.
//
// Schema migrations are embedded and applied with goose via
// RunMigrations.
package pgstore
