// Package db provides PostgreSQL storage for users, connections, jobs, applications and posts.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// NotFoundError is returned when an update or delete matches no row.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ConflictError is returned when a write violates a unique constraint.
type ConflictError struct {
	Entity     string
	Constraint string
	Err        error
}

func (e *ConflictError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s already exists (%s)", e.Entity, e.Constraint)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// mapWriteError converts unique violations into ConflictError and wraps everything else.
func mapWriteError(err error, entity, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &ConflictError{Entity: entity, Constraint: pgErr.ConstraintName, Err: err}
	}
	return fmt.Errorf("failed to %s %s: %w", action, entity, err)
}

// rollback is deferred after Begin; it is a no-op once the transaction is committed.
func rollback(ctx context.Context, tx pgx.Tx) {
	_ = tx.Rollback(ctx)
}

// marshalJSON encodes a value for a JSONB column. Nil pointers become SQL NULL.
func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	return b, nil
}

// unmarshalJSON decodes a JSONB column, leaving dst untouched for NULL.
func unmarshalJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
