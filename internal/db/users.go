package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobconnect/internal/types"
)

// -----------------------------------------------------------------------------
// User Methods
// -----------------------------------------------------------------------------

// CreateUser inserts a new account. A duplicate email yields a ConflictError.
func (db *DB) CreateUser(ctx context.Context, u *types.User, passwordHash string) (*types.User, error) {
	location, skills, prefs, company, err := encodeProfile(u)
	if err != nil {
		return nil, err
	}
	accountType := u.AccountType
	if accountType == "" {
		accountType = types.AccountJobSeeker
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, account_type, headline, bio,
		                    profile_picture, location, skills, job_preferences, company_info)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		u.Name, strings.ToLower(strings.TrimSpace(u.Email)), passwordHash, accountType,
		u.Headline, u.Bio, u.ProfilePicture, location, skills, prefs, company,
	).Scan(&id)
	if err != nil {
		return nil, mapWriteError(err, "user", "create")
	}
	return db.GetUser(ctx, id)
}

// GetUser retrieves a user by ID; it returns nil, nil when the user does not exist.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE LOWER(u.email) = LOWER($1)`,
		strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// GetUserCredentials returns the user and password hash for an email. Both are
// zero when the email is unknown.
func (db *DB) GetUserCredentials(ctx context.Context, email string) (*types.User, string, error) {
	var r userRow
	var hash string
	dest := append(r.dest(), &hash)
	err := db.pool.QueryRow(ctx,
		`SELECT `+userColumns+`, u.password_hash FROM users u WHERE LOWER(u.email) = LOWER($1)`,
		strings.TrimSpace(email),
	).Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to get credentials: %w", err)
	}
	u, err := r.build()
	if err != nil {
		return nil, "", err
	}
	return u, hash, nil
}

// GetPasswordHash returns the stored hash for a user.
func (db *DB) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	var hash string
	err := db.pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &NotFoundError{Entity: "user", ID: id.String()}
		}
		return "", fmt.Errorf("failed to get password hash: %w", err)
	}
	return hash, nil
}

// UpdatePassword replaces the stored password hash.
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "user", ID: id.String()}
	}
	return nil
}

// UpdateUser writes every editable profile field of u.
func (db *DB) UpdateUser(ctx context.Context, u *types.User) (*types.User, error) {
	location, skills, prefs, company, err := encodeProfile(u)
	if err != nil {
		return nil, err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET name = $1, account_type = $2, headline = $3, bio = $4,
		        profile_picture = $5, location = $6, skills = $7, job_preferences = $8,
		        company_info = $9, updated_at = NOW()
		 WHERE id = $10`,
		u.Name, u.AccountType, u.Headline, u.Bio, u.ProfilePicture,
		location, skills, prefs, company, u.ID)
	if err != nil {
		return nil, mapWriteError(err, "user", "update")
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "user", ID: u.ID.String()}
	}
	return db.GetUser(ctx, u.ID)
}

// DeleteUser removes an account; connections, jobs, applications, posts,
// likes and comments go with it.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "user", ID: id.String()}
	}
	return nil
}

// SearchUsers lists users matching the filters, newest first.
func (db *DB) SearchUsers(ctx context.Context, f types.UserFilters) ([]*types.User, error) {
	query, args := buildUserSearch(f)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	return users, nil
}

// ListSuggestionCandidates returns up to limit users who are not userID and
// share no connection edge of any status with userID.
func (db *DB) ListSuggestionCandidates(ctx context.Context, userID uuid.UUID, limit int) ([]*types.User, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users u
		 WHERE u.id <> $1
		   AND NOT EXISTS (
		       SELECT 1 FROM connections c
		        WHERE (c.requester_id = $1 AND c.recipient_id = u.id)
		           OR (c.recipient_id = $1 AND c.requester_id = u.id))
		 ORDER BY u.created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestion candidates: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan suggestion candidates: %w", err)
	}
	return users, nil
}

func encodeProfile(u *types.User) (location, skills, prefs, company []byte, err error) {
	if location, err = marshalJSON(u.Location); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode location: %w", err)
	}
	s := u.Skills
	if s == nil {
		s = []types.Skill{}
	}
	if skills, err = marshalJSON(s); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode skills: %w", err)
	}
	if prefs, err = marshalJSON(u.JobPreferences); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode job preferences: %w", err)
	}
	if company, err = marshalJSON(u.CompanyInfo); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode company info: %w", err)
	}
	return location, skills, prefs, company, nil
}
