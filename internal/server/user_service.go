package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/jobconnect/internal/config"
	"github.com/jonathan/jobconnect/internal/db"
	"github.com/jonathan/jobconnect/internal/types"
)

// UserService provides business logic for user authentication operations
type UserService struct {
	store          Store
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store Store, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// Register creates a new account with a hashed password
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	accountType := req.AccountType
	if accountType == "" {
		accountType = types.AccountJobSeeker
	}

	user, err := s.store.CreateUser(ctx, &types.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		AccountType: accountType,
		Skills:      []types.Skill{},
	}, passwordHash)
	if err != nil {
		// Lost a race with a concurrent registration.
		var conflict *db.ConflictError
		if errors.As(err, &conflict) {
			return nil, &ErrEmailAlreadyExists{Email: email}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	user, passwordHash, err := s.store.GetUserCredentials(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Unknown email and wrong password are indistinguishable to the caller.
	if user == nil || passwordHash == "" {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, passwordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return user, nil
}

// CurrentUser loads the authenticated user. A token for a deleted account is unauthorized.
func (s *UserService) CurrentUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrUnauthorized{}
	}
	return user, nil
}

// UpdatePassword updates a user's password
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	currentHash, err := s.store.GetPasswordHash(ctx, userID)
	if err != nil {
		var notFound *db.NotFoundError
		if errors.As(err, &notFound) {
			return &ErrNotFound{Entity: "user", ID: userID.String()}
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, currentHash) {
		return &ErrPasswordMismatch{}
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.store.UpdatePassword(ctx, userID, newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
