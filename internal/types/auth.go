// Package types provides type definitions for structured data used throughout the jobconnect service.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// CreateUserRequest represents the request to register a new account.
type CreateUserRequest struct {
	Name        string      `json:"name" validate:"required,min=1,max=100"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=8,max=72"`
	AccountType AccountType `json:"accountType" validate:"omitempty,oneof=job_seeker employer both"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdatePasswordRequest represents a password update request.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdatePasswordRequest using the validator.
func (r *UpdatePasswordRequest) Validate() error {
	return validator.New().Struct(r)
}
