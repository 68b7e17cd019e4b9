// Package server provides the jobconnect HTTP REST API.
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/jobconnect/internal/config"
	"github.com/jonathan/jobconnect/internal/server/middleware"
)

// tokenIssuer is stamped into every session token and required on validation.
const tokenIssuer = "jobconnect"

// Claims is the payload of a session token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// GetUserID implements middleware.UserIDGetter.
func (c *Claims) GetUserID() uuid.UUID {
	return c.UserID
}

// JWTService issues and validates HS256 session tokens.
type JWTService struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewJWTService creates a JWT service with the given configuration.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{config: cfg, now: time.Now}
}

// GenerateToken signs a session token for userID valid for the configured TTL.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks the signature, expiry and issuer of a token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(s.config.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrSignatureInvalid):
		return nil, fmt.Errorf("invalid token signature: %w", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("token expired: %w", err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("malformed token: %w", err)
	default:
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token has no user")
	}
	return claims, nil
}

// AsTokenValidator adapts the service to middleware.TokenValidator.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return tokenValidator{s}
}

type tokenValidator struct {
	service *JWTService
}

func (v tokenValidator) ValidateToken(tokenString string) (middleware.UserIDGetter, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
