package mocks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/service/auth"
)

const (
	mockAccessPrefix  = "access:"
	mockRefreshPrefix = "refresh:"
)

// MockJWTService is a stub auth.JWTService producing inspectable tokens of
// the form "access:<uuid>" / "refresh:<uuid>". Per-method error fields force
// failures.
type MockJWTService struct {
	GenerateErr        error
	ValidateErr        error
	GenerateRefreshErr error
	ValidateRefreshErr error
}

// NewMockJWTService creates a MockJWTService.
func NewMockJWTService() *MockJWTService {
	return &MockJWTService{}
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService.GenerateToken.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return mockAccessPrefix + userID.String(), nil
}

// ValidateToken implements auth.JWTService.ValidateToken.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	return m.parse(tokenString, mockAccessPrefix)
}

// GenerateRefreshToken implements auth.JWTService.GenerateRefreshToken.
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshErr != nil {
		return "", m.GenerateRefreshErr
	}
	return mockRefreshPrefix + userID.String(), nil
}

// ValidateRefreshToken implements auth.JWTService.ValidateRefreshToken.
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshErr != nil {
		return nil, m.ValidateRefreshErr
	}
	return m.parse(tokenString, mockRefreshPrefix)
}

func (m *MockJWTService) parse(tokenString, prefix string) (*auth.Claims, error) {
	raw, ok := strings.CutPrefix(tokenString, prefix)
	if !ok {
		return nil, auth.ErrInvalidToken
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	tokenType := "access"
	if prefix == mockRefreshPrefix {
		tokenType = "refresh"
	}

	now := time.Now().UTC()
	return &auth.Claims{
		UserID:    userID,
		TokenType: tokenType,
		Subject:   userID.String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}, nil
}

// MockPasswordHasher is a stub auth.PasswordHasher that prefixes the
// plaintext instead of hashing it.
type MockPasswordHasher struct {
	Err error
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements auth.PasswordHasher.Hash.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return "hashed:" + password, nil
}

// MockPasswordVerifier is a stub auth.PasswordVerifier matching the
// MockPasswordHasher scheme.
type MockPasswordVerifier struct {
	Err error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements auth.PasswordVerifier.Compare.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.Err != nil {
		return m.Err
	}
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}
