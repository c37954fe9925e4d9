package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"orderdesk/internal/domain"
	apperrors "orderdesk/internal/errors"
)

// ScopeOrders is the scope granted to admin tokens; every order endpoint
// requires it.
const ScopeOrders = "orders"

type AdminUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
}

type TokenService struct {
	users  AdminUserRepository
	secret []byte
	ttl    time.Duration
}

func NewTokenService(users AdminUserRepository, secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Authenticate checks the credentials against the stored bcrypt hash. A
// missing user and a bad password are indistinguishable to the caller.
func (s *TokenService) Authenticate(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	return user, nil
}

// IssueToken signs an HS256 token for the user with the orders scope.
func (s *TokenService) IssueToken(user *domain.AdminUser) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.ttl)

	claims := jwt.MapClaims{
		"sub":   user.Username,
		"scope": ScopeOrders,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses a signed token and returns its subject and scope.
func (s *TokenService) ValidateToken(tokenString string) (subject string, scope string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", apperrors.NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", apperrors.NewUnauthorizedError("invalid claims")
	}

	subject, ok = claims["sub"].(string)
	if !ok || subject == "" {
		return "", "", apperrors.NewUnauthorizedError("subject missing from token")
	}

	scope, _ = claims["scope"].(string)
	return subject, scope, nil
}
