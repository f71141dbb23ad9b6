// Package security verifies bearer tokens issued by the external
// identity provider and resolves them to accounts.
package security

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/domain/user"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/ports/outbound"
	apperrors "github.com/foodgram/backend/pkg/errors"
)

// TokenVerifier validates HS256 tokens against the shared secret and
// loads the account they name. Tokens are minted elsewhere; this
// service never issues them.
type TokenVerifier struct {
	secret []byte
	users  outbound.UserRepository
}

// NewTokenVerifier creates a verifier bound to the configured secret.
func NewTokenVerifier(cfg *config.Config, users outbound.UserRepository) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.Auth.JWTSecret),
		users:  users,
	}
}

// Identify parses and verifies the token, then resolves its subject to
// an account. Deactivated accounts still identify; permission checks
// decide what they may do.
func (v *TokenVerifier) Identify(ctx context.Context, tokenString string) (*user.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	u, err := v.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("unknown account")
		}
		return nil, apperrors.NewDatabase("load account", err)
	}

	return &user.Identity{ID: u.ID, IsActive: u.IsActive, IsStaff: u.IsStaff}, nil
}
