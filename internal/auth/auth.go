package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/training-service/internal/config"
	"github.com/SAP-F-2025/training-service/internal/models"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Verifier turns a bearer token into the identity behind the request.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Requester, error)
}

// NewVerifier builds the verifier selected by cfg.Provider.
func NewVerifier(cfg config.AuthConfig) (Verifier, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "jwt":
		if cfg.JWTSecret == "" {
			return nil, errors.New("jwt secret is required")
		}
		return NewHMACVerifier(cfg.JWTSecret), nil
	case "casdoor":
		return NewCasdoorVerifier(cfg.Casdoor)
	default:
		return nil, fmt.Errorf("unsupported auth provider: %s", cfg.Provider)
	}
}

// normalizeRole maps provider role strings onto portal roles. Anything
// unknown is treated as staff.
func normalizeRole(role string) models.UserRole {
	r := models.UserRole(strings.ToUpper(strings.TrimSpace(role)))
	if r.Valid() {
		return r
	}
	return models.RoleStaff
}
