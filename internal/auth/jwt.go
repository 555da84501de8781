package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "training-service"

type Claims struct {
	Sub   string `json:"sub"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// HMACVerifier checks HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	hmac []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{hmac: []byte(secret)}
}

// IssueToken signs a token for the given identity. Used by the seed command
// and tests.
func (v *HMACVerifier) IssueToken(requester models.Requester, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:   requester.UserID,
		Role:  string(requester.Role),
		Name:  requester.Name,
		Email: requester.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(v.hmac)
}

func (v *HMACVerifier) Verify(ctx context.Context, tokenStr string) (models.Requester, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return models.Requester{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || c.Sub == "" {
		return models.Requester{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return models.Requester{
		UserID: c.Sub,
		Role:   normalizeRole(c.Role),
		Name:   c.Name,
		Email:  c.Email,
	}, nil
}
