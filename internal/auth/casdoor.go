package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/training-service/internal/config"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

// CasdoorVerifier validates tokens issued by a Casdoor application. The
// portal role is read from the user's tag; Casdoor admins are portal admins.
type CasdoorVerifier struct {
	client *casdoorsdk.Client
}

func NewCasdoorVerifier(cfg config.CasdoorConfig) (*CasdoorVerifier, error) {
	if cfg.Endpoint == "" || cfg.Certificate == "" {
		return nil, errors.New("casdoor endpoint and certificate are required")
	}
	client := casdoorsdk.NewClient(cfg.Endpoint, cfg.ClientID, cfg.ClientSecret, cfg.Certificate, cfg.Organization, cfg.Application)
	return &CasdoorVerifier{client: client}, nil
}

func (v *CasdoorVerifier) Verify(ctx context.Context, token string) (models.Requester, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return models.Requester{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := claims.User.Id
	if id == "" {
		id = claims.User.Owner + "/" + claims.User.Name
	}

	role := normalizeRole(claims.User.Tag)
	if claims.User.IsAdmin {
		role = models.RoleAdmin
	}

	name := claims.User.DisplayName
	if name == "" {
		name = claims.User.Name
	}

	return models.Requester{
		UserID: id,
		Role:   role,
		Name:   name,
		Email:  claims.User.Email,
	}, nil
}
