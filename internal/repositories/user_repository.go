package repositories

import (
	"context"

	"github.com/SAP-F-2025/training-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for user operations (the identity provider owns user data)
type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.User, error)

	// Upsert mirrors the identity provider's view of the user
	Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error
}
