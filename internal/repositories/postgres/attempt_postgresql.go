package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	db := getDB(a.db, tx)
	if err := db.WithContext(ctx).Omit("User", "Quiz").Create(attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicateAttemptNumber
		}
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

func (a *AttemptPostgreSQL) GetNextAttemptNumber(ctx context.Context, tx *gorm.DB, userID string, quizID uint) (int, error) {
	var last int
	if err := getDB(a.db, tx).WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("COALESCE(MAX(attempt_number), 0)").
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("failed to get next attempt number: %w", err)
	}
	return last + 1, nil
}

func (a *AttemptPostgreSQL) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID string, quizID uint) ([]models.QuizAttempt, error) {
	return a.List(ctx, tx, models.AttemptFilters{UserID: userID, QuizID: quizID})
}

func (a *AttemptPostgreSQL) GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]models.QuizAttempt, error) {
	return a.List(ctx, tx, models.AttemptFilters{UserID: userID})
}

func (a *AttemptPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters models.AttemptFilters) ([]models.QuizAttempt, error) {
	query := getDB(a.db, tx).WithContext(ctx).Model(&models.QuizAttempt{})
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.QuizID != 0 {
		query = query.Where("quiz_id = ?", filters.QuizID)
	}

	var attempts []models.QuizAttempt
	if err := query.
		Order("completed_at ASC, id ASC").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}
