package repositories

import (
	"context"

	"github.com/SAP-F-2025/training-service/internal/models"
	"gorm.io/gorm"
)

// QuizRepository interface for quiz definitions (quiz, questions, answers)
type QuizRepository interface {
	// Create stores the quiz together with its questions and answers
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	// GetByIDWithDetails loads ordered questions and answers
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)

	// ListWithCounts returns all quizzes newest first with question and attempt counts
	ListWithCounts(ctx context.Context, tx *gorm.DB) ([]*models.Quiz, error)
	// GetByIDs loads quiz rows without questions, for labelling reports
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Quiz, error)
}
