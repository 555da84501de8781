package repositories

import (
	"context"

	"github.com/SAP-F-2025/training-service/internal/models"
	"gorm.io/gorm"
)

// AttemptRepository interface for the append-only attempt log. There is no
// update or delete path.
type AttemptRepository interface {
	// Create inserts an attempt. A clash on (user, quiz, attempt number)
	// returns ErrDuplicateAttemptNumber.
	Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error

	// Numbering
	GetNextAttemptNumber(ctx context.Context, tx *gorm.DB, userID string, quizID uint) (int, error)

	// Query operations, always in chronological order
	GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID string, quizID uint) ([]models.QuizAttempt, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]models.QuizAttempt, error)
	// List applies the filters. Callers label rows through the user and quiz
	// repositories' GetByIDs.
	List(ctx context.Context, tx *gorm.DB, filters models.AttemptFilters) ([]models.QuizAttempt, error)
}
