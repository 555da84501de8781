package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/training-service/internal/cache"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	logger       *slog.Logger
}

func NewQuizPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, logger *slog.Logger) repositories.QuizRepository {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil, 0, logger)
	}
	return &QuizPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
		logger:       logger,
	}
}

// Create creates a quiz with its questions and answers and invalidates cache
func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := getDB(q.db, tx)
	if err := db.WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, q.cacheManager.Quiz, fmt.Sprintf("details:%d", quiz.ID), q.logger)

	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	db := getDB(q.db, tx)
	var quiz models.Quiz
	if err := db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return &quiz, nil
}

// GetByIDWithDetails retrieves a quiz with ordered questions and answers, with caching
func (q *QuizPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	cacheKey := fmt.Sprintf("details:%d", id)
	var quiz models.Quiz

	err := q.cacheManager.Quiz.CacheOrExecute(ctx, cacheKey, &quiz, q.cacheManager.QuizTTL, func(ctx context.Context) (interface{}, error) {
		var dbQuiz models.Quiz
		err := getDB(q.db, tx).WithContext(ctx).
			Preload("Questions", func(db *gorm.DB) *gorm.DB {
				return db.Order("questions.order_index ASC, questions.id ASC")
			}).
			Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
				return db.Order("answers.order_index ASC, answers.id ASC")
			}).
			First(&dbQuiz, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get quiz details: %w", err)
		}
		return &dbQuiz, nil
	})
	if err != nil {
		return nil, err
	}

	return &quiz, nil
}

type quizCountRow struct {
	QuizID uint
	Count  int64
}

func (q *QuizPostgreSQL) ListWithCounts(ctx context.Context, tx *gorm.DB) ([]*models.Quiz, error) {
	db := getDB(q.db, tx).WithContext(ctx)

	var quizzes []*models.Quiz
	if err := db.Order("created_at DESC, id DESC").Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	if len(quizzes) == 0 {
		return quizzes, nil
	}

	ids := make([]uint, len(quizzes))
	for i, quiz := range quizzes {
		ids[i] = quiz.ID
	}

	questionCounts, err := q.countBy(db, &models.Question{}, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	attemptCounts, err := q.countBy(db, &models.QuizAttempt{}, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	for _, quiz := range quizzes {
		quiz.QuestionsCount = questionCounts[quiz.ID]
		quiz.AttemptsCount = attemptCounts[quiz.ID]
	}
	return quizzes, nil
}

func (q *QuizPostgreSQL) countBy(db *gorm.DB, model interface{}, quizIDs []uint) (map[uint]int64, error) {
	var rows []quizCountRow
	if err := db.Model(model).
		Select("quiz_id, COUNT(*) AS count").
		Where("quiz_id IN ?", quizIDs).
		Group("quiz_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.QuizID] = r.Count
	}
	return counts, nil
}

func (q *QuizPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if len(ids) == 0 {
		return quizzes, nil
	}
	if err := getDB(q.db, tx).WithContext(ctx).Where("id IN ?", ids).Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("failed to get quizzes: %w", err)
	}
	return quizzes, nil
}
