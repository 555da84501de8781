package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

var progressColumns = []string{"is_completed", "progress", "completed_at", "updated_at"}

func (p *ProgressPostgreSQL) UpsertLessonProgress(ctx context.Context, tx *gorm.DB, progress *models.LessonProgress) error {
	if err := getDB(p.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns(progressColumns),
		}).
		Create(progress).Error; err != nil {
		return fmt.Errorf("failed to upsert lesson progress: %w", err)
	}
	return nil
}

func (p *ProgressPostgreSQL) CountCompletedLessons(ctx context.Context, tx *gorm.DB, userID string, lessonIDs []uint) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := getDB(p.db, tx).WithContext(ctx).
		Model(&models.LessonProgress{}).
		Where("user_id = ? AND is_completed = ? AND lesson_id IN ?", userID, true, lessonIDs).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}
	return count, nil
}

func (p *ProgressPostgreSQL) UpsertCourseProgress(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error {
	if err := getDB(p.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns(progressColumns),
		}).
		Create(progress).Error; err != nil {
		return fmt.Errorf("failed to upsert course progress: %w", err)
	}
	return nil
}

func (p *ProgressPostgreSQL) GetCourseProgress(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	if err := getDB(p.db, tx).WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course progress: %w", err)
	}
	return &progress, nil
}
