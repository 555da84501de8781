package repositories

import (
	"context"

	"github.com/SAP-F-2025/training-service/internal/models"
	"gorm.io/gorm"
)

// CourseRepository interface for read access to the course/module/lesson tree
type CourseRepository interface {
	// GetLesson loads a lesson with its module and the module's course
	GetLesson(ctx context.Context, tx *gorm.DB, lessonID uint) (*models.Lesson, error)
	// GetOutline loads a course with modules and lessons, each ordered by order index
	GetOutline(ctx context.Context, tx *gorm.DB, courseID uint) (*models.Course, error)
}

// ProgressRepository interface for lesson and course progress
type ProgressRepository interface {
	UpsertLessonProgress(ctx context.Context, tx *gorm.DB, progress *models.LessonProgress) error
	CountCompletedLessons(ctx context.Context, tx *gorm.DB, userID string, lessonIDs []uint) (int64, error)
	UpsertCourseProgress(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error
	GetCourseProgress(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.CourseProgress, error)
}
