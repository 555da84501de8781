package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) GetLesson(ctx context.Context, tx *gorm.DB, lessonID uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := getDB(c.db, tx).WithContext(ctx).
		Preload("Module.Course").
		First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return &lesson, nil
}

func (c *CoursePostgreSQL) GetOutline(ctx context.Context, tx *gorm.DB, courseID uint) (*models.Course, error) {
	var course models.Course
	if err := getDB(c.db, tx).WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.order_index ASC, modules.id ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order_index ASC, lessons.id ASC")
		}).
		First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course outline: %w", err)
	}
	return &course, nil
}
