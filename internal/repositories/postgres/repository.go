package postgres

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/training-service/internal/cache"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db       *gorm.DB
	quiz     repositories.QuizRepository
	attempt  repositories.AttemptRepository
	user     repositories.UserRepository
	course   repositories.CourseRepository
	progress repositories.ProgressRepository
}

// NewRepository wires every gorm backed repository around one connection pool
func NewRepository(db *gorm.DB, cacheManager *cache.CacheManager, logger *slog.Logger) repositories.Repository {
	return &repository{
		db:       db,
		quiz:     NewQuizPostgreSQL(db, cacheManager, logger),
		attempt:  NewAttemptPostgreSQL(db),
		user:     NewUserPostgreSQL(db),
		course:   NewCoursePostgreSQL(db),
		progress: NewProgressPostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository         { return r.quiz }
func (r *repository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *repository) User() repositories.UserRepository         { return r.user }
func (r *repository) Course() repositories.CourseRepository     { return r.course }
func (r *repository) Progress() repositories.ProgressRepository { return r.progress }

func (r *repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
