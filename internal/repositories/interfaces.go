package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ===== SHARED ERRORS =====

var (
	// ErrNotFound is returned when a looked up row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateAttemptNumber is returned when another submission already
	// holds the attempt number being inserted for the same user and quiz
	ErrDuplicateAttemptNumber = errors.New("duplicate attempt number")
)

// IsNotFoundError reports whether err means the row does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== AGGREGATE =====

// Repository bundles the per-table repositories with transaction control
type Repository interface {
	Quiz() QuizRepository
	Attempt() AttemptRepository
	User() UserRepository
	Course() CourseRepository
	Progress() ProgressRepository

	// WithTransaction runs fn in one database transaction. fn receives the
	// transaction handle to pass to repository calls; returning an error rolls
	// everything back.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
