package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/training-service/internal/errors"
)

var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden - insufficient permissions")

	// ErrPersistence wraps storage failures. The write it guards never
	// partially applies.
	ErrPersistence = errors.New("persistence failure")

	ErrQuizNotFound   = errors.New("quiz not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrCourseNotFound = errors.New("course not found")

	ErrAttemptLimitExceeded = errors.New("maximum attempts exceeded")
	ErrAttemptConflict      = errors.New("concurrent submission conflict, please retry")
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PermissionError is returned when a requester's role does not allow the
// action. It matches ErrForbidden under errors.Is.
type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Unwrap() error {
	return ErrForbidden
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrCourseNotFound)
}

// IsUnauthorized covers both role denials and missing credentials.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrUnauthorized)
}

func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrAttemptConflict) || errors.Is(err, ErrAttemptLimitExceeded)
}
