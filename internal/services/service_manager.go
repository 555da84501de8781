package services

import (
	"log/slog"

	"github.com/SAP-F-2025/training-service/internal/events"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/SAP-F-2025/training-service/internal/validator"
)

// ServiceManager hands out the service set built over one repository.
type ServiceManager interface {
	Attempt() AttemptService
	Quiz() QuizService
	Analytics() AnalyticsService
	Lesson() LessonService
}

type serviceManager struct {
	attempt   AttemptService
	quiz      QuizService
	analytics AnalyticsService
	lesson    LessonService
}

func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ServiceManager {
	return &serviceManager{
		attempt:   NewAttemptService(repo, logger, validator, publisher),
		quiz:      NewQuizService(repo, logger, validator, publisher),
		analytics: NewAnalyticsService(repo, logger),
		lesson:    NewLessonService(repo, logger, publisher),
	}
}

func (m *serviceManager) Attempt() AttemptService     { return m.attempt }
func (m *serviceManager) Quiz() QuizService           { return m.quiz }
func (m *serviceManager) Analytics() AnalyticsService { return m.analytics }
func (m *serviceManager) Lesson() LessonService       { return m.lesson }
