package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/SAP-F-2025/training-service/internal/scoring"
)

type analyticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
	log    *ServiceLogger
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger,
		log:    NewServiceLogger(logger, "analytics"),
	}
}

func (s *analyticsService) AssessmentStats(ctx context.Context, requester models.Requester, filters models.AttemptFilters) (*AssessmentStatsResponse, error) {
	start := time.Now()

	attempts, err := s.loadAttempts(ctx, requester, "assessment_stats", filters)
	if err != nil {
		return nil, err
	}

	labels, err := s.loadLabels(ctx, attempts)
	if err != nil {
		return nil, err
	}

	resp := buildAssessmentStats(attempts, labels)
	s.log.LogOperation(ctx, "assessment_stats", requester.UserID, filters.QuizID, "quiz", time.Since(start), nil)
	s.log.LogAudit(ctx, AuditEventRead, "assessment_stats", requester.UserID, filters.QuizID, "quiz", len(resp.UserQuizStats))
	return resp, nil
}

func (s *analyticsService) ExportAssessmentStats(ctx context.Context, requester models.Requester, filters models.AttemptFilters) ([]byte, error) {
	attempts, err := s.loadAttempts(ctx, requester, "export_assessment_stats", filters)
	if err != nil {
		return nil, err
	}

	labels, err := s.loadLabels(ctx, attempts)
	if err != nil {
		return nil, err
	}

	data, err := writeAssessmentWorkbook(buildAssessmentStats(attempts, labels), attempts)
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	s.logger.Info("Assessment stats exported",
		"requester_id", requester.UserID,
		"attempts", len(attempts),
		"bytes", len(data))
	return data, nil
}

func (s *analyticsService) loadAttempts(ctx context.Context, requester models.Requester, operation string, filters models.AttemptFilters) ([]models.QuizAttempt, error) {
	if !requester.IsAdmin() {
		err := NewPermissionError(requester.UserID, filters.QuizID, "assessment_stats", "read", "admin role required")
		s.log.LogPermissionDenied(ctx, operation, err)
		return nil, err
	}

	attempts, err := s.repo.Attempt().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

// reportLabels names the users and quizzes that appear in a report.
type reportLabels struct {
	users   map[string]UserSummary
	quizzes map[uint]QuizSummary
}

// loadLabels fetches the user and quiz rows referenced by attempts in two
// batched reads.
func (s *analyticsService) loadLabels(ctx context.Context, attempts []models.QuizAttempt) (reportLabels, error) {
	labels := reportLabels{
		users:   make(map[string]UserSummary),
		quizzes: make(map[uint]QuizSummary),
	}

	if len(attempts) == 0 {
		return labels, nil
	}

	var userIDs []string
	var quizIDs []uint
	seenUsers := make(map[string]bool)
	seenQuizzes := make(map[uint]bool)
	for _, a := range attempts {
		if !seenUsers[a.UserID] {
			seenUsers[a.UserID] = true
			userIDs = append(userIDs, a.UserID)
		}
		if !seenQuizzes[a.QuizID] {
			seenQuizzes[a.QuizID] = true
			quizIDs = append(quizIDs, a.QuizID)
		}
	}
	users, err := s.repo.User().GetByIDs(ctx, nil, userIDs)
	if err != nil {
		return labels, fmt.Errorf("failed to load report users: %w", err)
	}
	for _, u := range users {
		labels.users[u.ID] = UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	}

	quizzes, err := s.repo.Quiz().GetByIDs(ctx, nil, quizIDs)
	if err != nil {
		return labels, fmt.Errorf("failed to load report quizzes: %w", err)
	}
	for _, q := range quizzes {
		labels.quizzes[q.ID] = QuizSummary{ID: q.ID, Title: q.Title}
	}
	return labels, nil
}

// buildAssessmentStats aggregates attempts and labels each group. Groups
// whose user or quiz row is missing keep just the id.
func buildAssessmentStats(attempts []models.QuizAttempt, labels reportLabels) *AssessmentStatsResponse {
	report := scoring.Aggregate(attempts)
	resp := &AssessmentStatsResponse{
		UserQuizStats:  make([]UserQuizStats, 0, len(report.Groups)),
		OverallMetrics: report.Overall,
	}
	for _, g := range report.Groups {
		user, ok := labels.users[g.UserID]
		if !ok {
			user = UserSummary{ID: g.UserID}
		}
		quiz, ok := labels.quizzes[g.QuizID]
		if !ok {
			quiz = QuizSummary{ID: g.QuizID}
		}
		resp.UserQuizStats = append(resp.UserQuizStats, UserQuizStats{
			User:            user,
			Quiz:            quiz,
			ProgressSummary: g,
		})
	}
	return resp
}
