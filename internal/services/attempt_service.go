package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/training-service/internal/events"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/SAP-F-2025/training-service/internal/scoring"
	"github.com/SAP-F-2025/training-service/internal/validator"
)

// maxNumberingAttempts bounds how often a submission is re-recorded after
// losing an attempt-number race.
const maxNumberingAttempts = 2

type attemptService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	log       *ServiceLogger
	validator *validator.Validator
	publisher events.EventPublisher
	clock     func() time.Time
}

func NewAttemptService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) AttemptService {
	return &attemptService{
		repo:      repo,
		logger:    logger,
		log:       NewServiceLogger(logger, "attempt"),
		validator: validator,
		publisher: publisher,
		clock:     time.Now,
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

func (s *attemptService) Submit(ctx context.Context, requester models.Requester, quizID uint, req *models.SubmitAttemptRequest) (resp *SubmitAttemptResponse, err error) {
	op := s.log.WithOperation(ctx, "submit_attempt", requester.UserID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	if requester.UserID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByIDWithDetails(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if !quiz.IsPublished && !requester.CanViewDrafts() {
		return nil, ErrQuizNotFound
	}

	// Scoring is pure and happens before any write
	result, err := scoring.ScoreAttempt(quiz, req.Answers)
	if err != nil {
		return nil, err
	}

	var rec *recordedAttempt
	for try := 1; try <= maxNumberingAttempts; try++ {
		rec, err = s.recordAttempt(ctx, requester, quiz, req, result)
		if !errors.Is(err, repositories.ErrDuplicateAttemptNumber) {
			break
		}
		s.logger.Warn("Attempt number taken by a concurrent submission",
			"quiz_id", quizID,
			"user_id", requester.UserID,
			"try", try)
	}
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateAttemptNumber):
			return nil, ErrAttemptConflict
		case IsConflict(err):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	s.publishSubmitted(ctx, quiz, rec, result)

	s.logger.Info("Quiz attempt recorded",
		"attempt_id", rec.attempt.ID,
		"quiz_id", quizID,
		"user_id", requester.UserID,
		"attempt_number", rec.attempt.AttemptNumber,
		"score", result.Score,
		"passed", result.Passed)

	return &SubmitAttemptResponse{
		Attempt:        rec.attempt,
		Score:          scoring.Round2(result.Score),
		Passed:         result.Passed,
		AttemptNumber:  rec.attempt.AttemptNumber,
		CorrectAnswers: result.CorrectCount,
		TotalQuestions: result.TotalQuestions,
		PassingScore:   result.Threshold,
		FirstPass:      rec.firstPass,
	}, nil
}

func (s *attemptService) History(ctx context.Context, requester models.Requester, quizID uint, targetUserID string) (resp *AttemptHistoryResponse, err error) {
	op := s.log.WithOperation(ctx, "attempt_history", requester.UserID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	if requester.UserID == "" {
		return nil, ErrUnauthorized
	}
	if targetUserID == "" {
		targetUserID = requester.UserID
	}
	if !requester.CanViewUser(targetUserID) {
		permErr := NewPermissionError(requester.UserID, quizID, "quiz_attempts", "view", "only admins can view other users' attempts")
		s.log.LogPermissionDenied(ctx, "attempt_history", permErr)
		return nil, permErr
	}

	if _, err := s.repo.Quiz().GetByID(ctx, nil, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	attempts, err := s.repo.Attempt().GetByUserAndQuiz(ctx, nil, targetUserID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}

	ordered := scoring.Chronological(attempts)
	summary := scoring.Summarize(ordered)
	summary.UserID = targetUserID
	summary.QuizID = quizID

	return &AttemptHistoryResponse{
		Attempts:   ordered,
		Statistics: summary,
	}, nil
}

func (s *attemptService) MyProgress(ctx context.Context, requester models.Requester) (resp *ProgressResponse, err error) {
	op := s.log.WithOperation(ctx, "my_progress", requester.UserID)
	defer func() { op.LogResult(0, "user", err) }()

	if requester.UserID == "" {
		return nil, ErrUnauthorized
	}

	attempts, err := s.repo.Attempt().GetByUser(ctx, nil, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}

	report := scoring.Aggregate(attempts)

	quizIDs := make([]uint, 0, len(report.Groups))
	for _, g := range report.Groups {
		quizIDs = append(quizIDs, g.QuizID)
	}
	quizzes, err := s.repo.Quiz().GetByIDs(ctx, nil, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get quizzes: %w", err)
	}
	titles := make(map[uint]string, len(quizzes))
	for _, q := range quizzes {
		titles[q.ID] = q.Title
	}

	resp = &ProgressResponse{
		UserID:  requester.UserID,
		Quizzes: make([]QuizProgress, 0, len(report.Groups)),
	}
	for _, g := range report.Groups {
		resp.Quizzes = append(resp.Quizzes, QuizProgress{
			QuizTitle:       titles[g.QuizID],
			ProgressSummary: g,
		})
	}
	return resp, nil
}
