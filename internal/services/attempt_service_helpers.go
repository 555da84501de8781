package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/training-service/internal/events"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/scoring"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type recordedAttempt struct {
	attempt        *models.QuizAttempt
	firstPass      bool
	attemptsToPass int
}

// recordAttempt assigns the next attempt number and inserts the attempt in
// one transaction. A lost numbering race surfaces as
// repositories.ErrDuplicateAttemptNumber and nothing is written.
func (s *attemptService) recordAttempt(ctx context.Context, requester models.Requester, quiz *models.Quiz, req *models.SubmitAttemptRequest, result scoring.Result) (*recordedAttempt, error) {
	var rec *recordedAttempt

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.User().Upsert(ctx, tx, requester.User()); err != nil {
			return err
		}

		history, err := s.repo.Attempt().GetByUserAndQuiz(ctx, tx, requester.UserID, quiz.ID)
		if err != nil {
			return err
		}
		if quiz.MaxAttempts != nil && len(history) >= *quiz.MaxAttempts {
			return fmt.Errorf("%w: limit is %d", ErrAttemptLimitExceeded, *quiz.MaxAttempts)
		}

		number, err := s.repo.Attempt().GetNextAttemptNumber(ctx, tx, requester.UserID, quiz.ID)
		if err != nil {
			return err
		}

		completedAt := s.clock().UTC()
		startedAt := completedAt
		if req.StartedAt != nil && req.StartedAt.Before(completedAt) {
			startedAt = req.StartedAt.UTC()
		}

		attempt := &models.QuizAttempt{
			UserID:        requester.UserID,
			QuizID:        quiz.ID,
			AttemptNumber: number,
			Score:         result.Score,
			Passed:        result.Passed,
			Answers:       datatypes.NewJSONType(req.Answers),
			TimeTaken:     timeTaken(req, startedAt, completedAt),
			StartedAt:     startedAt,
			CompletedAt:   completedAt,
		}
		if err := s.repo.Attempt().Create(ctx, tx, attempt); err != nil {
			return err
		}

		previously := scoring.Summarize(history)
		after := scoring.Summarize(append(history, *attempt))

		rec = &recordedAttempt{
			attempt:   attempt,
			firstPass: attempt.Passed && !previously.CurrentlyPassed,
		}
		if after.AttemptsToPass != nil {
			rec.attemptsToPass = *after.AttemptsToPass
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// timeTaken prefers the client's elapsed time and otherwise derives it from
// the reported start.
func timeTaken(req *models.SubmitAttemptRequest, startedAt, completedAt time.Time) *int {
	if req.TimeTaken != nil {
		return req.TimeTaken
	}
	if req.StartedAt == nil {
		return nil
	}
	seconds := int(completedAt.Sub(startedAt) / time.Second)
	return &seconds
}

// publishSubmitted emits the attempt events after commit. Failures are logged
// and never fail the submission.
func (s *attemptService) publishSubmitted(ctx context.Context, quiz *models.Quiz, rec *recordedAttempt, result scoring.Result) {
	if s.publisher == nil {
		return
	}

	a := rec.attempt
	submitted := events.NewAttemptSubmittedEvent(events.AttemptSubmittedEvent{
		AttemptID:      a.ID,
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		UserID:         a.UserID,
		AttemptNumber:  a.AttemptNumber,
		Score:          scoring.Round2(a.Score),
		Passed:         a.Passed,
		CorrectAnswers: result.CorrectCount,
		TotalQuestions: result.TotalQuestions,
		CompletedAt:    a.CompletedAt,
	})
	if err := s.publisher.PublishEvent(ctx, submitted); err != nil {
		s.logger.Error("Failed to publish attempt submitted event", "attempt_id", a.ID, "error", err)
	}

	if !rec.firstPass {
		return
	}
	passed := events.NewQuizPassedEvent(events.QuizPassedEvent{
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		UserID:         a.UserID,
		AttemptsToPass: rec.attemptsToPass,
		Score:          scoring.Round2(a.Score),
		PassedAt:       a.CompletedAt,
	})
	if err := s.publisher.PublishEvent(ctx, passed); err != nil {
		s.logger.Error("Failed to publish quiz passed event", "attempt_id", a.ID, "error", err)
	}
}
