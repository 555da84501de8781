package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SAP-F-2025/training-service/internal/events"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/SAP-F-2025/training-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	staff   = models.Requester{UserID: "staff-1", Role: models.RoleStaff, Name: "Sam Staff", Email: "sam@example.com"}
	staff2  = models.Requester{UserID: "staff-2", Role: models.RoleStaff, Name: "Kim Staff"}
	manager = models.Requester{UserID: "manager-1", Role: models.RoleManager, Name: "Morgan"}
	admin   = models.Requester{UserID: "admin-1", Role: models.RoleAdmin, Name: "Alex Admin"}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// foodSafetyQuiz has four questions. Answer 10*q+1 is correct for question q.
func foodSafetyQuiz() *models.Quiz {
	quiz := &models.Quiz{
		ID:           1,
		Title:        "Food Safety Basics Assessment",
		PassingScore: 85,
		IsPublished:  true,
	}
	for q := uint(1); q <= 4; q++ {
		quiz.Questions = append(quiz.Questions, models.Question{
			ID:         q,
			QuizID:     quiz.ID,
			Text:       "question",
			Type:       models.QuestionMultipleChoice,
			OrderIndex: int(q),
			Answers: []models.Answer{
				{ID: 10*q + 1, QuestionID: q, Text: "right", IsCorrect: true},
				{ID: 10*q + 2, QuestionID: q, Text: "wrong"},
			},
		})
	}
	return quiz
}

func answersWithCorrect(n uint) models.AnswerMap {
	answers := models.AnswerMap{}
	for q := uint(1); q <= 4; q++ {
		if q <= n {
			answers[q] = 10*q + 1
		} else {
			answers[q] = 10*q + 2
		}
	}
	return answers
}

func newAttemptFixture(t *testing.T) (*attemptService, *fakeRepository, *events.MockEventPublisher) {
	t.Helper()
	repo := newFakeRepository()
	repo.addQuiz(foodSafetyQuiz())
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewAttemptService(repo, testLogger(), validator.New(), publisher).(*attemptService)
	return svc, repo, publisher
}

func TestSubmit_AllCorrectPassesOnFirstAttempt(t *testing.T) {
	svc, repo, publisher := newAttemptFixture(t)

	resp, err := svc.Submit(context.Background(), staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
	require.NoError(t, err)

	assert.Equal(t, 100.0, resp.Score)
	assert.True(t, resp.Passed)
	assert.Equal(t, 1, resp.AttemptNumber)
	assert.Equal(t, 4, resp.CorrectAnswers)
	assert.Equal(t, 4, resp.TotalQuestions)
	assert.Equal(t, 85.0, resp.PassingScore)
	assert.True(t, resp.FirstPass)
	assert.False(t, resp.Attempt.CompletedAt.IsZero())
	assert.Equal(t, []int{1}, repo.attemptNumbers())

	assert.Len(t, publisher.EventsOfType(events.EventAttemptSubmitted), 1)
	passed := publisher.EventsOfType(events.EventQuizPassed)
	require.Len(t, passed, 1)
	assert.Equal(t, 1, passed[0].Data.(events.QuizPassedEvent).AttemptsToPass)

	repo.users.AssertCalled(t, "Upsert", context.Background(), (*gorm.DB)(nil), staff.User())
}

func TestSubmit_ThreeOfFourFails(t *testing.T) {
	svc, _, publisher := newAttemptFixture(t)

	resp, err := svc.Submit(context.Background(), staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(3)})
	require.NoError(t, err)

	assert.Equal(t, 75.0, resp.Score)
	assert.False(t, resp.Passed)
	assert.Equal(t, 3, resp.CorrectAnswers)
	assert.False(t, resp.FirstPass)
	assert.Empty(t, publisher.EventsOfType(events.EventQuizPassed))
}

func TestSubmit_FirstPassOnlyOnce(t *testing.T) {
	svc, _, publisher := newAttemptFixture(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(2)})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
	require.NoError(t, err)
	third, err := svc.Submit(ctx, staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, []int{first.AttemptNumber, second.AttemptNumber, third.AttemptNumber})
	assert.False(t, first.FirstPass)
	assert.True(t, second.FirstPass)
	assert.False(t, third.FirstPass)

	passed := publisher.EventsOfType(events.EventQuizPassed)
	require.Len(t, passed, 1)
	assert.Equal(t, 2, passed[0].Data.(events.QuizPassedEvent).AttemptsToPass)
}

func TestSubmit_NumbersArePerUser(t *testing.T) {
	svc, _, _ := newAttemptFixture(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(1)})
	require.NoError(t, err)
	other, err := svc.Submit(ctx, staff2, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(1)})
	require.NoError(t, err)

	assert.Equal(t, 1, other.AttemptNumber)
}

func TestSubmit_QuizNotFound(t *testing.T) {
	svc, repo, publisher := newAttemptFixture(t)

	_, err := svc.Submit(context.Background(), staff, 99, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})

	assert.ErrorIs(t, err, ErrQuizNotFound)
	assert.True(t, IsNotFound(err))
	assert.Empty(t, repo.attemptNumbers())
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestSubmit_UnpublishedQuizHiddenFromStaff(t *testing.T) {
	svc, repo, _ := newAttemptFixture(t)
	draft := foodSafetyQuiz()
	draft.ID = 2
	draft.IsPublished = false
	repo.addQuiz(draft)

	_, err := svc.Submit(context.Background(), staff, 2, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
	assert.ErrorIs(t, err, ErrQuizNotFound)

	resp, err := svc.Submit(context.Background(), manager, 2, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
	require.NoError(t, err)
	assert.True(t, resp.Passed)
}

func TestSubmit_RequiresAnswers(t *testing.T) {
	svc, repo, _ := newAttemptFixture(t)

	_, err := svc.Submit(context.Background(), staff, 1, &models.SubmitAttemptRequest{})

	assert.True(t, IsValidation(err))
	assert.Empty(t, repo.attemptNumbers())
}

func TestSubmit_RequiresIdentity(t *testing.T) {
	svc, _, _ := newAttemptFixture(t)

	_, err := svc.Submit(context.Background(), models.Requester{}, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubmit_AttemptLimit(t *testing.T) {
	svc, repo, _ := newAttemptFixture(t)
	limited := foodSafetyQuiz()
	limited.ID = 3
	one := 1
	limited.MaxAttempts = &one
	repo.addQuiz(limited)
	ctx := context.Background()

	_, err := svc.Submit(ctx, staff, 3, &models.SubmitAttemptRequest{Answers: answersWithCorrect(1)})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, staff, 3, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
	assert.ErrorIs(t, err, ErrAttemptLimitExceeded)
	assert.True(t, IsConflict(err))
	assert.Equal(t, []int{1}, repo.attemptNumbers())
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	svc, repo, publisher := newAttemptFixture(t)
	repo.createErr = errors.New("connection reset")

	_, err := svc.Submit(context.Background(), staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestSubmit_PublishFailureDoesNotFailSubmission(t *testing.T) {
	svc, repo, publisher := newAttemptFixture(t)
	publisher.Err = errors.New("broker unavailable")

	resp, err := svc.Submit(context.Background(), staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})

	require.NoError(t, err)
	assert.True(t, resp.Passed)
	assert.Equal(t, []int{1}, repo.attemptNumbers())
}

func TestSubmit_ElapsedTimeFromStart(t *testing.T) {
	svc, _, _ := newAttemptFixture(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return now }
	started := now.Add(-90 * time.Second)

	resp, err := svc.Submit(context.Background(), staff, 1, &models.SubmitAttemptRequest{
		Answers:   answersWithCorrect(4),
		StartedAt: &started,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Attempt.TimeTaken)
	assert.Equal(t, 90, *resp.Attempt.TimeTaken)
	assert.Equal(t, started, resp.Attempt.StartedAt)
	assert.Equal(t, now, resp.Attempt.CompletedAt)
}

func TestSubmit_ConcurrentSubmissionsGetDistinctNumbers(t *testing.T) {
	run := func(t *testing.T, allowDuplicates bool) []int {
		svc, repo, _ := newAttemptFixture(t)
		repo.allowDuplicates = allowDuplicates

		// Both submissions read the current maximum before either inserts
		var reads atomic.Int32
		var arrived sync.WaitGroup
		arrived.Add(2)
		repo.afterNumberRead = func() {
			if reads.Add(1) <= 2 {
				arrived.Done()
				arrived.Wait()
			}
		}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Submit(context.Background(), staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
		return repo.attemptNumbers()
	}

	t.Run("unique index forces a renumber", func(t *testing.T) {
		assert.Equal(t, []int{1, 2}, run(t, false))
	})

	t.Run("without uniqueness numbers collide", func(t *testing.T) {
		assert.Equal(t, []int{1, 1}, run(t, true))
	})
}

func TestSubmit_SecondNumberingClashIsConflict(t *testing.T) {
	svc, repo, _ := newAttemptFixture(t)
	repo.createErr = repositories.ErrDuplicateAttemptNumber

	_, err := svc.Submit(context.Background(), staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})

	assert.ErrorIs(t, err, ErrAttemptConflict)
	assert.True(t, IsConflict(err))
}

func TestHistory_OwnAttemptsWithStatistics(t *testing.T) {
	svc, _, _ := newAttemptFixture(t)
	ctx := context.Background()
	for _, n := range []uint{2, 3, 4} {
		_, err := svc.Submit(ctx, staff, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(n)})
		require.NoError(t, err)
	}

	resp, err := svc.History(ctx, staff, 1, "")
	require.NoError(t, err)

	require.Len(t, resp.Attempts, 3)
	stats := resp.Statistics
	assert.Equal(t, staff.UserID, stats.UserID)
	assert.Equal(t, 3, stats.TotalAttempts)
	assert.Equal(t, 1, stats.PassedAttempts)
	assert.Equal(t, 100.0, stats.BestScore)
	assert.Equal(t, 75.0, stats.AverageScore)
	require.NotNil(t, stats.AttemptsToPass)
	assert.Equal(t, 3, *stats.AttemptsToPass)
	assert.True(t, stats.CurrentlyPassed)
	assert.NotNil(t, stats.FirstPassDate)
}

func TestHistory_OtherUserRequiresAdmin(t *testing.T) {
	svc, _, _ := newAttemptFixture(t)
	ctx := context.Background()
	_, err := svc.Submit(ctx, staff2, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
	require.NoError(t, err)

	_, err = svc.History(ctx, staff, 1, staff2.UserID)
	var permErr *PermissionError
	assert.ErrorAs(t, err, &permErr)
	assert.True(t, IsUnauthorized(err))

	resp, err := svc.History(ctx, admin, 1, staff2.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Statistics.TotalAttempts)
}

func TestHistory_UnknownQuiz(t *testing.T) {
	svc, _, _ := newAttemptFixture(t)

	_, err := svc.History(context.Background(), staff, 42, "")

	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestMyProgress_GroupsByQuiz(t *testing.T) {
	svc, repo, _ := newAttemptFixture(t)
	second := foodSafetyQuiz()
	second.ID = 2
	second.Title = "Allergen Awareness"
	repo.addQuiz(second)
	ctx := context.Background()

	for _, quizID := range []uint{2, 1, 1} {
		_, err := svc.Submit(ctx, staff, quizID, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
		require.NoError(t, err)
	}
	_, err := svc.Submit(ctx, staff2, 1, &models.SubmitAttemptRequest{Answers: answersWithCorrect(4)})
	require.NoError(t, err)

	resp, err := svc.MyProgress(ctx, staff)
	require.NoError(t, err)

	require.Len(t, resp.Quizzes, 2)
	assert.Equal(t, uint(1), resp.Quizzes[0].QuizID)
	assert.Equal(t, "Food Safety Basics Assessment", resp.Quizzes[0].QuizTitle)
	assert.Equal(t, 2, resp.Quizzes[0].TotalAttempts)
	assert.Equal(t, "Allergen Awareness", resp.Quizzes[1].QuizTitle)
	assert.Equal(t, 1, resp.Quizzes[1].TotalAttempts)
}
