package scoring

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/training-service/internal/errors"
	"github.com/SAP-F-2025/training-service/internal/models"
)

// fourQuestionQuiz builds a quiz whose question i (1-based) has answers
// 10*i+1 (correct) and 10*i+2.
func fourQuestionQuiz() *models.Quiz {
	quiz := &models.Quiz{ID: 1, Title: "Food Safety Basics", PassingScore: 85}
	for i := uint(1); i <= 4; i++ {
		quiz.Questions = append(quiz.Questions, models.Question{
			ID:     i,
			QuizID: 1,
			Answers: []models.Answer{
				{ID: 10*i + 1, QuestionID: i, IsCorrect: true},
				{ID: 10*i + 2, QuestionID: i},
			},
		})
	}
	return quiz
}

func allCorrect() models.AnswerMap {
	return models.AnswerMap{1: 11, 2: 21, 3: 31, 4: 41}
}

func attemptAt(userID string, quizID uint, id uint, score float64, passed bool, at time.Time) models.QuizAttempt {
	return models.QuizAttempt{
		ID:          id,
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		Passed:      passed,
		CompletedAt: at,
	}
}

func TestGradeAnswer(t *testing.T) {
	quiz := fourQuestionQuiz()
	q := &quiz.Questions[0]

	assert.True(t, GradeAnswer(q, 11, true))
	assert.False(t, GradeAnswer(q, 12, true), "wrong answer")
	assert.False(t, GradeAnswer(q, 21, true), "answer from another question")
	assert.False(t, GradeAnswer(q, 999, true), "stale id")
	assert.False(t, GradeAnswer(q, 11, false), "no answer submitted")
}

func TestGradeAnswer_NoCorrectAnswerAlwaysIncorrect(t *testing.T) {
	q := &models.Question{
		ID: 1,
		Answers: []models.Answer{
			{ID: 1, QuestionID: 1},
			{ID: 2, QuestionID: 1},
		},
	}

	for _, a := range q.Answers {
		assert.False(t, GradeAnswer(q, a.ID, true))
	}
	assert.False(t, GradeAnswer(q, 0, true))
}

func TestScoreAttempt_ThreeOfFour(t *testing.T) {
	answers := allCorrect()
	answers[4] = 42

	result, err := ScoreAttempt(fourQuestionQuiz(), answers)
	require.NoError(t, err)

	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 75.0, result.Score)
	assert.False(t, result.Passed)
}

func TestScoreAttempt_AllCorrect(t *testing.T) {
	result, err := ScoreAttempt(fourQuestionQuiz(), allCorrect())
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Score)
	assert.True(t, result.Passed)
}

func TestScoreAttempt_MissingAnswersScoreIncorrect(t *testing.T) {
	result, err := ScoreAttempt(fourQuestionQuiz(), models.AnswerMap{1: 11})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 25.0, result.Score)
}

func TestScoreAttempt_ScoreIsNotRounded(t *testing.T) {
	quiz := fourQuestionQuiz()
	quiz.Questions = quiz.Questions[:3]

	result, err := ScoreAttempt(quiz, allCorrect())
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)

	result, err = ScoreAttempt(quiz, models.AnswerMap{1: 11})
	require.NoError(t, err)
	assert.Equal(t, float64(1)/float64(3)*100, result.Score)
}

func TestScoreAttempt_ZeroQuestions(t *testing.T) {
	_, err := ScoreAttempt(&models.Quiz{ID: 9}, models.AnswerMap{})
	require.Error(t, err)

	var verrs errors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "questions", verrs[0].Field)
}

func TestScoreAttempt_ThresholdBoundary(t *testing.T) {
	quiz := fourQuestionQuiz()
	quiz.PassingScore = 75

	answers := allCorrect()
	answers[4] = 42

	result, err := ScoreAttempt(quiz, answers)
	require.NoError(t, err)
	assert.True(t, result.Passed, "score equal to threshold passes")
	assert.Equal(t, 75.0, result.Threshold)
}

func TestScoreAttempt_UnsetPassingScoreUsesDefault(t *testing.T) {
	quiz := fourQuestionQuiz()
	quiz.PassingScore = 0

	result, err := ScoreAttempt(quiz, allCorrect())
	require.NoError(t, err)
	assert.Equal(t, float64(models.DefaultPassingScore), result.Threshold)
}

func TestScoreAttempt_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	quiz := fourQuestionQuiz()

	for i := 0; i < 200; i++ {
		answers := models.AnswerMap{}
		for _, q := range quiz.Questions {
			switch rng.Intn(3) {
			case 0:
				answers[q.ID] = q.Answers[0].ID
			case 1:
				answers[q.ID] = q.Answers[1].ID
			}
		}

		result, err := ScoreAttempt(quiz, answers)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 100.0)
		assert.Equal(t, result.Score >= quiz.EffectivePassingScore(), result.Passed)
	}
}

func TestSummarize_FailThenPass(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	attempts := []models.QuizAttempt{
		attemptAt("u1", 1, 1, 75, false, base),
		attemptAt("u1", 1, 2, 100, true, base.Add(time.Hour)),
	}

	s := Summarize(attempts)

	assert.Equal(t, 2, s.TotalAttempts)
	assert.Equal(t, 1, s.PassedAttempts)
	assert.Equal(t, 100.0, s.BestScore)
	assert.Equal(t, 87.5, s.AverageScore)
	require.NotNil(t, s.AttemptsToPass)
	assert.Equal(t, 2, *s.AttemptsToPass)
	assert.True(t, s.CurrentlyPassed)
	require.NotNil(t, s.FirstPassDate)
	assert.True(t, s.FirstPassDate.Equal(base.Add(time.Hour)))
}

func TestSummarize_UsesChronologicalPositionNotAttemptNumber(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	first := attemptAt("u1", 1, 7, 50, false, base)
	first.AttemptNumber = 1
	second := attemptAt("u1", 1, 8, 90, true, base.Add(time.Minute))
	second.AttemptNumber = 1
	third := attemptAt("u1", 1, 9, 95, true, base.Add(2*time.Minute))
	third.AttemptNumber = 5

	// Input order is shuffled on purpose.
	s := Summarize([]models.QuizAttempt{third, first, second})

	require.NotNil(t, s.AttemptsToPass)
	assert.Equal(t, 2, *s.AttemptsToPass)
	assert.True(t, s.FirstPassDate.Equal(second.CompletedAt))
}

func TestChronological_OrdersBySubmissionNotStart(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	// Opened first, submitted last.
	slow := attemptAt("u1", 1, 1, 90, true, base.Add(30*time.Minute))
	slow.StartedAt = base
	quick := attemptAt("u1", 1, 2, 40, false, base.Add(10*time.Minute))
	quick.StartedAt = base.Add(5 * time.Minute)
	tied := attemptAt("u1", 1, 3, 60, false, base.Add(30*time.Minute))
	tied.StartedAt = base.Add(20 * time.Minute)

	sorted := Chronological([]models.QuizAttempt{tied, slow, quick})

	assert.Equal(t, []uint{2, 1, 3}, []uint{sorted[0].ID, sorted[1].ID, sorted[2].ID})

	s := Summarize([]models.QuizAttempt{slow, quick})
	require.NotNil(t, s.AttemptsToPass)
	assert.Equal(t, 2, *s.AttemptsToPass)
}

func TestSummarize_PassIsPermanent(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := Summarize([]models.QuizAttempt{
		attemptAt("u1", 1, 1, 90, true, base),
		attemptAt("u1", 1, 2, 10, false, base.Add(time.Hour)),
	})

	assert.True(t, s.CurrentlyPassed)
	require.NotNil(t, s.AttemptsToPass)
	assert.Equal(t, 1, *s.AttemptsToPass)
}

func TestSummarize_NeverPassed(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := Summarize([]models.QuizAttempt{
		attemptAt("u1", 1, 1, 20, false, base),
		attemptAt("u1", 1, 2, 40, false, base.Add(time.Hour)),
	})

	assert.Nil(t, s.AttemptsToPass)
	assert.Nil(t, s.FirstPassDate)
	assert.False(t, s.CurrentlyPassed)
	assert.Equal(t, 40.0, s.BestScore)
	assert.Equal(t, 30.0, s.AverageScore)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalAttempts)
	assert.Nil(t, s.AttemptsToPass)
}

func TestSummarize_RoundsOnlyAtBoundary(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	third := float64(1) / float64(3) * 100
	s := Summarize([]models.QuizAttempt{
		attemptAt("u1", 1, 1, third, false, base),
		attemptAt("u1", 1, 2, third, false, base.Add(time.Second)),
		attemptAt("u1", 1, 3, third*2, false, base.Add(2*time.Second)),
	})

	assert.Equal(t, 44.44, s.AverageScore)
	assert.Equal(t, 66.67, s.BestScore)
}

func TestSummarize_Idempotent(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	attempts := []models.QuizAttempt{
		attemptAt("u1", 1, 2, 100, true, base.Add(time.Hour)),
		attemptAt("u1", 1, 1, 75, false, base),
	}
	snapshot := append([]models.QuizAttempt(nil), attempts...)

	assert.Equal(t, Summarize(attempts), Summarize(attempts))
	assert.Equal(t, snapshot, attempts, "input must not be reordered")
}

func TestAggregate_CohortMetrics(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	attempts := []models.QuizAttempt{
		// alice passes quiz 1 on the second try
		attemptAt("alice", 1, 1, 75, false, base),
		attemptAt("alice", 1, 4, 100, true, base.Add(3*time.Hour)),
		// bob passes quiz 1 first time
		attemptAt("bob", 1, 2, 90, true, base.Add(time.Hour)),
		// bob never passes quiz 2
		attemptAt("bob", 2, 3, 50, false, base.Add(2*time.Hour)),
	}

	report := Aggregate(attempts)

	require.Len(t, report.Groups, 3)
	assert.Equal(t, "alice", report.Groups[0].UserID)
	assert.Equal(t, uint(1), report.Groups[0].QuizID)
	assert.Equal(t, "bob", report.Groups[1].UserID)
	assert.Equal(t, uint(1), report.Groups[1].QuizID)
	assert.Equal(t, uint(2), report.Groups[2].QuizID)

	assert.Equal(t, 2, *report.Groups[0].AttemptsToPass)
	assert.Equal(t, 1, *report.Groups[1].AttemptsToPass)
	assert.Nil(t, report.Groups[2].AttemptsToPass)

	assert.Equal(t, OverallMetrics{
		TotalUsers:            2,
		TotalQuizzes:          2,
		TotalAttempts:         4,
		AverageAttemptsToPass: 1.5,
		PassRate:              66.67,
	}, report.Overall)
}

func TestAggregate_NoPasses(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	report := Aggregate([]models.QuizAttempt{
		attemptAt("alice", 1, 1, 10, false, base),
	})

	assert.Equal(t, 0.0, report.Overall.AverageAttemptsToPass)
	assert.Equal(t, 0.0, report.Overall.PassRate)
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(nil)
	assert.Empty(t, report.Groups)
	assert.Equal(t, OverallMetrics{}, report.Overall)
}

func TestAggregate_GroupInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	users := []string{"a", "b", "c"}

	var attempts []models.QuizAttempt
	for i := 0; i < 60; i++ {
		score := float64(rng.Intn(101))
		attempts = append(attempts, attemptAt(
			users[rng.Intn(len(users))], uint(rng.Intn(3)+1), uint(i+1),
			score, score >= 85, base.Add(time.Duration(rng.Intn(10000))*time.Second)))
	}

	report := Aggregate(attempts)
	total := 0
	for _, g := range report.Groups {
		total += g.TotalAttempts
		if g.AttemptsToPass != nil {
			assert.GreaterOrEqual(t, *g.AttemptsToPass, 1)
			assert.LessOrEqual(t, *g.AttemptsToPass, g.TotalAttempts)
		}
		assert.Equal(t, g.AttemptsToPass != nil, g.CurrentlyPassed)
		assert.LessOrEqual(t, g.AverageScore, g.BestScore)
	}
	assert.Equal(t, len(attempts), total)
	assert.Equal(t, report, Aggregate(attempts))
}

func TestValidateQuiz(t *testing.T) {
	assert.Nil(t, ValidateQuiz(fourQuestionQuiz()))

	t.Run("no questions", func(t *testing.T) {
		errs := ValidateQuiz(&models.Quiz{PassingScore: 85})
		require.Len(t, errs, 1)
		assert.Equal(t, "questions", errs[0].Field)
	})

	t.Run("question without a correct answer", func(t *testing.T) {
		quiz := fourQuestionQuiz()
		quiz.Questions[2].Answers[0].IsCorrect = false

		errs := ValidateQuiz(quiz)
		require.Len(t, errs, 1)
		assert.Equal(t, "questions[2].answers", errs[0].Field)
		assert.Equal(t, "one_correct", errs[0].Rule)
	})

	t.Run("two correct answers", func(t *testing.T) {
		quiz := fourQuestionQuiz()
		quiz.Questions[0].Answers[1].IsCorrect = true

		errs := ValidateQuiz(quiz)
		require.Len(t, errs, 1)
		assert.Equal(t, "questions[0].answers", errs[0].Field)
	})

	t.Run("single answer", func(t *testing.T) {
		quiz := fourQuestionQuiz()
		quiz.Questions[1].Answers = quiz.Questions[1].Answers[:1]

		errs := ValidateQuiz(quiz)
		require.Len(t, errs, 1)
		assert.Equal(t, "min", errs[0].Rule)
	})

	t.Run("bad passing score and max attempts", func(t *testing.T) {
		quiz := fourQuestionQuiz()
		quiz.PassingScore = 120
		zero := 0
		quiz.MaxAttempts = &zero

		errs := ValidateQuiz(quiz)
		require.Len(t, errs, 2)
		assert.Equal(t, "passing_score", errs[0].Field)
		assert.Equal(t, "max_attempts", errs[1].Field)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 87.5, Round2(87.5))
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 0.0, Round2(0))
}
