package scoring

import (
	"github.com/SAP-F-2025/training-service/internal/errors"
	"github.com/SAP-F-2025/training-service/internal/models"
)

// Result is the outcome of scoring one submission.
type Result struct {
	CorrectCount   int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	Score          float64 `json:"score"`
	Passed         bool    `json:"passed"`
	Threshold      float64 `json:"passing_score"`
}

// ScoreAttempt grades every question of the quiz against answers. The score
// is left unrounded. Missing answers count as incorrect; a quiz without
// questions is rejected.
func ScoreAttempt(quiz *models.Quiz, answers models.AnswerMap) (Result, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return Result{}, errors.ValidationErrors{
			*errors.NewValidationErrorWithRule("questions", "quiz must contain at least one question", "min", 0),
		}
	}

	correct := 0
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		submitted, ok := answers[q.ID]
		if GradeAnswer(q, submitted, ok) {
			correct++
		}
	}

	threshold := quiz.EffectivePassingScore()
	score := float64(correct) / float64(total) * 100

	return Result{
		CorrectCount:   correct,
		TotalQuestions: total,
		Score:          score,
		Passed:         score >= threshold,
		Threshold:      threshold,
	}, nil
}
