package scoring

import (
	"fmt"

	"github.com/SAP-F-2025/training-service/internal/errors"
	"github.com/SAP-F-2025/training-service/internal/models"
)

const minAnswersPerQuestion = 2

// ValidateQuiz checks the authoring invariants a quiz must satisfy before it
// can accept attempts. It returns nil when the quiz is well formed.
func ValidateQuiz(quiz *models.Quiz) errors.ValidationErrors {
	var errs errors.ValidationErrors

	if quiz.PassingScore < 0 || quiz.PassingScore > 100 {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			"passing_score", "must be between 0 and 100", "passing_score", quiz.PassingScore))
	}
	if quiz.MaxAttempts != nil && *quiz.MaxAttempts < 1 {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			"max_attempts", "must be at least 1", "min", *quiz.MaxAttempts))
	}
	if len(quiz.Questions) == 0 {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			"questions", "quiz must contain at least one question", "min", 0))
		return errs
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		field := fmt.Sprintf("questions[%d]", i)

		if len(q.Answers) < minAnswersPerQuestion {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				field+".answers", fmt.Sprintf("must have at least %d answers", minAnswersPerQuestion), "min", len(q.Answers)))
		}

		correct := 0
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				field+".answers", "must have exactly one correct answer", "one_correct", correct))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
