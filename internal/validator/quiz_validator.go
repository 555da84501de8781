package validator

import (
	"fmt"

	"github.com/SAP-F-2025/training-service/internal/errors"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/scoring"
)

const maxQuestionsPerQuiz = 100

// QuizValidator handles quiz authoring rules that struct tags cannot express
type QuizValidator struct{}

// NewQuizValidator creates a new quiz validator
func NewQuizValidator() *QuizValidator {
	return &QuizValidator{}
}

// ValidateCreate checks a create request against the authoring invariants
func (v *QuizValidator) ValidateCreate(req *models.CreateQuizRequest) ValidationErrors {
	var errs ValidationErrors

	if len(req.Questions) > maxQuestionsPerQuiz {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			"questions", fmt.Sprintf("cannot have more than %d questions", maxQuestionsPerQuiz), "max", len(req.Questions)))
	}

	for i, q := range req.Questions {
		if err := v.ValidateQuestion(i, q); err != nil {
			errs = append(errs, *err)
		}
	}

	errs = append(errs, scoring.ValidateQuiz(req.ToModel(""))...)
	return errs
}

// ValidateQuestion validates type specific answer layout
func (v *QuizValidator) ValidateQuestion(index int, q models.CreateQuestionRequest) *ValidationError {
	field := fmt.Sprintf("questions[%d].answers", index)

	switch q.Type {
	case models.QuestionTrueFalse:
		if len(q.Answers) != 2 {
			return errors.NewValidationErrorWithRule(field, "true/false questions must have exactly 2 answers", "len", len(q.Answers))
		}
	case "", models.QuestionMultipleChoice:
		seen := make(map[string]bool, len(q.Answers))
		for _, a := range q.Answers {
			if seen[a.Text] {
				return errors.NewValidationErrorWithRule(field, fmt.Sprintf("duplicate answer text '%s'", a.Text), "unique", a.Text)
			}
			seen[a.Text] = true
		}
	default:
		return errors.NewValidationErrorWithRule(fmt.Sprintf("questions[%d].type", index), "unsupported question type", "question_type", q.Type)
	}

	return nil
}
