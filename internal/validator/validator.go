package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/training-service/internal/errors"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/go-playground/validator/v10"
)

type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors

// Validator runs struct tag checks on request payloads, then the quiz
// authoring rules tags cannot express.
type Validator struct {
	tags *validator.Validate
	quiz *QuizValidator
}

func New() *Validator {
	tags := validator.New()
	tags.RegisterTagNameFunc(jsonFieldName)
	tags.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		switch models.QuestionType(fl.Field().String()) {
		case models.QuestionMultipleChoice, models.QuestionTrueFalse:
			return true
		}
		return false
	})
	tags.RegisterValidation("passing_score", func(fl validator.FieldLevel) bool {
		score := fl.Field().Int()
		return score >= 0 && score <= 100
	})

	return &Validator{tags: tags, quiz: NewQuizValidator()}
}

// jsonFieldName reports fields under their wire names so clients can map
// errors back to their payload.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Validate checks struct tags. Failures come back as ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	err := v.tags.Struct(s)
	if err == nil {
		return nil
	}
	if verrs := errors.ToValidationErrors(err); len(verrs) > 0 {
		return verrs
	}
	return err
}

// ValidateQuizCreate checks a new quiz's tags and then its authoring rules.
func (v *Validator) ValidateQuizCreate(req *models.CreateQuizRequest) error {
	if err := v.Validate(req); err != nil {
		return err
	}
	if errs := v.quiz.ValidateCreate(req); len(errs) > 0 {
		return errs
	}
	return nil
}
