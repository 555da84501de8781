package models

import "time"

// SubmitAttemptRequest is the body of a quiz submission.
type SubmitAttemptRequest struct {
	Answers   AnswerMap  `json:"answers" validate:"required"`
	TimeTaken *int       `json:"time_taken,omitempty" validate:"omitempty,gte=0"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

type CreateAnswerRequest struct {
	Text      string `json:"text" validate:"required,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

type CreateQuestionRequest struct {
	Question string                `json:"question" validate:"required,max=1000"`
	Type     QuestionType          `json:"type" validate:"omitempty,question_type"`
	Answers  []CreateAnswerRequest `json:"answers" validate:"required,min=2,max=10,dive"`
}

type CreateQuizRequest struct {
	Title        string                  `json:"title" validate:"required,max=200"`
	Description  *string                 `json:"description,omitempty" validate:"omitempty,max=2000"`
	PassingScore int                     `json:"passing_score" validate:"passing_score"`
	MaxAttempts  *int                    `json:"max_attempts,omitempty" validate:"omitempty,gte=1"`
	TimeLimit    *int                    `json:"time_limit,omitempty" validate:"omitempty,gte=1"`
	IsPublished  bool                    `json:"is_published"`
	Questions    []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// ToModel builds the quiz definition the request describes. Order indexes
// follow the request order.
func (r *CreateQuizRequest) ToModel(createdBy string) *Quiz {
	passing := r.PassingScore
	if passing == 0 {
		passing = DefaultPassingScore
	}

	quiz := &Quiz{
		Title:        r.Title,
		Description:  r.Description,
		PassingScore: passing,
		MaxAttempts:  r.MaxAttempts,
		TimeLimit:    r.TimeLimit,
		IsPublished:  r.IsPublished,
		CreatedByID:  createdBy,
		Questions:    make([]Question, 0, len(r.Questions)),
	}

	for i, q := range r.Questions {
		qType := q.Type
		if qType == "" {
			qType = QuestionMultipleChoice
		}
		question := Question{
			Text:       q.Question,
			Type:       qType,
			OrderIndex: i,
			Answers:    make([]Answer, 0, len(q.Answers)),
		}
		for j, a := range q.Answers {
			question.Answers = append(question.Answers, Answer{
				Text:       a.Text,
				IsCorrect:  a.IsCorrect,
				OrderIndex: j,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	return quiz
}

// AttemptFilters narrows attempt log queries. Zero values mean "any".
type AttemptFilters struct {
	UserID string `form:"userId"`
	QuizID uint   `form:"quizId"`
}
