package models

import (
	"time"
)

// DefaultPassingScore applies to quizzes authored without an explicit passing score.
const DefaultPassingScore = 85

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
)

type Quiz struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Title        string  `json:"title" gorm:"not null;size:200;index"`
	Description  *string `json:"description" gorm:"type:text"`
	PassingScore int     `json:"passing_score" gorm:"not null;default:85"`
	MaxAttempts  *int    `json:"max_attempts"`
	TimeLimit    *int    `json:"time_limit"` // Seconds
	IsPublished  bool    `json:"is_published" gorm:"default:false;index"`

	CreatedByID string    `json:"created_by_id" gorm:"size:255;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`

	// Computed fields (not stored)
	QuestionsCount int64 `json:"questions_count,omitempty" gorm:"-"`
	AttemptsCount  int64 `json:"attempts_count,omitempty" gorm:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// EffectivePassingScore is the threshold an attempt's score is compared against.
func (q *Quiz) EffectivePassingScore() float64 {
	if q.PassingScore <= 0 {
		return DefaultPassingScore
	}
	return float64(q.PassingScore)
}

type Question struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	QuizID     uint         `json:"quiz_id" gorm:"not null;index"`
	Text       string       `json:"question" gorm:"column:question;type:text;not null"`
	Type       QuestionType `json:"type" gorm:"not null;default:MULTIPLE_CHOICE;size:30"`
	OrderIndex int          `json:"order_index" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Answers []Answer `json:"answers" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectAnswer returns the answer flagged correct, or nil when the question
// was authored without one.
func (q *Question) CorrectAnswer() *Answer {
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			return &q.Answers[i]
		}
	}
	return nil
}

type Answer struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"type:text;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"not null;default:0"`
}

func (Answer) TableName() string {
	return "answers"
}
