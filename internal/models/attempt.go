package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerMap is a submission: question id -> chosen answer id.
type AnswerMap map[uint]uint

// QuizAttempt is an append-only record of one submission. Rows are never
// updated or deleted; statistics are always derived from the full log.
type QuizAttempt struct {
	ID            uint                          `json:"id" gorm:"primaryKey"`
	UserID        string                        `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_attempt_user_quiz_number,priority:1;index:idx_attempt_user_quiz,priority:1"`
	QuizID        uint                          `json:"quiz_id" gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number,priority:2;index:idx_attempt_user_quiz,priority:2"`
	AttemptNumber int                           `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number,priority:3"`
	Score         float64                       `json:"score" gorm:"not null"`
	Passed        bool                          `json:"passed" gorm:"not null;index"`
	Answers       datatypes.JSONType[AnswerMap] `json:"answers" gorm:"type:jsonb"`
	TimeTaken     *int                          `json:"time_taken"` // Seconds
	StartedAt     time.Time                     `json:"started_at" gorm:"not null"`
	CompletedAt   time.Time                     `json:"completed_at" gorm:"not null;index"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Quiz *Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
