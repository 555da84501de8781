package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "training-service"
	eventVersion = "1.0"
)

// EventType represents different types of training events
type EventType string

const (
	// Attempt events
	EventAttemptSubmitted EventType = "attempt.submitted"
	EventQuizPassed       EventType = "quiz.passed"

	// Authoring events
	EventQuizCreated EventType = "quiz.created"

	// Lesson events
	EventLessonCompleted EventType = "lesson.completed"
	EventCourseCompleted EventType = "course.completed"
)

// TrainingEvent is the envelope for every event the service emits
type TrainingEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`

	// Key orders delivery: events sharing a key land on one partition.
	Key string `json:"-"`
}

// Attempt event payloads

type AttemptSubmittedEvent struct {
	AttemptID      uint      `json:"attempt_id"`
	QuizID         uint      `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	UserID         string    `json:"user_id"`
	AttemptNumber  int       `json:"attempt_number"`
	Score          float64   `json:"score"`
	Passed         bool      `json:"passed"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

type QuizPassedEvent struct {
	QuizID         uint      `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	UserID         string    `json:"user_id"`
	AttemptsToPass int       `json:"attempts_to_pass"`
	Score          float64   `json:"score"`
	PassedAt       time.Time `json:"passed_at"`
}

type QuizCreatedEvent struct {
	QuizID        uint   `json:"quiz_id"`
	QuizTitle     string `json:"quiz_title"`
	QuestionCount int    `json:"question_count"`
	CreatorID     string `json:"creator_id"`
	IsPublished   bool   `json:"is_published"`
}

// Lesson event payloads

type LessonCompletedEvent struct {
	LessonID       uint   `json:"lesson_id"`
	CourseID       uint   `json:"course_id"`
	UserID         string `json:"user_id"`
	CourseProgress int    `json:"course_progress"`
}

type CourseCompletedEvent struct {
	CourseID    uint      `json:"course_id"`
	UserID      string    `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// Event factory functions

func newEvent(eventType EventType, key string, data interface{}) *TrainingEvent {
	return &TrainingEvent{
		Key:       key,
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewAttemptSubmittedEvent(data AttemptSubmittedEvent) *TrainingEvent {
	return newEvent(EventAttemptSubmitted, data.UserID, data)
}

func NewQuizPassedEvent(data QuizPassedEvent) *TrainingEvent {
	return newEvent(EventQuizPassed, data.UserID, data)
}

func NewQuizCreatedEvent(data QuizCreatedEvent) *TrainingEvent {
	return newEvent(EventQuizCreated, data.CreatorID, data)
}

func NewLessonCompletedEvent(data LessonCompletedEvent) *TrainingEvent {
	return newEvent(EventLessonCompleted, data.UserID, data)
}

func NewCourseCompletedEvent(data CourseCompletedEvent) *TrainingEvent {
	return newEvent(EventCourseCompleted, data.UserID, data)
}

// GenerateEventID returns a random unique event id
func GenerateEventID() string {
	return uuid.NewString()
}
