package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/scoring"
)

// ===== SERVICE INTERFACES =====

type AttemptService interface {
	// Submit scores a submission and records it as the requester's next attempt
	Submit(ctx context.Context, requester models.Requester, quizID uint, req *models.SubmitAttemptRequest) (*SubmitAttemptResponse, error)
	// History lists a user's attempts at a quiz with derived statistics.
	// An empty targetUserID means the requester.
	History(ctx context.Context, requester models.Requester, quizID uint, targetUserID string) (*AttemptHistoryResponse, error)
	// MyProgress summarizes every quiz the requester has attempted
	MyProgress(ctx context.Context, requester models.Requester) (*ProgressResponse, error)
}

type QuizService interface {
	// GetForAttempt returns the quiz as the requester may see it while taking it
	GetForAttempt(ctx context.Context, requester models.Requester, quizID uint) (*QuizView, error)
	List(ctx context.Context, requester models.Requester) ([]*QuizListItem, error)
	Create(ctx context.Context, requester models.Requester, req *models.CreateQuizRequest) (*models.Quiz, error)
}

type AnalyticsService interface {
	AssessmentStats(ctx context.Context, requester models.Requester, filters models.AttemptFilters) (*AssessmentStatsResponse, error)
	ExportAssessmentStats(ctx context.Context, requester models.Requester, filters models.AttemptFilters) ([]byte, error)
}

type LessonService interface {
	GetCourse(ctx context.Context, requester models.Requester, courseID uint) (*models.Course, error)
	GetLesson(ctx context.Context, requester models.Requester, lessonID uint) (*LessonDetail, error)
	Navigation(ctx context.Context, requester models.Requester, lessonID uint) (*LessonNavigation, error)
	Complete(ctx context.Context, requester models.Requester, lessonID uint) (*LessonCompletion, error)
}

// ===== RESPONSE TYPES =====

type SubmitAttemptResponse struct {
	Attempt        *models.QuizAttempt `json:"attempt"`
	Score          float64             `json:"score"`
	Passed         bool                `json:"passed"`
	AttemptNumber  int                 `json:"attempt_number"`
	CorrectAnswers int                 `json:"correct_answers"`
	TotalQuestions int                 `json:"total_questions"`
	PassingScore   float64             `json:"passing_score"`
	FirstPass      bool                `json:"first_pass"`
}

type AttemptHistoryResponse struct {
	Attempts   []models.QuizAttempt    `json:"attempts"`
	Statistics scoring.ProgressSummary `json:"statistics"`
}

// QuizProgress is one quiz line of a user's profile
type QuizProgress struct {
	QuizTitle string `json:"quiz_title"`
	scoring.ProgressSummary
}

type ProgressResponse struct {
	UserID  string         `json:"user_id"`
	Quizzes []QuizProgress `json:"quizzes"`
}

// QuizView is a quiz as served to a quiz taker. IsCorrect is only set for
// requesters who may author quizzes.
type QuizView struct {
	ID           uint           `json:"id"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	PassingScore int            `json:"passing_score"`
	MaxAttempts  *int           `json:"max_attempts"`
	TimeLimit    *int           `json:"time_limit"`
	IsPublished  bool           `json:"is_published"`
	Questions    []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID         uint                `json:"id"`
	Question   string              `json:"question"`
	Type       models.QuestionType `json:"type"`
	OrderIndex int                 `json:"order_index"`
	Answers    []AnswerView        `json:"answers"`
}

type AnswerView struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	OrderIndex int    `json:"order_index"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

type QuizListItem struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	PassingScore   int       `json:"passing_score"`
	IsPublished    bool      `json:"is_published"`
	CreatedAt      time.Time `json:"created_at"`
	QuestionsCount int64     `json:"questions_count"`
	AttemptsCount  int64     `json:"attempts_count"`
}

type UserSummary struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

type QuizSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// UserQuizStats is one (user, quiz) group of the assessment report
type UserQuizStats struct {
	User UserSummary `json:"user"`
	Quiz QuizSummary `json:"quiz"`
	scoring.ProgressSummary
}

type AssessmentStatsResponse struct {
	UserQuizStats  []UserQuizStats        `json:"user_quiz_stats"`
	OverallMetrics scoring.OverallMetrics `json:"overall_metrics"`
}

// LessonDetail is a lesson's content with the module and course it sits in.
type LessonDetail struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	ContentType models.ContentType `json:"content_type"`
	Duration    int                `json:"duration"`
	OrderIndex  int                `json:"order_index"`
	Module      LessonModule       `json:"module"`
}

type LessonModule struct {
	ID     uint      `json:"id"`
	Title  string    `json:"title"`
	Course CourseRef `json:"course"`
}

type CourseRef struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	IsPublished bool   `json:"is_published"`
}

type LessonLink struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	ModuleTitle string `json:"module_title"`
}

type LessonPosition struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

type LessonNavigation struct {
	Previous *LessonLink    `json:"previous"`
	Next     *LessonLink    `json:"next"`
	Current  LessonPosition `json:"current"`
}

type LessonCompletion struct {
	Message     string `json:"message"`
	Progress    int    `json:"progress"`
	IsCompleted bool   `json:"is_completed"`
}
