package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/training-service/internal/events"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/SAP-F-2025/training-service/internal/validator"
	"gorm.io/gorm"
)

type quizService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	log       *ServiceLogger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewQuizService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) QuizService {
	return &quizService{
		repo:      repo,
		logger:    logger,
		log:       NewServiceLogger(logger, "quiz"),
		validator: validator,
		publisher: publisher,
	}
}

func (s *quizService) GetForAttempt(ctx context.Context, requester models.Requester, quizID uint) (*QuizView, error) {
	if requester.UserID == "" {
		return nil, ErrUnauthorized
	}

	quiz, err := s.repo.Quiz().GetByIDWithDetails(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if !quiz.IsPublished && !requester.CanViewDrafts() {
		return nil, ErrQuizNotFound
	}

	return buildQuizView(quiz, requester.CanAuthorQuizzes()), nil
}

func (s *quizService) List(ctx context.Context, requester models.Requester) ([]*QuizListItem, error) {
	if !requester.IsAdmin() {
		err := NewPermissionError(requester.UserID, 0, "quiz", "list", "admin role required")
		s.log.LogPermissionDenied(ctx, "list_quizzes", err)
		return nil, err
	}

	quizzes, err := s.repo.Quiz().ListWithCounts(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	items := make([]*QuizListItem, 0, len(quizzes))
	for _, q := range quizzes {
		items = append(items, &QuizListItem{
			ID:             q.ID,
			Title:          q.Title,
			Description:    q.Description,
			PassingScore:   q.PassingScore,
			IsPublished:    q.IsPublished,
			CreatedAt:      q.CreatedAt,
			QuestionsCount: q.QuestionsCount,
			AttemptsCount:  q.AttemptsCount,
		})
	}
	return items, nil
}

func (s *quizService) Create(ctx context.Context, requester models.Requester, req *models.CreateQuizRequest) (*models.Quiz, error) {
	start := time.Now()
	s.logger.Info("Creating quiz", "creator_id", requester.UserID, "title", req.Title)

	if !requester.CanAuthorQuizzes() {
		err := NewPermissionError(requester.UserID, 0, "quiz", "create", "insufficient role permissions")
		s.log.LogPermissionDenied(ctx, "create_quiz", err)
		return nil, err
	}

	// Nothing is written for a quiz that fails authoring rules
	if err := s.validator.ValidateQuizCreate(req); err != nil {
		if verrs, ok := err.(ValidationErrors); ok {
			s.log.LogValidationError(ctx, "create_quiz", requester.UserID, verrs)
		}
		return nil, err
	}

	quiz := req.ToModel(requester.UserID)
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.User().Upsert(ctx, tx, requester.User()); err != nil {
			return err
		}
		return s.repo.Quiz().Create(ctx, tx, quiz)
	})
	s.log.LogOperation(ctx, "create_quiz", requester.UserID, quiz.ID, "quiz", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create quiz: %v", ErrPersistence, err)
	}

	s.log.LogAudit(ctx, AuditEventCreate, "create_quiz", requester.UserID, quiz.ID, "quiz", quiz.Title)

	if s.publisher != nil {
		event := events.NewQuizCreatedEvent(events.QuizCreatedEvent{
			QuizID:        quiz.ID,
			QuizTitle:     quiz.Title,
			QuestionCount: len(quiz.Questions),
			CreatorID:     requester.UserID,
			IsPublished:   quiz.IsPublished,
		})
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			s.logger.Error("Failed to publish quiz created event", "quiz_id", quiz.ID, "error", err)
		}
	}

	return quiz, nil
}

func buildQuizView(quiz *models.Quiz, withCorrectness bool) *QuizView {
	view := &QuizView{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		PassingScore: quiz.PassingScore,
		MaxAttempts:  quiz.MaxAttempts,
		TimeLimit:    quiz.TimeLimit,
		IsPublished:  quiz.IsPublished,
		Questions:    make([]QuestionView, 0, len(quiz.Questions)),
	}

	for _, q := range quiz.Questions {
		qv := QuestionView{
			ID:         q.ID,
			Question:   q.Text,
			Type:       q.Type,
			OrderIndex: q.OrderIndex,
			Answers:    make([]AnswerView, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			av := AnswerView{ID: a.ID, Text: a.Text, OrderIndex: a.OrderIndex}
			if withCorrectness {
				correct := a.IsCorrect
				av.IsCorrect = &correct
			}
			qv.Answers = append(qv.Answers, av)
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}
