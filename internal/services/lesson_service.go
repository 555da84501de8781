package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SAP-F-2025/training-service/internal/events"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"gorm.io/gorm"
)

const lessonCompletedMessage = "Lesson marked as complete"

type lessonService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	log       *ServiceLogger
	publisher events.EventPublisher
	clock     func() time.Time
}

func NewLessonService(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher) LessonService {
	return &lessonService{
		repo:      repo,
		logger:    logger,
		log:       NewServiceLogger(logger, "lesson"),
		publisher: publisher,
		clock:     time.Now,
	}
}

// outlineEntry is one lesson in course reading order.
type outlineEntry struct {
	lesson      models.Lesson
	moduleTitle string
}

// GetCourse returns the course with modules and lessons in reading order.
// A draft course does not exist as far as staff are concerned.
func (s *lessonService) GetCourse(ctx context.Context, requester models.Requester, courseID uint) (*models.Course, error) {
	if requester.UserID == "" {
		return nil, ErrUnauthorized
	}

	course, err := s.repo.Course().GetOutline(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if !courseVisible(requester, course) {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *lessonService) GetLesson(ctx context.Context, requester models.Requester, lessonID uint) (*LessonDetail, error) {
	if requester.UserID == "" {
		return nil, ErrUnauthorized
	}

	lesson, err := s.repo.Course().GetLesson(ctx, nil, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if lesson.Module == nil || lesson.Module.Course == nil || !courseVisible(requester, lesson.Module.Course) {
		return nil, ErrLessonNotFound
	}

	course := lesson.Module.Course
	return &LessonDetail{
		ID:          lesson.ID,
		Title:       lesson.Title,
		Content:     lesson.Content,
		ContentType: lesson.ContentType,
		Duration:    lesson.Duration,
		OrderIndex:  lesson.OrderIndex,
		Module: LessonModule{
			ID:     lesson.Module.ID,
			Title:  lesson.Module.Title,
			Course: CourseRef{ID: course.ID, Title: course.Title, IsPublished: course.IsPublished},
		},
	}, nil
}

func courseVisible(requester models.Requester, course *models.Course) bool {
	return course.IsPublished || requester.CanViewDrafts()
}

func (s *lessonService) Navigation(ctx context.Context, requester models.Requester, lessonID uint) (*LessonNavigation, error) {
	if requester.UserID == "" {
		return nil, ErrUnauthorized
	}

	lesson, outline, err := s.loadOutline(ctx, nil, requester, lessonID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range outline {
		if e.lesson.ID == lesson.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrLessonNotFound
	}

	nav := &LessonNavigation{
		Current: LessonPosition{Index: idx + 1, Total: len(outline)},
	}
	if idx > 0 {
		nav.Previous = outline[idx-1].link()
	}
	if idx < len(outline)-1 {
		nav.Next = outline[idx+1].link()
	}
	return nav, nil
}

func (s *lessonService) Complete(ctx context.Context, requester models.Requester, lessonID uint) (*LessonCompletion, error) {
	start := time.Now()
	if requester.UserID == "" {
		return nil, ErrUnauthorized
	}

	var (
		courseID        uint
		progress        int
		courseCompleted bool
		newlyCompleted  bool
	)
	now := s.clock().UTC()

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		lesson, outline, err := s.loadOutline(ctx, tx, requester, lessonID)
		if err != nil {
			return err
		}
		courseID = lesson.Module.CourseID

		if err := s.repo.User().Upsert(ctx, tx, requester.User()); err != nil {
			return err
		}

		if err := s.repo.Progress().UpsertLessonProgress(ctx, tx, &models.LessonProgress{
			UserID:      requester.UserID,
			LessonID:    lesson.ID,
			IsCompleted: true,
			Progress:    100,
			CompletedAt: &now,
		}); err != nil {
			return err
		}

		lessonIDs := make([]uint, 0, len(outline))
		for _, e := range outline {
			lessonIDs = append(lessonIDs, e.lesson.ID)
		}
		completed, err := s.repo.Progress().CountCompletedLessons(ctx, tx, requester.UserID, lessonIDs)
		if err != nil {
			return err
		}
		progress = coursePercent(completed, len(lessonIDs))
		courseCompleted = progress == 100

		previous, err := s.repo.Progress().GetCourseProgress(ctx, tx, requester.UserID, courseID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return err
		}
		wasCompleted := previous != nil && previous.IsCompleted
		newlyCompleted = courseCompleted && !wasCompleted

		cp := &models.CourseProgress{
			UserID:      requester.UserID,
			CourseID:    courseID,
			Progress:    progress,
			IsCompleted: courseCompleted,
		}
		switch {
		case newlyCompleted:
			cp.CompletedAt = &now
		case courseCompleted:
			cp.CompletedAt = previous.CompletedAt
		}
		return s.repo.Progress().UpsertCourseProgress(ctx, tx, cp)
	})
	s.log.LogOperation(ctx, "complete_lesson", requester.UserID, lessonID, "lesson", time.Since(start), err)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publishCompletion(ctx, requester.UserID, lessonID, courseID, progress, newlyCompleted, now)

	return &LessonCompletion{
		Message:     lessonCompletedMessage,
		Progress:    progress,
		IsCompleted: courseCompleted,
	}, nil
}

// loadOutline returns the lesson and its course flattened by module order
// then lesson order. Lessons of a course the requester cannot see are not
// found.
func (s *lessonService) loadOutline(ctx context.Context, tx *gorm.DB, requester models.Requester, lessonID uint) (*models.Lesson, []outlineEntry, error) {
	lesson, err := s.repo.Course().GetLesson(ctx, tx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrLessonNotFound
		}
		return nil, nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if lesson.Module == nil {
		return nil, nil, ErrLessonNotFound
	}

	course, err := s.repo.Course().GetOutline(ctx, tx, lesson.Module.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrLessonNotFound
		}
		return nil, nil, fmt.Errorf("failed to get course outline: %w", err)
	}
	if !courseVisible(requester, course) {
		return nil, nil, ErrLessonNotFound
	}

	var outline []outlineEntry
	for _, m := range course.Modules {
		for _, l := range m.Lessons {
			outline = append(outline, outlineEntry{lesson: l, moduleTitle: m.Title})
		}
	}
	return lesson, outline, nil
}

func (e outlineEntry) link() *LessonLink {
	return &LessonLink{ID: e.lesson.ID, Title: e.lesson.Title, ModuleTitle: e.moduleTitle}
}

// coursePercent rounds half up, matching how progress is shown to staff.
func coursePercent(completed int64, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func (s *lessonService) publishCompletion(ctx context.Context, userID string, lessonID, courseID uint, progress int, courseCompleted bool, at time.Time) {
	if s.publisher == nil {
		return
	}

	lessonEvent := events.NewLessonCompletedEvent(events.LessonCompletedEvent{
		LessonID:       lessonID,
		CourseID:       courseID,
		UserID:         userID,
		CourseProgress: progress,
	})
	if err := s.publisher.PublishEvent(ctx, lessonEvent); err != nil {
		s.logger.Error("Failed to publish lesson completed event", "lesson_id", lessonID, "error", err)
	}

	if !courseCompleted {
		return
	}
	courseEvent := events.NewCourseCompletedEvent(events.CourseCompletedEvent{
		CourseID:    courseID,
		UserID:      userID,
		CompletedAt: at,
	})
	if err := s.publisher.PublishEvent(ctx, courseEvent); err != nil {
		s.logger.Error("Failed to publish course completed event", "course_id", courseID, "error", err)
	}
}
