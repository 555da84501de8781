package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository records user upserts so tests can assert on them.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

// fakeRepository keeps every table in memory. The attempt log honours the
// (user, quiz, attempt number) uniqueness unless allowDuplicates is set.
type fakeRepository struct {
	mu sync.Mutex

	quizzes  map[uint]*models.Quiz
	attempts []models.QuizAttempt
	nextID   uint

	allowDuplicates bool
	// afterNumberRead runs once the next attempt number has been read
	afterNumberRead func()
	createErr       error

	courses        map[uint]*models.Course
	lessonProgress map[string]models.LessonProgress
	courseProgress map[string]models.CourseProgress

	users    *MockUserRepository
	userRows map[string]*models.User
}

func newFakeRepository() *fakeRepository {
	users := &MockUserRepository{}
	users.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return &fakeRepository{
		quizzes:        make(map[uint]*models.Quiz),
		courses:        make(map[uint]*models.Course),
		lessonProgress: make(map[string]models.LessonProgress),
		courseProgress: make(map[string]models.CourseProgress),
		users:          users,
		userRows:       make(map[string]*models.User),
	}
}

func (r *fakeRepository) Quiz() repositories.QuizRepository         { return fakeQuizRepo{r} }
func (r *fakeRepository) Attempt() repositories.AttemptRepository   { return fakeAttemptRepo{r} }
func (r *fakeRepository) User() repositories.UserRepository         { return fakeUserRepo{r} }
func (r *fakeRepository) Course() repositories.CourseRepository     { return fakeCourseRepo{r} }
func (r *fakeRepository) Progress() repositories.ProgressRepository { return fakeProgressRepo{r} }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (r *fakeRepository) addUser(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userRows[u.ID] = u
}

func (r *fakeRepository) addQuiz(q *models.Quiz) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[q.ID] = q
}

// seedAttempt appends a stored attempt.
func (r *fakeRepository) seedAttempt(a models.QuizAttempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	r.attempts = append(r.attempts, a)
}

func (r *fakeRepository) attemptNumbers() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	numbers := make([]int, 0, len(r.attempts))
	for _, a := range r.attempts {
		numbers = append(numbers, a.AttemptNumber)
	}
	sort.Ints(numbers)
	return numbers
}

// fakeUserRepo records upserts on the testify mock and serves GetByIDs from
// the rows added with addUser.
type fakeUserRepo struct{ r *fakeRepository }

func (f fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	u, ok := f.r.userRows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (f fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, err := f.GetByID(ctx, tx, id); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f fakeUserRepo) Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return f.r.users.Upsert(ctx, tx, user)
}

type fakeQuizRepo struct{ r *fakeRepository }

func (f fakeQuizRepo) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	quiz.ID = uint(len(f.r.quizzes) + 1)
	for i := range quiz.Questions {
		quiz.Questions[i].ID = uint(i + 1)
		quiz.Questions[i].QuizID = quiz.ID
	}
	f.r.quizzes[quiz.ID] = quiz
	return nil
}

func (f fakeQuizRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	return f.GetByIDWithDetails(ctx, tx, id)
}

func (f fakeQuizRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	q, ok := f.r.quizzes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return q, nil
}

func (f fakeQuizRepo) ListWithCounts(ctx context.Context, tx *gorm.DB) ([]*models.Quiz, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Quiz
	for _, q := range f.r.quizzes {
		c := *q
		c.QuestionsCount = int64(len(q.Questions))
		for _, a := range f.r.attempts {
			if a.QuizID == q.ID {
				c.AttemptsCount++
			}
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeQuizRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Quiz, error) {
	var out []*models.Quiz
	for _, id := range ids {
		if q, err := f.GetByID(ctx, tx, id); err == nil {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeAttemptRepo struct{ r *fakeRepository }

func (f fakeAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if f.r.createErr != nil {
		return f.r.createErr
	}
	if !f.r.allowDuplicates {
		for _, a := range f.r.attempts {
			if a.UserID == attempt.UserID && a.QuizID == attempt.QuizID && a.AttemptNumber == attempt.AttemptNumber {
				return repositories.ErrDuplicateAttemptNumber
			}
		}
	}
	f.r.nextID++
	attempt.ID = f.r.nextID
	f.r.attempts = append(f.r.attempts, *attempt)
	return nil
}

func (f fakeAttemptRepo) GetNextAttemptNumber(ctx context.Context, tx *gorm.DB, userID string, quizID uint) (int, error) {
	f.r.mu.Lock()
	highest := 0
	for _, a := range f.r.attempts {
		if a.UserID == userID && a.QuizID == quizID && a.AttemptNumber > highest {
			highest = a.AttemptNumber
		}
	}
	hook := f.r.afterNumberRead
	f.r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return highest + 1, nil
}

func (f fakeAttemptRepo) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID string, quizID uint) ([]models.QuizAttempt, error) {
	return f.List(ctx, tx, models.AttemptFilters{UserID: userID, QuizID: quizID})
}

func (f fakeAttemptRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]models.QuizAttempt, error) {
	return f.List(ctx, tx, models.AttemptFilters{UserID: userID})
}

func (f fakeAttemptRepo) List(ctx context.Context, tx *gorm.DB, filters models.AttemptFilters) ([]models.QuizAttempt, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []models.QuizAttempt
	for _, a := range f.r.attempts {
		if filters.UserID != "" && a.UserID != filters.UserID {
			continue
		}
		if filters.QuizID != 0 && a.QuizID != filters.QuizID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeCourseRepo struct{ r *fakeRepository }

func (f fakeCourseRepo) GetLesson(ctx context.Context, tx *gorm.DB, lessonID uint) (*models.Lesson, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, c := range f.r.courses {
		for _, m := range c.Modules {
			for _, l := range m.Lessons {
				if l.ID == lessonID {
					course := *c
					course.Modules = nil
					module := m
					module.Lessons = nil
					module.Course = &course
					l.Module = &module
					return &l, nil
				}
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (f fakeCourseRepo) GetOutline(ctx context.Context, tx *gorm.DB, courseID uint) (*models.Course, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	c, ok := f.r.courses[courseID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *c
	out.Modules = append([]models.Module(nil), c.Modules...)
	sort.SliceStable(out.Modules, func(i, j int) bool { return out.Modules[i].OrderIndex < out.Modules[j].OrderIndex })
	for i := range out.Modules {
		lessons := append([]models.Lesson(nil), out.Modules[i].Lessons...)
		sort.SliceStable(lessons, func(a, b int) bool { return lessons[a].OrderIndex < lessons[b].OrderIndex })
		out.Modules[i].Lessons = lessons
	}
	return &out, nil
}

type fakeProgressRepo struct{ r *fakeRepository }

func progressKey(userID string, id uint) string {
	return fmt.Sprintf("%s:%d", userID, id)
}

func (f fakeProgressRepo) UpsertLessonProgress(ctx context.Context, tx *gorm.DB, progress *models.LessonProgress) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.lessonProgress[progressKey(progress.UserID, progress.LessonID)] = *progress
	return nil
}

func (f fakeProgressRepo) CountCompletedLessons(ctx context.Context, tx *gorm.DB, userID string, lessonIDs []uint) (int64, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var count int64
	for _, id := range lessonIDs {
		if p, ok := f.r.lessonProgress[progressKey(userID, id)]; ok && p.IsCompleted {
			count++
		}
	}
	return count, nil
}

func (f fakeProgressRepo) UpsertCourseProgress(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.courseProgress[progressKey(progress.UserID, progress.CourseID)] = *progress
	return nil
}

func (f fakeProgressRepo) GetCourseProgress(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.CourseProgress, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	p, ok := f.r.courseProgress[progressKey(userID, courseID)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}
