package models

import (
	"time"
)

type ContentType string

const (
	ContentText     ContentType = "TEXT"
	ContentVideo    ContentType = "VIDEO"
	ContentDocument ContentType = "DOCUMENT"
)

type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200"`
	Description *string `json:"description" gorm:"type:text"`
	IsPublished bool    `json:"is_published" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}

type Module struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	CourseID   uint   `json:"course_id" gorm:"not null;index"`
	Title      string `json:"title" gorm:"not null;size:200"`
	OrderIndex int    `json:"order_index" gorm:"not null;default:0"`

	Course  *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

func (Module) TableName() string {
	return "modules"
}

type Lesson struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ModuleID    uint        `json:"module_id" gorm:"not null;index"`
	Title       string      `json:"title" gorm:"not null;size:200"`
	Content     string      `json:"content" gorm:"type:text"`
	ContentType ContentType `json:"content_type" gorm:"not null;default:TEXT;size:20"`
	Duration    int         `json:"duration"` // Minutes
	OrderIndex  int         `json:"order_index" gorm:"not null;default:0"`

	Module *Module `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type LessonProgress struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_lesson_progress_user_lesson,priority:1"`
	LessonID    uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_lesson_progress_user_lesson,priority:2"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	Progress    int        `json:"progress" gorm:"default:0"`
	CompletedAt *time.Time `json:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

type CourseProgress struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_course_progress_user_course,priority:1"`
	CourseID    uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_course_progress_user_course,priority:2"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	Progress    int        `json:"progress" gorm:"default:0"`
	CompletedAt *time.Time `json:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

// AllModels lists every table the service owns, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Quiz{},
		&Question{},
		&Answer{},
		&QuizAttempt{},
		&Course{},
		&Module{},
		&Lesson{},
		&LessonProgress{},
		&CourseProgress{},
	}
}
