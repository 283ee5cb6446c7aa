package course

import "time"

// Progress states per (learner, lesson): absent -> started -> completed.
const (
	ProgressStarted   = "started"
	ProgressCompleted = "completed"
)

// LessonProgress is the per-learner, per-lesson viewing state. Rows are keyed
// by the composite unique index and written only after the caller's current
// authorization to view the lesson has been re-checked. Rows survive unenroll.
type LessonProgress struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	UserID        uint      `json:"user_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	LessonID      uint      `json:"lesson_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	CourseID      uint      `json:"course_id" gorm:"index;not null"`
	Status        string    `json:"status" gorm:"default:'started'"` // started, completed
	LastWatchedAt time.Time `json:"last_watched_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
