package course

import "time"

// Enrollment grants a learner access to all non-preview lessons of a course.
// The composite unique index is the source of truth for idempotent enrollment;
// the application-level pre-check is advisory. No DeletedAt here: unenroll
// removes the row outright so a later re-enroll can insert again.
type Enrollment struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID   uint      `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime"`

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
