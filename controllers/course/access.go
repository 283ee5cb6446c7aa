package courseController

import (
	courseModels "eduflow/models/course"

	"gorm.io/gorm"
)

// IsEnrolled reports whether the user holds an enrollment for the course.
// Every visibility decision below goes through this lookup; it is never
// cached, so revoking an enrollment takes effect on the next access.
func IsEnrolled(db *gorm.DB, userID, courseID uint) bool {
	if userID == 0 {
		return false
	}
	var enrollment courseModels.Enrollment
	return db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error == nil
}

// CanViewCourse reports whether the user may see the course at all:
// the owner always, everyone else only once it is published.
func CanViewCourse(userID uint, crs *courseModels.Course) bool {
	if userID != 0 && crs.CreatorID == userID {
		return true
	}
	return crs.Status == courseModels.StatusPublished
}

// CanViewLesson is the authorization gate for lesson content. A lesson is
// viewable iff the caller owns the parent course, is enrolled in it, or the
// lesson is a preview. Re-derived on every call - listing-time locking is a
// UX hint, this check is the boundary.
func CanViewLesson(db *gorm.DB, userID uint, crs *courseModels.Course, lesson *courseModels.Lesson) bool {
	if lesson.IsPreview {
		return true
	}
	if userID == 0 {
		return false
	}
	if crs.CreatorID == userID {
		return true
	}
	return IsEnrolled(db, userID, crs.ID)
}
