package courseController

import (
	"eduflow/middleware"
	courseModels "eduflow/models/course"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loadViewableLesson resolves the (course, lesson) pair and re-checks the
// caller's authorization to view it. Shared by every progress write so no
// transition can bypass the check.
func (ctrl *CourseController) loadViewableLesson(c *fiber.Ctx, userID uint) (*courseModels.Course, *courseModels.Lesson, error) {
	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var crs courseModels.Course
	if err := ctrl.DB.Where("id = ?", courseID).First(&crs).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lesson courseModels.Lesson
	if err := ctrl.DB.Where("id = ? AND course_id = ?", lessonID, crs.ID).First(&lesson).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if !CanViewLesson(ctrl.DB, userID, &crs, &lesson) {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this lesson!", nil)
	}

	return &crs, &lesson, nil
}

// RecordView upserts the caller's progress row to started. Anonymous views
// are silently ignored. The upsert only refreshes last_watched_at on an
// existing row, so a completed lesson is never downgraded.
func (ctrl *CourseController) RecordView(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	if userID == 0 {
		// Guest view, nothing to track.
		return middleware.JsonResponse(c, fiber.StatusOK, true, "View recorded.", nil)
	}

	crs, lesson, err := ctrl.loadViewableLesson(c, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	progress := courseModels.LessonProgress{
		UserID:        userID,
		LessonID:      lesson.ID,
		CourseID:      crs.ID,
		Status:        courseModels.ProgressStarted,
		LastWatchedAt: now,
	}

	if err := ctrl.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_watched_at": now,
			"updated_at":      now,
		}),
	}).Create(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record view!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "View recorded.", nil)
}

// MarkCompleted sets the caller's progress for the lesson to completed,
// creating the row if it is somehow absent. Repeat calls are idempotent.
func (ctrl *CourseController) MarkCompleted(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	crs, lesson, err := ctrl.loadViewableLesson(c, userID)
	if err != nil {
		return err
	}

	now := time.Now()

	var progress courseModels.LessonProgress
	dbErr := ctrl.DB.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&progress).Error
	if dbErr == gorm.ErrRecordNotFound {
		progress = courseModels.LessonProgress{
			UserID:        userID,
			LessonID:      lesson.ID,
			CourseID:      crs.ID,
			Status:        courseModels.ProgressCompleted,
			LastWatchedAt: now,
		}
		if err := ctrl.DB.Create(&progress).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson completed!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", progress)
	}
	if dbErr != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson completed!", nil)
	}

	if err := ctrl.DB.Model(&progress).Updates(map[string]interface{}{
		"status":          courseModels.ProgressCompleted,
		"last_watched_at": now,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson completed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", progress)
}

// GetLessonProgress returns the caller's status for one lesson, null when no
// row exists. Historical rows stay readable after unenroll.
func (ctrl *CourseController) GetLessonProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var progress courseModels.LessonProgress
	if err := ctrl.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No progress recorded.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}

// GetCourseProgress summarises the caller's progress across a course.
func (ctrl *CourseController) GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var totalLessons int64
	ctrl.DB.Model(&courseModels.Lesson{}).Where("course_id = ?", courseID).Count(&totalLessons)

	var records []courseModels.LessonProgress
	if err := ctrl.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&records).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	completed := 0
	for _, record := range records {
		if record.Status == courseModels.ProgressCompleted {
			completed++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"records":           records,
		"total_lessons":     totalLessons,
		"completed_lessons": completed,
	})
}
