package courseController

import (
	"eduflow/middleware"
	"eduflow/models"
	courseModels "eduflow/models/course"
	"eduflow/utils"
	userValidator "eduflow/validators/user"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Enroll grants the caller access to a published course. Idempotent: an
// existing enrollment, whether found by the pre-check or reported by the
// unique index under a concurrent race, is success, not an error.
func (ctrl *CourseController) Enroll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := ctrl.DB.Where("id = ? AND status = ?", courseID, courseModels.StatusPublished).
		First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Advisory pre-check; the unique index below is the source of truth.
	var existing courseModels.Enrollment
	if err := ctrl.DB.Where("user_id = ? AND course_id = ?", userID, crs.ID).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled in this course.", fiber.Map{
			"enrollment":       existing,
			"already_enrolled": true,
		})
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: crs.ID,
	}
	if err := ctrl.DB.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent enroll won the race; report success either way.
			ctrl.DB.Where("user_id = ? AND course_id = ?", userID, crs.ID).First(&enrollment)
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled in this course.", fiber.Map{
				"enrollment":       enrollment,
				"already_enrolled": true,
			})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	utils.Audit(ctrl.DB, models.LogInfo, "User enrolled in course: "+crs.Title,
		map[string]interface{}{"course_id": crs.ID}, userID, "Enroll")
	utils.NotifyWebhook("course.enrolled", map[string]interface{}{
		"user_id":   userID,
		"course_id": crs.ID,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", fiber.Map{
		"enrollment":       enrollment,
		"already_enrolled": false,
	})
}

// Unenroll revokes the caller's access immediately. Deleting a non-existent
// enrollment is a no-op success. Progress rows are retained.
func (ctrl *CourseController) Unenroll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	if err := ctrl.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&courseModels.Enrollment{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll from course!", nil)
	}

	utils.Audit(ctrl.DB, models.LogInfo, "User unenrolled from course",
		map[string]interface{}{"course_id": courseID}, userID, "Unenroll")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled from course successfully!", nil)
}

// ListEnrollments returns the caller's enrollments with course data,
// paginated, newest first.
func (ctrl *CourseController) ListEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*userValidator.PageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := ctrl.DB.Model(&courseModels.Enrollment{}).Where("user_id = ?", userID)

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Preload("Course").
		Offset(offset).Limit(limit).
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
