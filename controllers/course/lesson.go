package courseController

import (
	"eduflow/config"
	"eduflow/middleware"
	"eduflow/models"
	courseModels "eduflow/models/course"
	"eduflow/utils"
	courseValidator "eduflow/validators/course"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LessonView is a lesson decorated with the viewer's lock state. MediaURL is
// blanked on locked lessons; the single-lesson fetch is the real gate, this
// keeps the listing from leaking it anyway.
type LessonView struct {
	courseModels.Lesson
	Locked bool `json:"locked"`
}

func (ctrl *CourseController) lessonsForViewer(userID uint, crs *courseModels.Course) ([]LessonView, error) {
	var lessons []courseModels.Lesson
	if err := ctrl.DB.Where("course_id = ?", crs.ID).
		Order("order_index asc, created_at asc").
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	views := make([]LessonView, len(lessons))
	for i, lesson := range lessons {
		locked := !CanViewLesson(ctrl.DB, userID, crs, &lesson)
		if locked {
			lesson.MediaURL = ""
		}
		views[i] = LessonView{Lesson: lesson, Locked: locked}
	}
	return views, nil
}

// CreateLesson adds a lesson to a course owned by the caller. Media can come
// as a URL or an uploaded file; articles need neither.
func (ctrl *CourseController) CreateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var crs courseModels.Course
	if err := ctrl.DB.Where("id = ?", courseID).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or access denied!", nil)
	}
	if crs.CreatorID != userID {
		utils.Audit(ctrl.DB, models.LogWarn, "Forbidden lesson create attempt: Not owner",
			map[string]interface{}{"course_id": courseID}, userID, "CreateLesson")
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or access denied!", nil)
	}

	mediaURL := reqData.MediaURL
	if file, err := c.FormFile("media"); err == nil {
		key, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir, "lessons")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store media file!", nil)
		}
		mediaURL = utils.PublicURL(key)
	}

	newLesson := courseModels.Lesson{
		CourseID:    crs.ID,
		Title:       strings.TrimSpace(reqData.Title),
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		MediaURL:    mediaURL,
		IsPreview:   reqData.IsPreview,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := ctrl.DB.Create(&newLesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", newLesson)
}

// ListLessons returns the ordered lesson sequence with per-viewer lock flags.
// Locked lessons are included so counts and ordering stay stable.
func (ctrl *CourseController) ListLessons(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := ctrl.DB.Where("id = ?", courseID).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if !CanViewCourse(userID, &crs) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lessons, err := ctrl.lessonsForViewer(userID, &crs)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"lessons": lessons,
	})
}

// GetLesson is the fetch-time authorization boundary: it re-derives the lock
// state and refuses to return media for a lesson the caller may not view.
func (ctrl *CourseController) GetLesson(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var crs courseModels.Course
	if err := ctrl.DB.Where("id = ?", courseID).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if !CanViewCourse(userID, &crs) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lesson courseModels.Lesson
	if err := ctrl.DB.Where("id = ? AND course_id = ?", lessonID, crs.ID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if !CanViewLesson(ctrl.DB, userID, &crs, &lesson) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enroll in this course to access this lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
}
