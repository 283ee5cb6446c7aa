package courseController

import (
	"eduflow/middleware"
	"eduflow/models"
	courseModels "eduflow/models/course"
	"eduflow/utils"
	courseValidator "eduflow/validators/course"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogPageSize is the fixed page size for catalog browsing.
const CatalogPageSize = 12

type CourseController struct {
	DB *gorm.DB
}

func NewCourseController(db *gorm.DB) *CourseController {
	return &CourseController{DB: db}
}

// CreateCourse creates a catalog item owned by the calling creator. The
// creator role is enforced by the route middleware.
func (ctrl *CourseController) CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	newCourse := courseModels.Course{
		CreatorID:    userID,
		Title:        strings.TrimSpace(reqData.Title),
		Description:  reqData.Description,
		ContentType:  reqData.ContentType,
		Status:       reqData.Status,
		Category:     reqData.Category,
		Tags:         datatypes.NewJSONSlice(utils.ParseTags(reqData.Tags)),
		ThumbnailURL: reqData.ThumbnailURL,
	}

	if err := ctrl.DB.Create(&newCourse).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	utils.Audit(ctrl.DB, models.LogAction, "Course created: "+newCourse.Title, nil, userID, "CreateCourse")

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", newCourse)
}

// UpdateCourse updates a course owned by the caller. A non-owner gets the
// same "not found or access denied" signal whether the course exists or not,
// so existence never leaks.
func (ctrl *CourseController) UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var crs courseModels.Course
	if err := ctrl.DB.Where("id = ?", courseID).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or access denied!", nil)
	}

	if crs.CreatorID != userID {
		utils.Audit(ctrl.DB, models.LogWarn, "Forbidden update attempt: Not owner",
			map[string]interface{}{"course_id": courseID}, userID, "UpdateCourse")
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or access denied!", nil)
	}

	updates := map[string]interface{}{
		"title":         strings.TrimSpace(reqData.Title),
		"description":   reqData.Description,
		"category":      reqData.Category,
		"thumbnail_url": reqData.ThumbnailURL,
		"tags":          datatypes.NewJSONSlice(utils.ParseTags(reqData.Tags)),
	}
	if reqData.Status != "" {
		updates["status"] = reqData.Status
	}
	if reqData.ContentType != "" {
		updates["content_type"] = reqData.ContentType
	}

	if err := ctrl.DB.Model(&crs).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", crs)
}

// DeleteCourse removes a course owned by the caller, cascading to its
// lessons, enrollments and progress rows in one transaction.
func (ctrl *CourseController) DeleteCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := ctrl.DB.Where("id = ?", courseID).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or access denied!", nil)
	}

	if crs.CreatorID != userID {
		utils.Audit(ctrl.DB, models.LogWarn, "Forbidden delete attempt: Not owner",
			map[string]interface{}{"course_id": courseID}, userID, "DeleteCourse")
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or access denied!", nil)
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", crs.ID).Delete(&courseModels.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", crs.ID).Delete(&courseModels.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", crs.ID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&crs).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	utils.Audit(ctrl.DB, models.LogAction, "Course deleted: "+crs.Title,
		map[string]interface{}{"course_id": crs.ID}, userID, "DeleteCourse")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// ListCourses is the public catalog: published courses only, newest first,
// fixed page size, optional title/category/tag filters.
func (ctrl *CourseController) ListCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*courseValidator.CourseListRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := ctrl.DB.Model(&courseModels.Course{}).
		Where("status = ?", courseModels.StatusPublished)

	if q := strings.TrimSpace(reqData.Query); q != "" {
		db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData.Tag != "" {
		db = db.Where(datatypes.JSONArrayQuery("tags").Contains(reqData.Tag))
	}

	var total int64
	db.Count(&total)

	page := *reqData.Page
	offset := (page - 1) * CatalogPageSize

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(CatalogPageSize).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	totalPages := (total + CatalogPageSize - 1) / CatalogPageSize

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       CatalogPageSize,
			"total_pages": totalPages,
		},
	})
}

// ListOwnCourses lists the calling creator's courses, any status.
func (ctrl *CourseController) ListOwnCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := ctrl.DB.Where("creator_id = ?", userID).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetCourseDetails returns a course with its ordered lessons (locked flags
// included) and the caller's enrollment state. Draft and pending courses are
// only visible to their owner.
func (ctrl *CourseController) GetCourseDetails(c *fiber.Ctx) error {
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

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":      crs,
		"lessons":     lessons,
		"is_enrolled": IsEnrolled(ctrl.DB, userID, crs.ID),
	})
}
