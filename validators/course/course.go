package courseValidator

import (
	"eduflow/middleware"
	courseModels "eduflow/models/course"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CourseRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ContentType  string `json:"content_type"`
	Status       string `json:"status"`
	Category     string `json:"category"`
	Tags         string `json:"tags"` // comma-separated
	ThumbnailURL string `json:"thumbnail_url"`
}

type CourseListRequest struct {
	Query    string `query:"q"`
	Category string `query:"category"`
	Tag      string `query:"tag"`
	Page     *int   `query:"page"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if !courseModels.ValidContentType(reqData.ContentType) {
			errors["content_type"] = "Content type must be one of video, pdf, article, audio!"
		}

		if reqData.Status == "" {
			reqData.Status = courseModels.StatusDraft
		} else if !courseModels.ValidStatus(reqData.Status) {
			errors["status"] = "Status must be one of draft, pending_review, published!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.ContentType != "" && !courseModels.ValidContentType(reqData.ContentType) {
			errors["content_type"] = "Content type must be one of video, pdf, article, audio!"
		}

		if reqData.Status != "" && !courseModels.ValidStatus(reqData.Status) {
			errors["status"] = "Status must be one of draft, pending_review, published!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CourseID validates the :id route parameter.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Page == nil {
			page := 1
			reqData.Page = &page
		} else if *reqData.Page < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"page": "Page must be greater than 0!",
			})
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}
