package courseValidator

import (
	"eduflow/middleware"
	courseModels "eduflow/models/course"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type LessonRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	ContentType string `json:"content_type" form:"content_type"`
	MediaURL    string `json:"media_url" form:"media_url"`
	IsPreview   bool   `json:"is_preview" form:"is_preview"`
	OrderIndex  int    `json:"order_index" form:"order_index"`
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.ContentType == "" {
			reqData.ContentType = courseModels.ContentVideo
		} else if !courseModels.ValidContentType(reqData.ContentType) {
			errors["content_type"] = "Content type must be one of video, pdf, article, audio!"
		}

		// Articles carry their content inline; everything else needs media,
		// either a URL or an uploaded file.
		_, fileErr := c.FormFile("media")
		if reqData.ContentType != courseModels.ContentArticle && reqData.MediaURL == "" && fileErr != nil {
			errors["media_url"] = "A media URL or file is required for non-article lessons!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// LessonID validates the :lessonId route parameter.
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("lessonId"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}
