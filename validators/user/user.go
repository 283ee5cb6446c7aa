package userValidator

import (
	"eduflow/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	Name      string `json:"name" form:"name"`
	AvatarURL string `json:"avatar_url" form:"avatar_url"`
}

type PageRequest struct {
	Page  *int `query:"page"`
	Limit *int `query:"limit"`
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Name) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"name": "Name is required!",
			})
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

func EnrollmentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PageRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Page == nil {
			page := 1
			reqData.Page = &page
		}
		if reqData.Limit == nil {
			limit := 10
			reqData.Limit = &limit
		}

		if *reqData.Page < 1 || *reqData.Limit < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"page": "Page and limit must be greater than 0!",
			})
		}

		c.Locals("validatedEnrollmentList", reqData)
		return c.Next()
	}
}
