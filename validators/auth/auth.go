package authValidator

import (
	"eduflow/middleware"
	"eduflow/models"
	"eduflow/utils"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type SignupRequest struct {
	Handle   string `json:"handle" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	CnfPassword     string `json:"cnfPassword" validate:"required"`
}

func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SignupRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Handle = strings.TrimSpace(reqData.Handle)
		reqData.Name = strings.TrimSpace(reqData.Name)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Handle":
					errors["handle"] = "Handle is required and must be 3-30 characters long!"
				case "Password":
					errors["password"] = "Password is required and must be at least 6 characters long!"
				case "Name":
					errors["name"] = "Name is required!"
				}
			}
		}

		if reqData.Handle != "" && !utils.ValidHandle(reqData.Handle) {
			errors["handle"] = "Handle may only contain letters, numbers and underscores!"
		}

		if reqData.Role != "" && reqData.Role != models.RoleLearner && reqData.Role != models.RoleCreator {
			errors["role"] = "Role must be either learner or creator!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Handle = strings.TrimSpace(reqData.Handle)

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Handle and password are required!", nil)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "CurrentPassword":
					errors["currentPassword"] = "Current password is required!"
				case "NewPassword":
					errors["newPassword"] = "New password is required and must be at least 6 characters long!"
				case "CnfPassword":
					errors["cnfPassword"] = "Confirm password is required!"
				}
			}
		}

		if reqData.NewPassword != "" && reqData.NewPassword != reqData.CnfPassword {
			errors["cnfPassword"] = "New password and confirm password do not match!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChangePassword", reqData)
		return c.Next()
	}
}
