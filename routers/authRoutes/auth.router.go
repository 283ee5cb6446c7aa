package authRoutes

import (
	authController "eduflow/controllers/auth"
	"eduflow/middleware"
	authValidator "eduflow/validators/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), ctrl.Signup)
	authGroup.Post("/login", authValidator.Login(), ctrl.Login)
	authGroup.Post("/change-password", authValidator.ChangePassword(), middleware.JWTMiddleware, ctrl.ChangePassword)
	authGroup.Delete("/account", middleware.JWTMiddleware, ctrl.DeleteAccount)
}
