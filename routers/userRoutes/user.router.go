package userRoutes

import (
	courseController "eduflow/controllers/course"
	userController "eduflow/controllers/user"
	"eduflow/middleware"
	userValidator "eduflow/validators/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := userController.NewUserController(db)
	courseCtrl := courseController.NewCourseController(db)

	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", ctrl.GetProfile)
	userGroup.Put("/profile", userValidator.UpdateProfile(), ctrl.UpdateProfile)
	userGroup.Post("/profile/avatar", ctrl.UploadAvatar)
	userGroup.Post("/upgrade-to-creator", ctrl.PromoteToCreator)
	userGroup.Get("/enrollments", userValidator.EnrollmentList(), courseCtrl.ListEnrollments)
}
