package courseRoutes

import (
	courseController "eduflow/controllers/course"
	"eduflow/middleware"
	"eduflow/models"
	courseValidator "eduflow/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupCourseRoutes registers the public catalog, enrollment, progress and
// creator-side course management routes. The catalog routes use the optional
// JWT variant so guests can browse published courses and preview lessons.
func SetupCourseRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := courseController.NewCourseController(db)

	courseGroup := app.Group("/course")

	// Catalog browsing and details. "/list" must register before "/:id".
	courseGroup.Get("/list", middleware.OptionalJWTMiddleware, courseValidator.CourseList(), ctrl.ListCourses)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, courseValidator.CourseID(), ctrl.GetCourseDetails)
	courseGroup.Get("/:id/lessons", middleware.OptionalJWTMiddleware, courseValidator.CourseID(), ctrl.ListLessons)
	courseGroup.Get("/:id/lesson/:lessonId", middleware.OptionalJWTMiddleware, courseValidator.CourseID(), courseValidator.LessonID(), ctrl.GetLesson)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, courseValidator.CourseID(), ctrl.Enroll)
	courseGroup.Delete("/:id/enroll", middleware.JWTMiddleware, courseValidator.CourseID(), ctrl.Unenroll)

	// Progress tracking
	courseGroup.Post("/:id/lesson/:lessonId/view", middleware.OptionalJWTMiddleware, courseValidator.CourseID(), courseValidator.LessonID(), ctrl.RecordView)
	courseGroup.Post("/:id/lesson/:lessonId/complete", middleware.JWTMiddleware, courseValidator.CourseID(), courseValidator.LessonID(), ctrl.MarkCompleted)
	courseGroup.Get("/:id/lesson/:lessonId/progress", middleware.JWTMiddleware, courseValidator.CourseID(), courseValidator.LessonID(), ctrl.GetLessonProgress)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, courseValidator.CourseID(), ctrl.GetCourseProgress)

	// Creator-side management; every route requires the creator role.
	creatorGroup := app.Group("/creator/course", middleware.JWTMiddleware, middleware.RequireRole(db, models.RoleCreator))

	creatorGroup.Post("/", courseValidator.CreateCourse(), ctrl.CreateCourse)
	creatorGroup.Get("/list", ctrl.ListOwnCourses)
	creatorGroup.Put("/:id", courseValidator.CourseID(), courseValidator.UpdateCourse(), ctrl.UpdateCourse)
	creatorGroup.Delete("/:id", courseValidator.CourseID(), ctrl.DeleteCourse)
	creatorGroup.Post("/:id/lesson", courseValidator.CourseID(), courseValidator.CreateLesson(), ctrl.CreateLesson)
}
