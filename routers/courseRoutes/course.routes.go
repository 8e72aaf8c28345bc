package courseRoutes

import (
	controllers "condingo/controllers/course"
	"condingo/middleware"
	validators "condingo/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up catalog browsing and quiz submission routes.
// Literal /courses/completed paths register before /courses/:course_id so
// the param route does not shadow them.
func SetupCourseRoutes(app *fiber.App) {
	// Catalog browsing (public)
	app.Get("/subjects", controllers.ListSubjects)
	app.Get("/subjects/:subject_id/courses", validators.SubjectID(), controllers.GetCoursesBySubject)

	// Completion tracking
	app.Get("/courses/completed", middleware.JWTMiddleware, controllers.GetCompletedCourses)
	app.Get("/courses/completed/scores", middleware.JWTMiddleware, controllers.GetCompletedCourseScores)

	// Course and question browsing (public)
	app.Get("/courses/:course_id", validators.CourseID(), controllers.GetCourseByID)
	app.Get("/courses/:course_id/questions", validators.CourseID(), controllers.GetQuestionsByCourse)
	app.Get("/questions/:question_id", validators.QuestionID(), controllers.GetQuestionByID)
	app.Get("/options/:option_id/verify", validators.OptionID(), controllers.VerifyOption)

	// Quiz submission
	app.Post("/courses/:course_id/submit", middleware.JWTMiddleware, validators.CourseID(), controllers.SubmitCourseAnswers)
	app.Post("/courses/:course_id/complete", middleware.JWTMiddleware, validators.CourseID(), controllers.MarkCourseCompleted)
}
