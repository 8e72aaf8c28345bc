package userRoutes

import (
	achievementControllers "condingo/controllers/achievements"
	courseControllers "condingo/controllers/course"
	licenseControllers "condingo/controllers/license"
	rankingControllers "condingo/controllers/ranking"
	userControllers "condingo/controllers/userControllers"
	"condingo/middleware"
	userValidators "condingo/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes wires all authenticated user-facing routes
func SetupUserRoutes(app *fiber.App) {
	app.Get("/me", middleware.JWTMiddleware, userControllers.Me)
	app.Get("/me/profile-pic", middleware.JWTMiddleware, userControllers.GetProfilePic)
	app.Put("/me/profile-pic", middleware.JWTMiddleware, userControllers.UploadProfilePic)
	app.Delete("/me/profile-pic", middleware.JWTMiddleware, userControllers.DeleteProfilePic)

	app.Get("/leaderboard", middleware.JWTMiddleware, rankingControllers.GetLeaderboard)

	app.Post("/bookmarks", middleware.JWTMiddleware, userValidators.SetBookmark(), userControllers.SetBookmarkedSubject)
	app.Delete("/bookmarks/:subject_id", middleware.JWTMiddleware, userValidators.RemoveBookmark(), userControllers.RemoveBookmarkedSubject)

	app.Get("/achievements", middleware.JWTMiddleware, achievementControllers.GetAchievements)

	licenseGroup := app.Group("/license", middleware.JWTMiddleware)
	licenseGroup.Get("/status", licenseControllers.GetLicenseStatus)
	licenseGroup.Post("/request", licenseControllers.RequestLicense)
	licenseGroup.Post("/redeem", licenseControllers.RedeemLicense)

	certGroup := app.Group("/certificates", middleware.JWTMiddleware)
	certGroup.Get("/status", courseControllers.GetCertificateStatus)
	certGroup.Post("/download", courseControllers.DownloadCertificate)
}
