package authController

import (
	"errors"
	"log"
	"time"

	"condingo/config"
	userController "condingo/controllers/userControllers"
	"condingo/database"
	"condingo/middleware"
	"condingo/models"
	"condingo/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Register creates a user plus their profile row and returns a token pair
func Register(c *fiber.Ctx) error {
	reqData := new(struct {
		UserName string `json:"user_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		License  string `json:"License"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if user name or email already exists
	if err := db.Where("user_name = ?", reqData.UserName).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User name is already registered!", nil)
	}
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		UserName: reqData.UserName,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		License:  reqData.License,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		// Every user gets a profile row at registration
		return tx.Create(&models.UserProfile{UserID: newUser.ID}).Error
	})
	if err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	db.Create(&models.UserActivity{UserID: newUser.ID, ActivityType: models.ActivityRegistration})

	access, err := middleware.GenerateJWT(newUser.ID, newUser.UserName, newUser.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue token!", nil)
	}
	refresh, err := middleware.GenerateRefreshJWT(newUser.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue token!", nil)
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.UserName)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    userController.SerializeUser(db, &newUser),
		"access":  access,
		"refresh": refresh,
	})
}

// updateLoginStreak applies the daily streak rule: same day is a no-op,
// yesterday increments, any gap resets to one.
func updateLoginStreak(db *gorm.DB, userID uint) {
	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	switch {
	case profile.LastLoginDate == nil:
		profile.LoginStreakDays = 1
	case profile.LastLoginDate.Truncate(24 * time.Hour).Equal(today):
		// Already logged in today
	case profile.LastLoginDate.Truncate(24 * time.Hour).Equal(today.AddDate(0, 0, -1)):
		profile.LoginStreakDays++
	default:
		profile.LoginStreakDays = 1
	}
	profile.LastLoginDate = &today

	if err := db.Save(&profile).Error; err != nil {
		log.Printf("Error updating login streak for user %d: %v", userID, err)
	}
}

// Login authenticates by user name and password
func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		UserName string `json:"user_name"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("user_name = ?", reqData.UserName).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account is inactive"})
	}

	updateLoginStreak(db, user.ID)
	db.Create(&models.UserActivity{UserID: user.ID, ActivityType: models.ActivityLogin})
	db.Model(&user).Update("last_login", time.Now())

	access, err := middleware.GenerateJWT(user.ID, user.UserName, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue token!", nil)
	}
	refresh, err := middleware.GenerateRefreshJWT(user.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue token!", nil)
	}

	return c.JSON(fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user":    userController.SerializeUser(db, &user),
	})
}

// RefreshToken exchanges a refresh token for a fresh access token
func RefreshToken(c *fiber.Ctx) error {
	reqData := new(struct {
		Refresh string `json:"refresh"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Refresh == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Refresh token is required!", nil)
	}

	claims, err := middleware.ParseToken(reqData.Refresh)
	if err != nil || claims["userId"] == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired refresh token!", nil)
	}
	if t, ok := claims["type"].(string); !ok || t != "refresh" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Token is not a refresh token!", nil)
	}

	userID := uint(claims["userId"].(float64))

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	access, err := middleware.GenerateJWT(user.ID, user.UserName, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue token!", nil)
	}

	return c.JSON(fiber.Map{"access": access})
}

// ForgotPassword issues a reset token and emails it. The response is the
// same whether or not the email exists.
func ForgotPassword(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Email == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email is required!", nil)
	}

	db := database.Database.Db

	var user models.User
	err := db.Where("email = ?", reqData.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(fiber.Map{"detail": "If the email exists, a reset link has been sent."})
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	token := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     utils.GenerateResetToken(),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := db.Create(&token).Error; err != nil {
		log.Printf("Error creating password reset token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	utils.SendPasswordResetEmail(user.Email, user.UserName, token.Token)

	return c.JSON(fiber.Map{"detail": "If the email exists, a reset link has been sent."})
}

// ResetPassword consumes a reset token and sets the new password
func ResetPassword(c *fiber.Ctx) error {
	reqData := new(struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Token == "" || reqData.Password == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Token and password are required!", nil)
	}

	db := database.Database.Db

	var token models.PasswordResetToken
	if err := db.Where("token = ? AND used = ?", reqData.Token, false).First(&token).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired reset token!", nil)
	}
	if time.Now().After(token.ExpiresAt) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired reset token!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).
			Update("password", string(hashedPassword)).Error; err != nil {
			return err
		}
		return tx.Model(&token).Update("used", true).Error
	})
	if err != nil {
		log.Printf("Error resetting password for user %d: %v", token.UserID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return c.JSON(fiber.Map{"detail": "Password has been reset."})
}
