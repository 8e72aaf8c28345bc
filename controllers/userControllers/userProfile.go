package userController

import (
	"io"
	"log"

	courseControllers "condingo/controllers/course"
	"condingo/database"
	"condingo/models"
	"condingo/models/catalog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SerializeUser builds the user payload shared by register, login and /me
func SerializeUser(db *gorm.DB, user *models.User) fiber.Map {
	data := fiber.Map{
		"userID":    user.ID,
		"user_name": user.UserName,
		"email":     user.Email,
		"License":   user.License,
		"profile":   nil,
	}

	var profile models.UserProfile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
		data["profile"] = fiber.Map{
			"score":             profile.Score,
			"rank":              profile.Rank,
			"login_streak_days": profile.LoginStreakDays,
			"last_login_date":   profile.LastLoginDate,
		}
	}
	return data
}

// recentBookmarkedSubjects returns the latest five distinct bookmarked
// subjects, newest first.
func recentBookmarkedSubjects(db *gorm.DB, userID uint) []fiber.Map {
	var bookmarks []catalog.SubjectBookmark
	db.Where("user_id = ?", userID).Order("created_at desc").Find(&bookmarks)

	seen := make(map[uint]bool)
	out := make([]fiber.Map, 0, 5)
	for _, bm := range bookmarks {
		if seen[bm.SubjectID] {
			continue
		}
		var subject catalog.Subject
		if err := db.First(&subject, bm.SubjectID).Error; err != nil {
			continue
		}
		seen[bm.SubjectID] = true
		out = append(out, fiber.Map{
			"subject_id":           subject.ID,
			"subject_name":         subject.Name,
			"bookmarked_at":        bm.CreatedAt,
			"subject_icon_svg_url": subject.IconSVGURL,
		})
		if len(out) >= 5 {
			break
		}
	}
	return out
}

// Me composes the caller's user payload with their recomputed totals,
// per-course breakdown and recent bookmarks.
func Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "User not found."})
	}

	totalScore, breakdown, err := courseControllers.AggregateProfile(db, userID)
	if err != nil {
		log.Printf("Failed to aggregate profile for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to aggregate profile."})
	}

	data := SerializeUser(db, &user)
	if profile, ok := data["profile"].(fiber.Map); ok && profile != nil {
		profile["profile_pic_url"] = c.BaseURL() + "/me/profile-pic"
	}
	data["total_score"] = totalScore
	data["completed_course_scores"] = breakdown
	data["recent_bookmarked_subjects"] = recentBookmarkedSubjects(db, userID)

	return c.JSON(data)
}

// GetProfilePic streams the stored profile picture
func GetProfilePic(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	var profile models.UserProfile
	if err := database.Database.Db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Profile not found."})
	}

	if len(profile.ProfilePic) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "No profile picture."})
	}

	contentType := profile.ProfilePicMime
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set("Content-Type", contentType)
	c.Set("Cache-Control", "no-store")
	return c.Send(profile.ProfilePic)
}

// UploadProfilePic stores a multipart "file" upload in the profile row
func UploadProfilePic(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	var profile models.UserProfile
	if err := database.Database.Db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Profile not found."})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": `Missing file. Upload using multipart form field "file".`})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Failed to read upload."})
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Failed to read upload."})
	}

	mime := fileHeader.Header.Get("Content-Type")
	if err := database.Database.Db.Model(&profile).
		Updates(map[string]interface{}{"profile_pic": buf, "profile_pic_mime": mime}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to store profile picture."})
	}

	return c.JSON(fiber.Map{"detail": "Profile picture updated.", "profile_pic_mime": mime})
}

// DeleteProfilePic clears the stored profile picture
func DeleteProfilePic(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	var profile models.UserProfile
	if err := database.Database.Db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Profile not found."})
	}

	if err := database.Database.Db.Model(&profile).
		Updates(map[string]interface{}{"profile_pic": []byte(nil), "profile_pic_mime": ""}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to remove profile picture."})
	}

	return c.JSON(fiber.Map{"detail": "Profile picture removed."})
}
