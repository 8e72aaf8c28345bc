package userController

import (
	"fmt"
	"log"
	"time"

	"condingo/database"
	"condingo/models"
	"condingo/models/catalog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const bookmarkRingSize = 5

// SetBookmarkedSubject pins a subject as the caller's current bookmark and
// pushes it onto the recent-bookmark ring, trimming the ring to its capacity.
func SetBookmarkedSubject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	subjectID := c.Locals("subjectID").(uint)
	db := database.Database.Db

	var subject catalog.Subject
	if err := db.First(&subject, subjectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Subject not found."})
	}

	now := time.Now()
	if err := db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"bookmarked_subject_id":         subject.ID,
			"bookmarked_subject_updated_at": now,
		}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to update bookmark."})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Re-bookmarking moves the subject to the front of the ring
		if err := tx.Unscoped().
			Where("user_id = ? AND subject_id = ?", userID, subject.ID).
			Delete(&catalog.SubjectBookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&catalog.SubjectBookmark{UserID: userID, SubjectID: subject.ID}).Error; err != nil {
			return err
		}

		var keep []catalog.SubjectBookmark
		if err := tx.Where("user_id = ?", userID).
			Order("created_at desc").
			Limit(bookmarkRingSize).
			Find(&keep).Error; err != nil {
			return err
		}
		keepIDs := make([]uint, 0, len(keep))
		for _, bm := range keep {
			keepIDs = append(keepIDs, bm.ID)
		}
		return tx.Unscoped().
			Where("user_id = ? AND id NOT IN ?", userID, keepIDs).
			Delete(&catalog.SubjectBookmark{}).Error
	})
	if err != nil {
		log.Printf("Failed to update bookmark ring for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to update bookmark."})
	}

	db.Create(&models.UserActivity{
		UserID:       userID,
		ActivityType: models.ActivityScoreUpdate,
		Details:      fmt.Sprintf("Bookmarked subject set: %d", subject.ID),
	})

	return c.JSON(fiber.Map{
		"bookmarked_subject_id":         subject.ID,
		"bookmarked_subject_name":       subject.Name,
		"bookmarked_subject_updated_at": now,
	})
}

// RemoveBookmarkedSubject drops a subject from the ring; the profile pointer
// falls back to the most recent remaining bookmark, or clears.
func RemoveBookmarkedSubject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	subjectID := c.Locals("subjectID").(uint)
	db := database.Database.Db
	now := time.Now()

	var latest *catalog.SubjectBookmark
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("user_id = ? AND subject_id = ?", userID, subjectID).
			Delete(&catalog.SubjectBookmark{}).Error; err != nil {
			return err
		}

		var bm catalog.SubjectBookmark
		err := tx.Where("user_id = ?", userID).Order("created_at desc").First(&bm).Error
		if err == nil {
			latest = &bm
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		updates := map[string]interface{}{
			"bookmarked_subject_id":         nil,
			"bookmarked_subject_updated_at": now,
		}
		if latest != nil {
			updates["bookmarked_subject_id"] = latest.SubjectID
		}
		return tx.Model(&models.UserProfile{}).Where("user_id = ?", userID).Updates(updates).Error
	})
	if err != nil {
		log.Printf("Failed to remove bookmark for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to remove bookmark."})
	}

	if latest == nil {
		return c.JSON(fiber.Map{"detail": "removed", "bookmarked_subject_id": nil})
	}

	var subject catalog.Subject
	if err := db.First(&subject, latest.SubjectID).Error; err != nil {
		return c.JSON(fiber.Map{"detail": "removed", "bookmarked_subject_id": latest.SubjectID})
	}

	return c.JSON(fiber.Map{
		"detail":                        "removed",
		"bookmarked_subject_id":         subject.ID,
		"bookmarked_subject_name":       subject.Name,
		"bookmarked_subject_updated_at": now,
	})
}
