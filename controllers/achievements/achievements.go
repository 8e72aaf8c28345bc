package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"condingo/database"
	"condingo/models"
	"condingo/models/catalog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// userSnapshot is the read-only state achievements are evaluated against
type userSnapshot struct {
	LoginStreakDays    int
	CompletedCourseIDs map[uint]bool
}

// achievementDef is one row of the declarative definitions table. Compute
// returns (progress, unlocked, metadata) for a snapshot; thresholds live here
// and nowhere else.
type achievementDef struct {
	Key         string
	Category    string
	Title       string
	Description string
	Icon        string
	Target      int
	Compute     func(s userSnapshot) (int, bool, map[string]interface{})
}

var loginStreakTargets = []int{5, 10, 50, 100, 365, 500}

type courseSetSpec struct {
	Key      string
	Title    string
	Icon     string
	Required []uint
}

var courseSetSpecs = []courseSetSpec{
	{Key: "docker_newbie", Title: "Docker Newbie", Icon: "docker", Required: []uint{20, 21}},
	{Key: "git_newbie", Title: "Git Newbie", Icon: "git", Required: []uint{10, 11}},
}

// achievementDefs builds the full definitions table
func achievementDefs() []achievementDef {
	defs := make([]achievementDef, 0, len(loginStreakTargets)+len(courseSetSpecs))

	for _, target := range loginStreakTargets {
		target := target
		defs = append(defs, achievementDef{
			Key:         fmt.Sprintf("login_streak_%d", target),
			Category:    "login_streak",
			Title:       fmt.Sprintf("Login Streak %d", target),
			Description: fmt.Sprintf("Log in for %d days in a row.", target),
			Icon:        "streak",
			Target:      target,
			Compute: func(s userSnapshot) (int, bool, map[string]interface{}) {
				progress := s.LoginStreakDays
				if progress > target {
					progress = target
				}
				return progress, s.LoginStreakDays >= target, nil
			},
		})
	}

	for _, spec := range courseSetSpecs {
		spec := spec
		defs = append(defs, achievementDef{
			Key:         spec.Key,
			Category:    "course_newbie",
			Title:       spec.Title,
			Description: "Finish the intro courses 1 and 2.",
			Icon:        spec.Icon,
			Target:      len(spec.Required),
			Compute: func(s userSnapshot) (int, bool, map[string]interface{}) {
				done := 0
				for _, id := range spec.Required {
					if s.CompletedCourseIDs[id] {
						done++
					}
				}
				required := append([]uint(nil), spec.Required...)
				sort.Slice(required, func(i, j int) bool { return required[i] < required[j] })
				return done, done == len(spec.Required), map[string]interface{}{"required_course_ids": required}
			},
		})
	}

	return defs
}

// EvaluateAchievements runs every definition against the user's snapshot,
// persisting definition and progress rows as it goes. Unlocks are
// recomputed, so regressed state re-locks an achievement.
func EvaluateAchievements(db *gorm.DB, userID uint, snapshot userSnapshot) ([]fiber.Map, error) {
	var results []fiber.Map

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, def := range achievementDefs() {
			progress, unlocked, meta := def.Compute(snapshot)

			var metaJSON datatypes.JSON
			if meta != nil {
				raw, _ := json.Marshal(meta)
				metaJSON = datatypes.JSON(raw)
			}

			var achievement catalog.Achievement
			err := tx.Where("key = ?", def.Key).First(&achievement).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				achievement = catalog.Achievement{
					Key:         def.Key,
					Category:    def.Category,
					Title:       def.Title,
					Description: def.Description,
					Icon:        def.Icon,
					Target:      def.Target,
					Metadata:    metaJSON,
				}
				if err := tx.Create(&achievement).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			} else if achievement.Target != def.Target || achievement.Title != def.Title ||
				achievement.Description != def.Description || achievement.Icon != def.Icon ||
				achievement.Category != def.Category {
				achievement.Category = def.Category
				achievement.Title = def.Title
				achievement.Description = def.Description
				achievement.Icon = def.Icon
				achievement.Target = def.Target
				achievement.Metadata = metaJSON
				if err := tx.Save(&achievement).Error; err != nil {
					return err
				}
			}

			var ua catalog.UserAchievement
			err = tx.Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).First(&ua).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ua = catalog.UserAchievement{UserID: userID, AchievementID: achievement.ID}
				if err := tx.Create(&ua).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			ua.Progress = progress
			if unlocked && !ua.Unlocked {
				now := time.Now()
				ua.Unlocked = true
				ua.UnlockedAt = &now
			}
			if !unlocked && ua.Unlocked {
				ua.Unlocked = false
				ua.UnlockedAt = nil
			}
			if err := tx.Save(&ua).Error; err != nil {
				return err
			}

			payload := fiber.Map{
				"id":          achievement.Key,
				"type":        achievement.Category,
				"title":       achievement.Title,
				"description": achievement.Description,
				"icon":        achievement.Icon,
				"target":      achievement.Target,
				"progress":    ua.Progress,
				"unlocked":    ua.Unlocked,
			}
			for k, v := range meta {
				payload[k] = v
			}
			results = append(results, payload)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetAchievements serves GET /achievements
func GetAchievements(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	db := database.Database.Db

	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Profile not found."})
	}

	var completed []catalog.UserCourse
	if err := db.Where("user_id = ? AND flag = ?", userID, catalog.CourseFlagCompleted).Find(&completed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to fetch completed courses."})
	}

	snapshot := userSnapshot{
		LoginStreakDays:    profile.LoginStreakDays,
		CompletedCourseIDs: make(map[uint]bool, len(completed)),
	}
	for _, uc := range completed {
		snapshot.CompletedCourseIDs[uc.CourseID] = true
	}

	results, err := EvaluateAchievements(db, userID, snapshot)
	if err != nil {
		log.Printf("Failed to evaluate achievements for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to evaluate achievements."})
	}

	return c.JSON(fiber.Map{
		"login_streak_days": profile.LoginStreakDays,
		"achievements":      results,
	})
}
