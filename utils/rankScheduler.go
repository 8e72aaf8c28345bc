package utils

import (
	"fmt"
	"log"
	"time"

	"condingo/config"
	"condingo/database"
	"condingo/models"
	"condingo/models/catalog"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[RANK-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// RecalculateScores rewrites every profile's score as the sum of that user's
// completed course scores. Returns the number of profiles changed.
func RecalculateScores(db *gorm.DB) (int, error) {
	var profiles []models.UserProfile
	if err := db.Find(&profiles).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, profile := range profiles {
		var total int64
		if err := db.Model(&catalog.UserCourse{}).
			Where("user_id = ? AND flag = ?", profile.UserID, catalog.CourseFlagCompleted).
			Select("COALESCE(SUM(score), 0)").
			Scan(&total).Error; err != nil {
			return updated, err
		}

		if profile.Score != int(total) {
			if err := db.Model(&profile).Update("score", int(total)).Error; err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

// RecalculateRanks reassigns dense 1..n rank values following the leaderboard
// ordering (score desc, previous rank asc, user name asc). Returns the number
// of profiles changed.
func RecalculateRanks(db *gorm.DB) (int, error) {
	type rankedProfile struct {
		ProfileID uint
		Rank      int
	}

	var rows []rankedProfile
	if err := db.Table("users").
		Select("user_profiles.id AS profile_id, user_profiles.rank AS rank").
		Joins("JOIN user_profiles ON user_profiles.user_id = users.id AND user_profiles.deleted_at IS NULL").
		Where("users.deleted_at IS NULL").
		Order("user_profiles.score DESC, user_profiles.rank ASC, users.user_name ASC").
		Scan(&rows).Error; err != nil {
		return 0, err
	}

	updated := 0
	for idx, row := range rows {
		rank := idx + 1
		if row.Rank != rank {
			if err := db.Model(&models.UserProfile{}).
				Where("id = ?", row.ProfileID).
				Update("rank", rank).Error; err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

// StartRankScheduler runs score and rank recomputation on the configured
// cron schedule.
func StartRankScheduler() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.RankCronSpec, func() {
		db := database.Database.Db

		scores, err := RecalculateScores(db)
		if err != nil {
			logScheduler("Error recalculating scores: " + err.Error())
			return
		}

		ranks, err := RecalculateRanks(db)
		if err != nil {
			logScheduler("Error recalculating ranks: " + err.Error())
			return
		}

		logScheduler(fmt.Sprintf("Recomputed scores for %d and ranks for %d profile(s)", scores, ranks))
	})
	if err != nil {
		log.Fatalf("Failed to schedule rank recomputation: %v", err)
	}

	c.Start()
	return c
}
