package controllers

import (
	"condingo/database"
	"condingo/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LeaderboardRow is one serialized leaderboard entry. Rank is the persisted
// batch-recomputed field; Position is computed fresh from the full ordering.
type LeaderboardRow struct {
	UserName string `json:"user_name"`
	Rank     *int   `json:"rank"`
	Score    int    `json:"score"`
	Position *int   `json:"position"`
}

type rankedUser struct {
	ID       uint
	UserName string
	Rank     *int
	Score    *int
}

// orderedUsers is the full-table ordering behind the leaderboard: score
// descending, persisted rank ascending, then user name. The three keys run in
// a single ORDER BY so the tie-break chain is exact.
//
// This is an O(n log n) sort on every call; fine at current volumes, and a
// known scaling limit rather than an accident.
func orderedUsers(db *gorm.DB) ([]rankedUser, error) {
	var rows []rankedUser
	err := db.Table("users").
		Select("users.id, users.user_name, user_profiles.rank AS rank, user_profiles.score AS score").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id AND user_profiles.deleted_at IS NULL").
		Where("users.deleted_at IS NULL").
		Order("COALESCE(user_profiles.score, 0) DESC, COALESCE(user_profiles.rank, 99999) ASC, users.user_name ASC").
		Scan(&rows).Error
	return rows, err
}

func serializeRow(u rankedUser, position *int) LeaderboardRow {
	score := 0
	if u.Score != nil {
		score = *u.Score
	}
	return LeaderboardRow{
		UserName: u.UserName,
		Rank:     u.Rank,
		Score:    score,
		Position: position,
	}
}

// BuildLeaderboard returns the top 10 rows annotated with 1-based positions.
// A caller outside the top 10 gets their own row appended as an 11th entry;
// a caller without any user row gets a zero-score row with a null position.
func BuildLeaderboard(db *gorm.DB, callerID uint, callerName string) ([]LeaderboardRow, error) {
	ordered, err := orderedUsers(db)
	if err != nil {
		return nil, err
	}

	top := ordered
	if len(top) > 10 {
		top = top[:10]
	}

	rows := make([]LeaderboardRow, 0, len(top)+1)
	callerIncluded := false
	for idx, u := range top {
		position := idx + 1
		rows = append(rows, serializeRow(u, &position))
		if u.ID == callerID {
			callerIncluded = true
		}
	}
	if callerIncluded {
		return rows, nil
	}

	for idx, u := range ordered {
		if u.ID == callerID {
			position := idx + 1
			rows = append(rows, serializeRow(u, &position))
			return rows, nil
		}
	}

	// Caller absent from the table entirely; fall back to partial data.
	fallback := LeaderboardRow{UserName: callerName, Score: 0, Position: nil}
	var profile models.UserProfile
	if err := db.Where("user_id = ?", callerID).First(&profile).Error; err == nil {
		rank := profile.Rank
		fallback.Rank = &rank
		fallback.Score = profile.Score
	}
	rows = append(rows, fallback)
	return rows, nil
}

// GetLeaderboard serves GET /leaderboard
func GetLeaderboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "User not found."})
	}

	rows, err := BuildLeaderboard(database.Database.Db, userID, user.UserName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to build leaderboard."})
	}
	return c.JSON(rows)
}
