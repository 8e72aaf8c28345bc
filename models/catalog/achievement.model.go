package catalog

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Achievement is a persisted definition row, refreshed from the declarative
// table in the achievements controller.
type Achievement struct {
	gorm.Model
	Key         string         `json:"key" gorm:"uniqueIndex;not null"`
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	Description string         `json:"description" gorm:"type:text"`
	Icon        string         `json:"icon"`
	Target      int            `json:"target"`
	Metadata    datatypes.JSON `json:"metadata"`
}

// UserAchievement tracks a user's progress against one achievement
type UserAchievement struct {
	gorm.Model
	UserID        uint       `json:"user_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	AchievementID uint       `json:"achievement_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	Progress      int        `json:"progress" gorm:"default:0"`
	Unlocked      bool       `json:"unlocked" gorm:"default:false"`
	UnlockedAt    *time.Time `json:"unlocked_at"`
}
