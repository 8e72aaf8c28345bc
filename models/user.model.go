package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UserName  string `json:"user_name" gorm:"unique;not null"`
	Email     string `json:"email" gorm:"unique;not null"`
	Password  string `json:"-" gorm:"not null"`
	License   string `json:"License" gorm:"default:''"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	IsStaff   bool   `json:"is_staff" gorm:"default:false"`
	LastLogin time.Time
}

// UserProfile carries the score/rank state driving the leaderboard plus the
// bookmark pointer and profile picture blob.
type UserProfile struct {
	gorm.Model
	UserID                     uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Score                      int        `json:"score" gorm:"default:0"`
	Rank                       int        `json:"rank" gorm:"default:99999"`
	LoginStreakDays            int        `json:"login_streak_days" gorm:"default:0"`
	LastLoginDate              *time.Time `json:"last_login_date"`
	BookmarkedSubjectID        *uint      `json:"bookmarked_subject_id"`
	BookmarkedSubjectUpdatedAt *time.Time `json:"bookmarked_subject_updated_at"`
	ProfilePic                 []byte     `json:"-"`
	ProfilePicMime             string     `json:"-" gorm:"default:''"`
}
