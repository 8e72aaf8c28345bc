package models

import "gorm.io/gorm"

// Activity types recorded against a user
const (
	ActivityLogin        = "LOGIN"
	ActivityLogout       = "LOGOUT"
	ActivityRegistration = "REGISTRATION"
	ActivityScoreUpdate  = "SCORE_UPDATE"
)

type UserActivity struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"index;not null"`
	ActivityType string `json:"activity_type"`
	Details      string `json:"details" gorm:"type:text"`
}
