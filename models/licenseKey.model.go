package models

import (
	"time"

	"gorm.io/gorm"
)

// LicenseKey is a pending or redeemed license code bound to an email address.
type LicenseKey struct {
	gorm.Model
	Code       string     `json:"code" gorm:"uniqueIndex;not null"`
	Email      string     `json:"email" gorm:"index;not null"`
	IssuedToID uint       `json:"issued_to" gorm:"index"`
	RedeemedBy *uint      `json:"redeemed_by" gorm:"index"`
	RedeemedAt *time.Time `json:"redeemed_at"`
}
