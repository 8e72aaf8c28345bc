package catalog

import "gorm.io/gorm"

// Subject groups courses into a certifiable track
type Subject struct {
	gorm.Model
	Name        string `json:"SubjectName"`
	Description string `json:"SubjectDescription" gorm:"type:text"`
	IconSVGURL  string `json:"icon_svg_url" gorm:"default:''"`
}

// SubjectBookmark is one entry in the user's recent-bookmark ring (latest 5 kept).
// CreatedAt from gorm.Model orders the ring, newest first.
type SubjectBookmark struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"index;not null"`
	SubjectID uint `json:"subject_id" gorm:"index;not null"`
}
