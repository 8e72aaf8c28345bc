package catalog

import "gorm.io/gorm"

// CourseFlagCompleted marks an attempt row as counted. It denotes "an attempt
// was made", not "passed".
const CourseFlagCompleted = "completed"

// UserCourse records a user's best score for a course. One row per
// (user, course) pair; Score never decreases across updates.
type UserCourse struct {
	gorm.Model
	UserID   uint   `json:"UserID" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID uint   `json:"CourseID" gorm:"uniqueIndex:idx_user_course;not null"`
	Score    int    `json:"CourseScore" gorm:"default:0"`
	Flag     string `json:"CourseFlag" gorm:"default:''"`
}
