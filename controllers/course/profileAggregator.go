package controllers

import (
	"condingo/models/catalog"

	"gorm.io/gorm"
)

// CompletedCourseScore is one entry of a user's per-course breakdown
type CompletedCourseScore struct {
	CourseID    uint `json:"CourseID"`
	CourseScore int  `json:"CourseScore"`
}

// AggregateProfile recomputes a user's total score and completed-course
// breakdown from their attempt records. Pure read; an empty attempt set
// yields zero and an empty list.
func AggregateProfile(db *gorm.DB, userID uint) (int, []CompletedCourseScore, error) {
	var records []catalog.UserCourse
	if err := db.
		Where("user_id = ? AND flag = ?", userID, catalog.CourseFlagCompleted).
		Find(&records).Error; err != nil {
		return 0, nil, err
	}

	total := 0
	breakdown := make([]CompletedCourseScore, 0, len(records))
	for _, r := range records {
		total += r.Score
		breakdown = append(breakdown, CompletedCourseScore{CourseID: r.CourseID, CourseScore: r.Score})
	}
	return total, breakdown, nil
}
