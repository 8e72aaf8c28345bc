package controllers

import (
	"errors"

	"condingo/models/catalog"

	"gorm.io/gorm"
)

// AttemptOutcome reports what an upsert did to the (user, course) record
type AttemptOutcome struct {
	BestScore int
	Improved  bool
	Created   bool
}

// RecordAttempt upserts the best score for a (user, course) pair. A new score
// replaces the stored one only when strictly greater; the completed flag is
// reset on every call, improving or not.
//
// Concurrency: the guarded UPDATE and the unique index on (user_id, course_id)
// make this a compare-and-swap loop. Two racing submissions serialize so the
// surviving score is the maximum of both.
func RecordAttempt(db *gorm.DB, userID, courseID uint, score int) (AttemptOutcome, error) {
	for attempt := 0; attempt < 3; attempt++ {
		var existing catalog.UserCourse
		err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record := catalog.UserCourse{
				UserID:   userID,
				CourseID: courseID,
				Score:    score,
				Flag:     catalog.CourseFlagCompleted,
			}
			if err := db.Create(&record).Error; err != nil {
				// Lost a create race against a concurrent submission;
				// re-read and take the update path.
				continue
			}
			return AttemptOutcome{BestScore: score, Created: true}, nil
		}
		if err != nil {
			return AttemptOutcome{}, err
		}

		res := db.Model(&catalog.UserCourse{}).
			Where("user_id = ? AND course_id = ? AND score < ?", userID, courseID, score).
			Updates(map[string]interface{}{"score": score, "flag": catalog.CourseFlagCompleted})
		if res.Error != nil {
			return AttemptOutcome{}, res.Error
		}
		if res.RowsAffected > 0 {
			return AttemptOutcome{BestScore: score, Improved: true}, nil
		}

		// Not an improvement; the flag is still reset.
		if err := db.Model(&catalog.UserCourse{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Update("flag", catalog.CourseFlagCompleted).Error; err != nil {
			return AttemptOutcome{}, err
		}

		if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err != nil {
			return AttemptOutcome{}, err
		}
		return AttemptOutcome{BestScore: existing.Score}, nil
	}

	return AttemptOutcome{}, errors.New("record attempt: retry budget exhausted")
}
