package catalog

import "gorm.io/gorm"

// Course belongs to a subject and owns a set of quiz questions
type Course struct {
	gorm.Model
	SubjectID   uint   `json:"SubjectID" gorm:"index;not null"`
	Title       string `json:"CourseTitle"`
	Description string `json:"CourseDescription" gorm:"type:text"`
	Difficulty  int    `json:"CourseDifficulty" gorm:"default:1"`
}

// Question belongs to a course
type Question struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Description string `json:"description" gorm:"type:text"`
}

// Option is one answer choice for a question. Exactly one option per question
// is expected to carry IsCorrect; the catalog is trusted on this.
type Option struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text" gorm:"type:text"`
	IsCorrect  bool   `json:"-" gorm:"default:false"`
}
