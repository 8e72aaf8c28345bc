package controllers

import (
	"fmt"
	"testing"

	"condingo/database"
	"condingo/models/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	return db
}

// seedQuizCourse creates a subject, a course and n questions with three
// options each. The first option of every question is the correct one.
func seedQuizCourse(t *testing.T, db *gorm.DB, n int) (catalog.Course, []catalog.Question, map[uint][]catalog.Option) {
	t.Helper()

	subject := catalog.Subject{Name: "Docker"}
	require.NoError(t, db.Create(&subject).Error)

	course := catalog.Course{SubjectID: subject.ID, Title: "Docker Basics"}
	require.NoError(t, db.Create(&course).Error)

	questions := make([]catalog.Question, 0, n)
	options := make(map[uint][]catalog.Option, n)
	for i := 0; i < n; i++ {
		q := catalog.Question{CourseID: course.ID, Description: fmt.Sprintf("Question %d", i+1)}
		require.NoError(t, db.Create(&q).Error)
		for j := 0; j < 3; j++ {
			o := catalog.Option{QuestionID: q.ID, Text: fmt.Sprintf("Option %d", j+1), IsCorrect: j == 0}
			require.NoError(t, db.Create(&o).Error)
			options[q.ID] = append(options[q.ID], o)
		}
		questions = append(questions, q)
	}
	return course, questions, options
}

func answer(questionID, optionID uint) RawAnswer {
	return RawAnswer{QuestionID: float64(questionID), OptionID: float64(optionID)}
}

func TestValidateAndScoreCourseNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := ValidateAndScore(db, 42, nil)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestValidateAndScoreCourseWithoutQuestions(t *testing.T) {
	db := newTestDB(t)

	subject := catalog.Subject{Name: "Git"}
	require.NoError(t, db.Create(&subject).Error)
	course := catalog.Course{SubjectID: subject.ID, Title: "Empty"}
	require.NoError(t, db.Create(&course).Error)

	_, err := ValidateAndScore(db, course.ID, []RawAnswer{})

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Course has no questions.", subErr.Detail)
}

func TestValidateAndScoreMalformedItems(t *testing.T) {
	db := newTestDB(t)
	course, questions, options := seedQuizCourse(t, db, 1)

	answers := []RawAnswer{
		{QuestionID: true, OptionID: float64(1)},
		answer(questions[0].ID, options[questions[0].ID][0].ID),
		{QuestionID: float64(questions[0].ID), OptionID: "not a number"},
	}

	_, err := ValidateAndScore(db, course.ID, answers)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Invalid answers payload.", subErr.Detail)
	require.Len(t, subErr.Errors, 2)
	assert.Equal(t, 0, subErr.Errors[0].Index)
	assert.Equal(t, 2, subErr.Errors[1].Index)
}

func TestValidateAndScoreExtraQuestions(t *testing.T) {
	db := newTestDB(t)
	course, questions, options := seedQuizCourse(t, db, 2)

	// One extra id on top of a valid answer; extras win over the missing check
	answers := []RawAnswer{
		answer(questions[0].ID, options[questions[0].ID][0].ID),
		answer(9999, 1),
	}

	_, err := ValidateAndScore(db, course.ID, answers)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Some submitted questions are not part of this course.", subErr.Detail)
	assert.Equal(t, []uint{9999}, subErr.ExtraQuestionIDs)
	assert.Empty(t, subErr.MissingQuestionIDs)
}

func TestValidateAndScoreMissingQuestions(t *testing.T) {
	db := newTestDB(t)
	course, questions, options := seedQuizCourse(t, db, 3)

	answers := []RawAnswer{
		answer(questions[0].ID, options[questions[0].ID][0].ID),
	}

	_, err := ValidateAndScore(db, course.ID, answers)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "You must answer all questions before submitting.", subErr.Detail)
	assert.Equal(t, []uint{questions[1].ID, questions[2].ID}, subErr.MissingQuestionIDs)
}

func TestValidateAndScoreOptionNotFound(t *testing.T) {
	db := newTestDB(t)
	course, questions, _ := seedQuizCourse(t, db, 1)

	answers := []RawAnswer{answer(questions[0].ID, 9999)}

	_, err := ValidateAndScore(db, course.ID, answers)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Option not found.", subErr.Detail)
	require.NotNil(t, subErr.QuestionID)
	require.NotNil(t, subErr.OptionID)
	assert.Equal(t, questions[0].ID, *subErr.QuestionID)
	assert.Equal(t, uint(9999), *subErr.OptionID)
}

func TestValidateAndScoreOptionFromAnotherQuestion(t *testing.T) {
	db := newTestDB(t)
	course, questions, options := seedQuizCourse(t, db, 2)

	// Answer question 1 with an option that belongs to question 2
	answers := []RawAnswer{
		answer(questions[0].ID, options[questions[1].ID][0].ID),
		answer(questions[1].ID, options[questions[1].ID][1].ID),
	}

	_, err := ValidateAndScore(db, course.ID, answers)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Option does not belong to the submitted question.", subErr.Detail)
	require.NotNil(t, subErr.QuestionID)
	assert.Equal(t, questions[0].ID, *subErr.QuestionID)
}

func TestValidateAndScoreDuplicateAnswersLastWins(t *testing.T) {
	db := newTestDB(t)
	course, questions, options := seedQuizCourse(t, db, 1)

	q := questions[0]
	correct := options[q.ID][0]
	wrong := options[q.ID][1]

	result, err := ValidateAndScore(db, course.ID, []RawAnswer{
		answer(q.ID, wrong.ID),
		answer(q.ID, correct.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Correct)

	result, err = ValidateAndScore(db, course.ID, []RawAnswer{
		answer(q.ID, correct.ID),
		answer(q.ID, wrong.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Correct)
}

func TestValidateAndScoreAcceptsNumericStrings(t *testing.T) {
	db := newTestDB(t)
	course, questions, options := seedQuizCourse(t, db, 1)

	q := questions[0]
	correct := options[q.ID][0]

	result, err := ValidateAndScore(db, course.ID, []RawAnswer{
		{
			QuestionID: fmt.Sprintf("%d", q.ID),
			OptionID:   fmt.Sprintf("%d", correct.ID),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Correct)
}

func TestValidateAndScorePartialScore(t *testing.T) {
	db := newTestDB(t)
	course, questions, options := seedQuizCourse(t, db, 3)

	answers := []RawAnswer{
		answer(questions[0].ID, options[questions[0].ID][0].ID), // correct
		answer(questions[1].ID, options[questions[1].ID][2].ID), // wrong
		answer(questions[2].ID, options[questions[2].ID][0].ID), // correct
	}

	result, err := ValidateAndScore(db, course.ID, answers)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Correct)

	// Per-question results follow ascending question id
	require.Len(t, result.PerQuestion, 3)
	assert.Equal(t, questions[0].ID, result.PerQuestion[0].QuestionID)
	assert.True(t, result.PerQuestion[0].Correct)
	assert.Equal(t, questions[1].ID, result.PerQuestion[1].QuestionID)
	assert.False(t, result.PerQuestion[1].Correct)
	assert.Equal(t, questions[2].ID, result.PerQuestion[2].QuestionID)
	assert.True(t, result.PerQuestion[2].Correct)
}
