package controllers

import (
	"testing"

	"condingo/models/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAttemptCreatesRow(t *testing.T) {
	db := newTestDB(t)

	outcome, err := RecordAttempt(db, 1, 7, 3)
	require.NoError(t, err)

	assert.True(t, outcome.Created)
	assert.False(t, outcome.Improved)
	assert.Equal(t, 3, outcome.BestScore)

	var record catalog.UserCourse
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, 7).First(&record).Error)
	assert.Equal(t, 3, record.Score)
	assert.Equal(t, catalog.CourseFlagCompleted, record.Flag)
}

func TestRecordAttemptImprovesScore(t *testing.T) {
	db := newTestDB(t)

	_, err := RecordAttempt(db, 1, 7, 2)
	require.NoError(t, err)

	outcome, err := RecordAttempt(db, 1, 7, 3)
	require.NoError(t, err)

	assert.True(t, outcome.Improved)
	assert.False(t, outcome.Created)
	assert.Equal(t, 3, outcome.BestScore)
}

func TestRecordAttemptKeepsBestScore(t *testing.T) {
	db := newTestDB(t)

	_, err := RecordAttempt(db, 1, 7, 3)
	require.NoError(t, err)

	outcome, err := RecordAttempt(db, 1, 7, 2)
	require.NoError(t, err)

	assert.False(t, outcome.Improved)
	assert.Equal(t, 3, outcome.BestScore)

	var record catalog.UserCourse
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, 7).First(&record).Error)
	assert.Equal(t, 3, record.Score)
}

func TestRecordAttemptEqualScoreIsNotImprovement(t *testing.T) {
	db := newTestDB(t)

	_, err := RecordAttempt(db, 1, 7, 3)
	require.NoError(t, err)

	outcome, err := RecordAttempt(db, 1, 7, 3)
	require.NoError(t, err)

	assert.False(t, outcome.Improved)
	assert.Equal(t, 3, outcome.BestScore)
}

func TestRecordAttemptResetsFlagOnWorseScore(t *testing.T) {
	db := newTestDB(t)

	_, err := RecordAttempt(db, 1, 7, 3)
	require.NoError(t, err)

	// Simulate an external reset of the flag
	require.NoError(t, db.Model(&catalog.UserCourse{}).
		Where("user_id = ? AND course_id = ?", 1, 7).
		Update("flag", "").Error)

	outcome, err := RecordAttempt(db, 1, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.BestScore)

	var record catalog.UserCourse
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, 7).First(&record).Error)
	assert.Equal(t, catalog.CourseFlagCompleted, record.Flag)
	assert.Equal(t, 3, record.Score)
}

func TestRecordAttemptTracksPairsIndependently(t *testing.T) {
	db := newTestDB(t)

	_, err := RecordAttempt(db, 1, 7, 3)
	require.NoError(t, err)
	_, err = RecordAttempt(db, 2, 7, 5)
	require.NoError(t, err)
	_, err = RecordAttempt(db, 1, 8, 1)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&catalog.UserCourse{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	outcome, err := RecordAttempt(db, 2, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, outcome.BestScore)
}

func TestAggregateProfile(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&catalog.UserCourse{UserID: 1, CourseID: 10, Score: 3, Flag: catalog.CourseFlagCompleted}).Error)
	require.NoError(t, db.Create(&catalog.UserCourse{UserID: 1, CourseID: 11, Score: 2, Flag: catalog.CourseFlagCompleted}).Error)
	// Rows without the completed flag do not count
	require.NoError(t, db.Create(&catalog.UserCourse{UserID: 1, CourseID: 12, Score: 5, Flag: ""}).Error)
	// Other users' rows do not count
	require.NoError(t, db.Create(&catalog.UserCourse{UserID: 2, CourseID: 10, Score: 9, Flag: catalog.CourseFlagCompleted}).Error)

	total, breakdown, err := AggregateProfile(db, 1)
	require.NoError(t, err)

	assert.Equal(t, 5, total)
	require.Len(t, breakdown, 2)
	assert.Equal(t, uint(10), breakdown[0].CourseID)
	assert.Equal(t, 3, breakdown[0].CourseScore)
	assert.Equal(t, uint(11), breakdown[1].CourseID)
	assert.Equal(t, 2, breakdown[1].CourseScore)
}

func TestAggregateProfileEmpty(t *testing.T) {
	db := newTestDB(t)

	total, breakdown, err := AggregateProfile(db, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, total)
	assert.NotNil(t, breakdown)
	assert.Empty(t, breakdown)
}
