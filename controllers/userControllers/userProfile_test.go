package userController

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"condingo/models/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeAggregatesProfile(t *testing.T) {
	app, db, user := setupBookmarkApp(t)
	subjects := seedSubjects(t, db, 2)

	require.NoError(t, db.Create(&catalog.UserCourse{UserID: user.ID, CourseID: 10, Score: 3, Flag: catalog.CourseFlagCompleted}).Error)
	require.NoError(t, db.Create(&catalog.UserCourse{UserID: user.ID, CourseID: 11, Score: 2, Flag: catalog.CourseFlagCompleted}).Error)

	require.Equal(t, fiber.StatusOK, bookmark(t, app, subjects[0].ID))
	require.Equal(t, fiber.StatusOK, bookmark(t, app, subjects[1].ID))

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	assert.Equal(t, user.UserName, payload["user_name"])
	assert.Equal(t, user.Email, payload["email"])
	assert.Equal(t, float64(5), payload["total_score"])

	breakdown := payload["completed_course_scores"].([]interface{})
	assert.Len(t, breakdown, 2)

	recent := payload["recent_bookmarked_subjects"].([]interface{})
	require.Len(t, recent, 2)
	newest := recent[0].(map[string]interface{})
	assert.Equal(t, float64(subjects[1].ID), newest["subject_id"])

	profile := payload["profile"].(map[string]interface{})
	assert.Contains(t, profile["profile_pic_url"], "/me/profile-pic")
}

func TestMeWithEmptyState(t *testing.T) {
	app, _, user := setupBookmarkApp(t)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	assert.Equal(t, user.UserName, payload["user_name"])
	assert.Equal(t, float64(0), payload["total_score"])
	assert.Empty(t, payload["completed_course_scores"])
	assert.Empty(t, payload["recent_bookmarked_subjects"])
}

func TestSerializeUserIncludesProfile(t *testing.T) {
	_, db, user := setupBookmarkApp(t)

	data := SerializeUser(db, &user)
	assert.Equal(t, user.UserName, data["user_name"])

	profile, ok := data["profile"].(fiber.Map)
	require.True(t, ok)
	assert.Equal(t, 0, profile["score"])
	assert.Equal(t, 99999, profile["rank"])
}
