package controllers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"condingo/database"
	courseValidator "condingo/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCatalogApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Get("/subjects", ListSubjects)
	app.Get("/subjects/:subject_id/courses", courseValidator.SubjectID(), GetCoursesBySubject)
	app.Get("/courses/:course_id", courseValidator.CourseID(), GetCourseByID)
	app.Get("/courses/:course_id/questions", courseValidator.CourseID(), GetQuestionsByCourse)
	app.Get("/questions/:question_id", courseValidator.QuestionID(), GetQuestionByID)
	app.Get("/options/:option_id/verify", courseValidator.OptionID(), VerifyOption)

	return app, db
}

func getJSON(t *testing.T, app *fiber.App, path string, out interface{}) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestListSubjects(t *testing.T) {
	app, db := setupCatalogApp(t)
	seedQuizCourse(t, db, 1)

	var payload []map[string]interface{}
	status := getJSON(t, app, "/subjects", &payload)
	assert.Equal(t, fiber.StatusOK, status)

	require.Len(t, payload, 1)
	assert.Equal(t, "Docker", payload[0]["SubjectName"])
	assert.NotNil(t, payload[0]["SubjectID"])
}

func TestGetCoursesBySubject(t *testing.T) {
	app, db := setupCatalogApp(t)
	course, _, _ := seedQuizCourse(t, db, 1)

	var payload []map[string]interface{}
	status := getJSON(t, app, fmt.Sprintf("/subjects/%d/courses", course.SubjectID), &payload)
	assert.Equal(t, fiber.StatusOK, status)

	require.Len(t, payload, 1)
	assert.Equal(t, course.Title, payload[0]["CourseTitle"])
	assert.Equal(t, float64(course.ID), payload[0]["CourseID"])
}

func TestGetCourseByID(t *testing.T) {
	app, db := setupCatalogApp(t)
	course, _, _ := seedQuizCourse(t, db, 1)

	var payload map[string]interface{}
	status := getJSON(t, app, fmt.Sprintf("/courses/%d", course.ID), &payload)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, course.Title, payload["CourseTitle"])

	status = getJSON(t, app, "/courses/999", &payload)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Course not found.", payload["detail"])
}

func TestGetQuestionsByCourse(t *testing.T) {
	app, db := setupCatalogApp(t)
	course, questions, _ := seedQuizCourse(t, db, 3)

	var ids []uint
	status := getJSON(t, app, fmt.Sprintf("/courses/%d/questions", course.ID), &ids)
	assert.Equal(t, fiber.StatusOK, status)

	require.Len(t, ids, 3)
	assert.Equal(t, questions[0].ID, ids[0])
	assert.Equal(t, questions[2].ID, ids[2])
}

func TestGetQuestionByIDHidesCorrectness(t *testing.T) {
	app, db := setupCatalogApp(t)
	_, questions, _ := seedQuizCourse(t, db, 1)

	var payload map[string]interface{}
	status := getJSON(t, app, fmt.Sprintf("/questions/%d", questions[0].ID), &payload)
	assert.Equal(t, fiber.StatusOK, status)

	options := payload["options"].([]interface{})
	require.Len(t, options, 3)
	for _, raw := range options {
		opt := raw.(map[string]interface{})
		assert.NotContains(t, opt, "IsCorrect")
		assert.NotContains(t, opt, "is_correct")
		assert.Contains(t, opt, "OptionID")
		assert.Contains(t, opt, "text")
	}
}

func TestVerifyOption(t *testing.T) {
	app, db := setupCatalogApp(t)
	_, questions, options := seedQuizCourse(t, db, 1)

	correct := options[questions[0].ID][0]
	wrong := options[questions[0].ID][1]

	var payload map[string]interface{}
	status := getJSON(t, app, fmt.Sprintf("/options/%d/verify", correct.ID), &payload)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, payload["correct"])

	status = getJSON(t, app, fmt.Sprintf("/options/%d/verify", wrong.ID), &payload)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, payload["correct"])

	status = getJSON(t, app, "/options/999/verify", &payload)
	assert.Equal(t, fiber.StatusNotFound, status)
}
