package controllers

import (
	"fmt"
	"testing"

	"condingo/config"
	"condingo/database"
	"condingo/middleware"
	"condingo/models"
	"condingo/models/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCertificateApp(t *testing.T) (*fiber.App, *gorm.DB, models.User, string) {
	t.Helper()

	db := newTestDB(t)
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	user := models.User{UserName: "gopher", Email: "gopher@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UserProfile{UserID: user.ID}).Error)

	token, err := middleware.GenerateJWT(user.ID, user.UserName, user.Email)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/certificates/status", middleware.JWTMiddleware, GetCertificateStatus)
	app.Post("/certificates/download", middleware.JWTMiddleware, DownloadCertificate)

	return app, db, user, token
}

// seedSubjectWithCourses creates a subject with n courses and marks the first
// completedCount of them completed for the user.
func seedSubjectWithCourses(t *testing.T, db *gorm.DB, userID uint, n, completedCount int) (catalog.Subject, []catalog.Course) {
	t.Helper()

	subject := catalog.Subject{Name: "Kubernetes"}
	require.NoError(t, db.Create(&subject).Error)

	courses := make([]catalog.Course, 0, n)
	for i := 0; i < n; i++ {
		course := catalog.Course{SubjectID: subject.ID, Title: fmt.Sprintf("Course %d", i+1)}
		require.NoError(t, db.Create(&course).Error)
		courses = append(courses, course)

		if i < completedCount {
			require.NoError(t, db.Create(&catalog.UserCourse{
				UserID:   userID,
				CourseID: course.ID,
				Score:    3,
				Flag:     catalog.CourseFlagCompleted,
			}).Error)
		}
	}
	return subject, courses
}

func TestGetCertificateStatusNotEligible(t *testing.T) {
	app, db, user, token := setupCertificateApp(t)
	subject, _ := seedSubjectWithCourses(t, db, user.ID, 3, 1)

	resp, payload := doJSON(t, app, "GET", fmt.Sprintf("/certificates/status?subject_id=%d", subject.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, false, payload["eligible"])
	assert.Nil(t, payload["certificate"])

	subjectInfo := payload["subject"].(map[string]interface{})
	assert.Equal(t, float64(3), subjectInfo["total_courses"])
	assert.Equal(t, float64(1), subjectInfo["completed_courses"])
}

func TestGetCertificateStatusEligible(t *testing.T) {
	app, db, user, token := setupCertificateApp(t)
	subject, _ := seedSubjectWithCourses(t, db, user.ID, 2, 2)

	resp, payload := doJSON(t, app, "GET", fmt.Sprintf("/certificates/status?subject_id=%d", subject.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["eligible"])
}

func TestGetCertificateStatusRequiresSubjectID(t *testing.T) {
	app, _, _, token := setupCertificateApp(t)

	resp, payload := doJSON(t, app, "GET", "/certificates/status", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "subject_id query parameter is required.", payload["detail"])
}

func TestDownloadCertificateRejectsIncompleteSubject(t *testing.T) {
	app, db, user, token := setupCertificateApp(t)
	subject, _ := seedSubjectWithCourses(t, db, user.ID, 2, 1)

	resp, payload := doJSON(t, app, "POST", "/certificates/download", token, fiber.Map{"subject_id": subject.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Complete all courses in this subject before downloading the certificate.", payload["detail"])
}

func TestDownloadCertificateFreezesOnFirstDownload(t *testing.T) {
	app, db, user, token := setupCertificateApp(t)
	subject, _ := seedSubjectWithCourses(t, db, user.ID, 2, 2)

	body := fiber.Map{"subject_id": subject.ID, "name_en": "Go Pher"}
	resp, payload := doJSON(t, app, "POST", "/certificates/download", token, body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cert := payload["certificate"].(map[string]interface{})
	assert.Equal(t, "Go Pher", cert["name_en"])
	assert.Equal(t, subject.Name, cert["subject_en"])
	assert.NotEmpty(t, cert["certificate_number"])
	assert.NotNil(t, cert["first_downloaded_at"])
	assert.Len(t, cert["course_titles"], 2)

	// A second download with a different name keeps the frozen values
	resp, payload = doJSON(t, app, "POST", "/certificates/download", token, fiber.Map{"subject_id": subject.ID, "name_en": "Someone Else"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	again := payload["certificate"].(map[string]interface{})
	assert.Equal(t, "Go Pher", again["name_en"])
	assert.Equal(t, cert["certificate_number"], again["certificate_number"])
	assert.Equal(t, cert["first_downloaded_at"], again["first_downloaded_at"])

	var count int64
	require.NoError(t, db.Model(&catalog.UserCertificate{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDownloadCertificateDefaultsNameToUserName(t *testing.T) {
	app, db, user, token := setupCertificateApp(t)
	subject, _ := seedSubjectWithCourses(t, db, user.ID, 1, 1)

	resp, payload := doJSON(t, app, "POST", "/certificates/download", token, fiber.Map{"subject_id": subject.ID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cert := payload["certificate"].(map[string]interface{})
	assert.Equal(t, user.UserName, cert["name_en"])
	assert.Equal(t, user.UserName, cert["name_cn"])
}
