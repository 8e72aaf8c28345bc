package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"condingo/database"
	"condingo/models"
	"condingo/models/catalog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// submissionErrorResponse maps a SubmissionError onto the 400 payload,
// attaching only the structured field that applies.
func submissionErrorResponse(c *fiber.Ctx, subErr *SubmissionError) error {
	payload := fiber.Map{"detail": subErr.Detail}
	if len(subErr.Errors) > 0 {
		payload["errors"] = subErr.Errors
	}
	if len(subErr.ExtraQuestionIDs) > 0 {
		payload["extra_question_ids"] = subErr.ExtraQuestionIDs
	}
	if len(subErr.MissingQuestionIDs) > 0 {
		payload["missing_question_ids"] = subErr.MissingQuestionIDs
	}
	if subErr.QuestionID != nil {
		payload["question_id"] = *subErr.QuestionID
	}
	if subErr.OptionID != nil {
		payload["option_id"] = *subErr.OptionID
	}
	return c.Status(fiber.StatusBadRequest).JSON(payload)
}

// refreshBookmarkedSubject points the caller's profile at the subject of the
// course they just worked on. Best effort; a missing profile is not an error.
func refreshBookmarkedSubject(db *gorm.DB, userID, subjectID uint) {
	now := time.Now()
	if err := db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"bookmarked_subject_id":         subjectID,
			"bookmarked_subject_updated_at": now,
		}).Error; err != nil {
		log.Printf("Failed to refresh bookmarked subject for user %d: %v", userID, err)
	}
}

// SubmitCourseAnswers validates and scores a full quiz submission, then
// records the attempt. Validation fully precedes the write; a rejected
// submission never touches attempt state.
func SubmitCourseAnswers(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "User not found."})
	}

	courseID := c.Locals("courseID").(uint)
	db := database.Database.Db

	var course catalog.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Course not found."})
	}

	var body struct {
		Answers []RawAnswer `json:"answers"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.Answers == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "answers must be a list."})
	}

	result, err := ValidateAndScore(db, courseID, body.Answers)
	if err != nil {
		var subErr *SubmissionError
		if errors.As(err, &subErr) {
			return submissionErrorResponse(c, subErr)
		}
		if errors.Is(err, ErrCourseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Course not found."})
		}
		log.Printf("Failed to score submission for course %d: %v", courseID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to score submission."})
	}

	refreshBookmarkedSubject(db, userID, course.SubjectID)

	outcome, err := RecordAttempt(db, userID, courseID, result.Correct)
	if err != nil {
		log.Printf("Failed to record attempt for user %d course %d: %v", userID, courseID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to record attempt."})
	}

	db.Create(&models.UserActivity{
		UserID:       userID,
		ActivityType: models.ActivityScoreUpdate,
		Details:      fmt.Sprintf("Course %d submitted: %d/%d (improved=%t)", courseID, result.Correct, result.Total, outcome.Improved),
	})

	return c.JSON(fiber.Map{
		"course_id":    course.ID,
		"total":        result.Total,
		"correct":      result.Correct,
		"score":        result.Correct,
		"best_score":   outcome.BestScore,
		"improved":     outcome.Improved,
		"completed":    true,
		"per_question": result.PerQuestion,
	})
}

// MarkCourseCompleted is the legacy path that records an externally supplied
// score. It runs through the same recorder as SubmitCourseAnswers so the
// strictly-greater replacement rule cannot diverge between the two.
func MarkCourseCompleted(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "User not found."})
	}

	courseID := c.Locals("courseID").(uint)
	db := database.Database.Db

	var body struct {
		Score interface{} `json:"score"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.Score == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "score is required."})
	}

	score, err := parseScore(body.Score)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "score must be an integer."})
	}

	var course catalog.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Course not found."})
	}

	refreshBookmarkedSubject(db, userID, course.SubjectID)

	outcome, err := RecordAttempt(db, userID, courseID, score)
	if err != nil {
		log.Printf("Failed to record attempt for user %d course %d: %v", userID, courseID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to record attempt."})
	}

	return c.JSON(fiber.Map{
		"CourseID":    course.ID,
		"CourseFlag":  catalog.CourseFlagCompleted,
		"CourseScore": outcome.BestScore,
	})
}

// parseScore accepts a JSON number or a numeric string
func parseScore(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("score must be an integer")
	}
}

// GetCompletedCourses returns the ids of the caller's completed courses
func GetCompletedCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	var records []catalog.UserCourse
	if err := database.Database.Db.
		Where("user_id = ? AND flag = ?", userID, catalog.CourseFlagCompleted).
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to fetch completed courses."})
	}

	ids := make([]uint, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.CourseID)
	}
	return c.JSON(ids)
}

// GetCompletedCourseScores returns the caller's per-course score breakdown
func GetCompletedCourseScores(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	_, breakdown, err := AggregateProfile(database.Database.Db, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to fetch completed course scores."})
	}
	return c.JSON(breakdown)
}
