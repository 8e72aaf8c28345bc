package controllers

import (
	"condingo/database"
	"condingo/models/catalog"

	"github.com/gofiber/fiber/v2"
)

// ListSubjects returns all subjects
func ListSubjects(c *fiber.Ctx) error {
	var subjects []catalog.Subject
	if err := database.Database.Db.Find(&subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to fetch subjects."})
	}

	data := make([]fiber.Map, 0, len(subjects))
	for _, s := range subjects {
		data = append(data, fiber.Map{
			"SubjectID":          s.ID,
			"SubjectName":        s.Name,
			"SubjectDescription": s.Description,
			"icon_svg_url":       s.IconSVGURL,
		})
	}
	return c.JSON(data)
}

// GetCoursesBySubject returns (CourseID, CourseTitle) pairs for a subject
func GetCoursesBySubject(c *fiber.Ctx) error {
	subjectID := c.Locals("subjectID").(uint)

	var courses []catalog.Course
	if err := database.Database.Db.Where("subject_id = ?", subjectID).Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to fetch courses."})
	}

	data := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		data = append(data, fiber.Map{
			"CourseID":    course.ID,
			"CourseTitle": course.Title,
		})
	}
	return c.JSON(data)
}

// GetCourseByID returns the full course row
func GetCourseByID(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course catalog.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Course not found."})
	}

	return c.JSON(fiber.Map{
		"CourseID":          course.ID,
		"SubjectID":         course.SubjectID,
		"CourseTitle":       course.Title,
		"CourseDescription": course.Description,
		"CourseDifficulty":  course.Difficulty,
	})
}

// GetQuestionsByCourse returns the question id list for a course
func GetQuestionsByCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var questions []catalog.Question
	if err := database.Database.Db.Where("course_id = ?", courseID).Order("id asc").Find(&questions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to fetch questions."})
	}

	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return c.JSON(ids)
}

// GetQuestionByID returns a question with its options. Correctness flags are
// withheld from clients; answers are checked server side.
func GetQuestionByID(c *fiber.Ctx) error {
	questionID := c.Locals("questionID").(uint)

	var question catalog.Question
	if err := database.Database.Db.First(&question, questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Question not found."})
	}

	var options []catalog.Option
	if err := database.Database.Db.Where("question_id = ?", questionID).Order("id asc").Find(&options).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to fetch options."})
	}

	optionData := make([]fiber.Map, 0, len(options))
	for _, opt := range options {
		optionData = append(optionData, fiber.Map{
			"OptionID": opt.ID,
			"text":     opt.Text,
		})
	}

	return c.JSON(fiber.Map{
		"QuestionID":  question.ID,
		"CourseID":    question.CourseID,
		"description": question.Description,
		"options":     optionData,
	})
}

// VerifyOption reports whether a single option is the correct one
func VerifyOption(c *fiber.Ctx) error {
	optionID := c.Locals("optionID").(uint)

	var option catalog.Option
	if err := database.Database.Db.First(&option, optionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Option not found."})
	}

	return c.JSON(fiber.Map{"correct": option.IsCorrect})
}
