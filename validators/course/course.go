package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parseIDParam parses a positive integer path parameter
func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// SubjectID validates the :subject_id path parameter
func SubjectID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "subject_id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "subject_id must be an integer."})
		}
		c.Locals("subjectID", id)
		return c.Next()
	}
}

// CourseID validates the :course_id path parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "course_id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "course_id must be an integer."})
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// QuestionID validates the :question_id path parameter
func QuestionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "question_id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "question_id must be an integer."})
		}
		c.Locals("questionID", id)
		return c.Next()
	}
}

// OptionID validates the :option_id path parameter
func OptionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "option_id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "option_id must be an integer."})
		}
		c.Locals("optionID", id)
		return c.Next()
	}
}
