package userValidator

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SetBookmark validates the bookmark body and stores the subject id
func SetBookmark() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			SubjectID interface{} `json:"subject_id"`
		}
		if err := json.Unmarshal(c.Body(), &body); err != nil || body.SubjectID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "subject_id is required."})
		}

		var id int
		switch v := body.SubjectID.(type) {
		case float64:
			id = int(v)
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "subject_id must be an integer."})
			}
			id = parsed
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "subject_id must be an integer."})
		}

		if id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "subject_id must be an integer."})
		}

		c.Locals("subjectID", uint(id))
		return c.Next()
	}
}

// RemoveBookmark validates the :subject_id path parameter
func RemoveBookmark() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("subject_id"))
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "subject_id must be an integer."})
		}
		c.Locals("subjectID", uint(id))
		return c.Next()
	}
}
