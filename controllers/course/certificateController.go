package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"condingo/database"
	"condingo/models"
	"condingo/models/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type certificateCourse struct {
	CourseID    uint   `json:"course_id"`
	CourseTitle string `json:"course_title"`
	Score       int    `json:"score"`
}

func serializeCertificate(cert *catalog.UserCertificate, subject *catalog.Subject) fiber.Map {
	if cert == nil {
		return nil
	}
	var titles []string
	if len(cert.CourseTitles) > 0 {
		_ = json.Unmarshal(cert.CourseTitles, &titles)
	}
	var meta map[string]interface{}
	if len(cert.Metadata) > 0 {
		_ = json.Unmarshal(cert.Metadata, &meta)
	}
	return fiber.Map{
		"subject": fiber.Map{
			"id":   subject.ID,
			"name": subject.Name,
		},
		"certificate_number":  cert.CertificateNumber,
		"name_en":             cert.NameEN,
		"name_cn":             cert.NameCN,
		"subject_en":          cert.SubjectEN,
		"subject_cn":          cert.SubjectCN,
		"course_titles":       titles,
		"completed_at":        cert.CompletedAt,
		"first_downloaded_at": cert.FirstDownloadedAt,
		"metadata":            meta,
	}
}

// completedSubjectCourses returns the caller's completed attempts joined with
// the subject's courses.
func completedSubjectCourses(db *gorm.DB, userID, subjectID uint) ([]certificateCourse, error) {
	var rows []certificateCourse
	err := db.Table("user_courses").
		Select("user_courses.course_id, courses.title AS course_title, user_courses.score").
		Joins("JOIN courses ON courses.id = user_courses.course_id").
		Where("user_courses.user_id = ? AND user_courses.flag = ? AND courses.subject_id = ?", userID, catalog.CourseFlagCompleted, subjectID).
		Where("user_courses.deleted_at IS NULL AND courses.deleted_at IS NULL").
		Scan(&rows).Error
	return rows, err
}

func parseSubjectID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.New("subject_id must be an integer.")
	}
	return uint(id), nil
}

// GetCertificateStatus reports eligibility and any issued certificate for a
// subject. Eligible means every course of the subject is completed.
func GetCertificateStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	rawSubjectID := c.Query("subject_id")
	if rawSubjectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "subject_id query parameter is required."})
	}
	subjectID, err := parseSubjectID(rawSubjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}

	db := database.Database.Db

	var subject catalog.Subject
	if err := db.First(&subject, subjectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Subject not found."})
	}

	var subjectTotal int64
	db.Model(&catalog.Course{}).Where("subject_id = ?", subjectID).Count(&subjectTotal)

	completed, err := completedSubjectCourses(db, userID, subjectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to fetch completed courses."})
	}

	eligible := subjectTotal > 0 && int64(len(completed)) >= subjectTotal

	var certPayload fiber.Map
	var cert catalog.UserCertificate
	if err := db.Where("user_id = ? AND subject_id = ?", userID, subjectID).First(&cert).Error; err == nil {
		certPayload = serializeCertificate(&cert, &subject)
	}

	return c.JSON(fiber.Map{
		"eligible": eligible,
		"subject": fiber.Map{
			"id":                subject.ID,
			"name":              subject.Name,
			"total_courses":     subjectTotal,
			"completed_courses": len(completed),
		},
		"completed_courses": completed,
		"certificate":       certPayload,
	})
}

// DownloadCertificate issues (or returns) the caller's certificate for a
// subject. The first download freezes names, course titles and scores into
// the row inside a transaction.
func DownloadCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "User not found."})
	}

	var body struct {
		SubjectID interface{} `json:"subject_id"`
		NameEN    string      `json:"name_en"`
		NameCN    string      `json:"name_cn"`
		SubjectEN string      `json:"subject_en"`
		SubjectCN string      `json:"subject_cn"`
	}
	_ = json.Unmarshal(c.Body(), &body)

	rawSubjectID := ""
	switch v := body.SubjectID.(type) {
	case float64:
		rawSubjectID = strconv.Itoa(int(v))
	case string:
		rawSubjectID = v
	}
	if rawSubjectID == "" {
		rawSubjectID = c.Query("subject_id")
	}
	if rawSubjectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "subject_id is required."})
	}

	subjectID, err := parseSubjectID(rawSubjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}

	db := database.Database.Db

	var subject catalog.Subject
	if err := db.First(&subject, subjectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Subject not found."})
	}

	var subjectTotal int64
	db.Model(&catalog.Course{}).Where("subject_id = ?", subjectID).Count(&subjectTotal)

	completed, err := completedSubjectCourses(db, userID, subjectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to fetch completed courses."})
	}

	if subjectTotal == 0 || int64(len(completed)) < subjectTotal {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Complete all courses in this subject before downloading the certificate.",
		})
	}

	var cert catalog.UserCertificate
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND subject_id = ?", userID, subjectID).First(&cert).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cert = catalog.UserCertificate{
				UserID:            userID,
				SubjectID:         subjectID,
				CertificateNumber: strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:16],
			}
			if err := tx.Create(&cert).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if cert.FirstDownloadedAt == nil {
			now := time.Now()

			titles := make([]string, 0, len(completed))
			for _, cc := range completed {
				titles = append(titles, cc.CourseTitle)
			}
			titlesJSON, _ := json.Marshal(titles)
			metaJSON, _ := json.Marshal(map[string]interface{}{"course_scores": completed})

			cert.NameEN = firstNonEmpty(body.NameEN, user.UserName)
			cert.NameCN = firstNonEmpty(body.NameCN, cert.NameEN)
			cert.SubjectEN = firstNonEmpty(body.SubjectEN, subject.Name)
			cert.SubjectCN = firstNonEmpty(body.SubjectCN, cert.SubjectEN)
			cert.CourseTitles = datatypes.JSON(titlesJSON)
			cert.CompletedAt = &now
			cert.FirstDownloadedAt = &now
			cert.Metadata = datatypes.JSON(metaJSON)
			return tx.Save(&cert).Error
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to issue certificate for user %d subject %d: %v", userID, subjectID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to issue certificate."})
	}

	return c.JSON(fiber.Map{
		"eligible": true,
		"subject": fiber.Map{
			"id":                subject.ID,
			"name":              subject.Name,
			"total_courses":     subjectTotal,
			"completed_courses": len(completed),
		},
		"certificate": serializeCertificate(&cert, &subject),
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
