package main

import (
	"encoding/json"
	"errors"
	"log"
	"os"

	"condingo/config"
	"condingo/database"
	"condingo/models/catalog"
	"condingo/utils"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// Catalog seed document: subjects own courses, courses own questions,
// questions own options. Legacy attempt rows carry scores as strings.
type seedOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type seedQuestion struct {
	Description string       `json:"description"`
	Options     []seedOption `json:"options"`
}

type seedCourse struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Difficulty  int            `json:"difficulty"`
	Questions   []seedQuestion `json:"questions"`
}

type seedSubject struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	IconSVGURL  string       `json:"icon_svg_url"`
	Courses     []seedCourse `json:"courses"`
}

type seedUserCourse struct {
	UserID      uint   `json:"user_id"`
	CourseTitle string `json:"course_title"`
	Score       string `json:"score"` // legacy text representation
	Flag        string `json:"flag"`
}

type seedDocument struct {
	Subjects    []seedSubject    `json:"subjects"`
	UserCourses []seedUserCourse `json:"user_courses"`
}

func main() {
	config.LoadConfig()
	database.ConnectDb()

	doc, err := loadSeed()
	if err != nil {
		log.Fatalf("Failed to load catalog seed: %v", err)
	}

	db := database.Database.Db
	courseIDsByTitle := make(map[string]uint)

	subjects, courses, questions, options := 0, 0, 0, 0

	for _, s := range doc.Subjects {
		var subject catalog.Subject
		err := db.Where("name = ?", s.Name).First(&subject).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			subject = catalog.Subject{Name: s.Name, Description: s.Description, IconSVGURL: s.IconSVGURL}
			if err := db.Create(&subject).Error; err != nil {
				log.Fatalf("Failed to create subject %q: %v", s.Name, err)
			}
			subjects++
		} else if err != nil {
			log.Fatalf("Failed to look up subject %q: %v", s.Name, err)
		}

		for _, co := range s.Courses {
			var course catalog.Course
			err := db.Where("subject_id = ? AND title = ?", subject.ID, co.Title).First(&course).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				course = catalog.Course{
					SubjectID:   subject.ID,
					Title:       co.Title,
					Description: co.Description,
					Difficulty:  co.Difficulty,
				}
				if err := db.Create(&course).Error; err != nil {
					log.Fatalf("Failed to create course %q: %v", co.Title, err)
				}
				courses++

				for _, q := range co.Questions {
					question := catalog.Question{CourseID: course.ID, Description: q.Description}
					if err := db.Create(&question).Error; err != nil {
						log.Fatalf("Failed to create question: %v", err)
					}
					questions++

					for _, o := range q.Options {
						option := catalog.Option{QuestionID: question.ID, Text: o.Text, IsCorrect: o.IsCorrect}
						if err := db.Create(&option).Error; err != nil {
							log.Fatalf("Failed to create option: %v", err)
						}
						options++
					}
				}
			} else if err != nil {
				log.Fatalf("Failed to look up course %q: %v", co.Title, err)
			}
			courseIDsByTitle[co.Title] = course.ID
		}
	}

	attempts := 0
	for _, uc := range doc.UserCourses {
		courseID, ok := courseIDsByTitle[uc.CourseTitle]
		if !ok {
			log.Printf("Skipping attempt row for unknown course %q", uc.CourseTitle)
			continue
		}

		// Legacy rows stored scores as text; malformed values become 0
		score := utils.ParseLegacyScore(uc.Score)

		var existing catalog.UserCourse
		err := db.Where("user_id = ? AND course_id = ?", uc.UserID, courseID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record := catalog.UserCourse{UserID: uc.UserID, CourseID: courseID, Score: score, Flag: uc.Flag}
			if err := db.Create(&record).Error; err != nil {
				log.Fatalf("Failed to import attempt row: %v", err)
			}
			attempts++
		} else if err != nil {
			log.Fatalf("Failed to look up attempt row: %v", err)
		}
	}

	log.Printf("Imported %d subject(s), %d course(s), %d question(s), %d option(s), %d attempt row(s)",
		subjects, courses, questions, options, attempts)
}

// loadSeed reads the catalog document from CATALOG_SEED_URL when configured,
// otherwise from the file given as the first argument (default catalog.json).
func loadSeed() (*seedDocument, error) {
	var raw []byte

	if url := config.AppConfig.CatalogSeedURL; url != "" {
		log.Printf("Fetching catalog seed from %s", url)
		client := resty.New()
		resp, err := client.R().Get(url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, errors.New("seed fetch failed: " + resp.Status())
		}
		raw = resp.Body()
	} else {
		path := "catalog.json"
		if len(os.Args) > 1 {
			path = os.Args[1]
		}
		log.Printf("Reading catalog seed from %s", path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = data
	}

	var doc seedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
