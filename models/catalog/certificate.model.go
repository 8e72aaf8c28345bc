package catalog

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserCertificate is issued per (user, subject) once every course of the
// subject is completed. The first download freezes names, course titles and
// scores into the row.
type UserCertificate struct {
	gorm.Model
	UserID            uint           `json:"user_id" gorm:"uniqueIndex:idx_user_subject_cert;not null"`
	SubjectID         uint           `json:"subject_id" gorm:"uniqueIndex:idx_user_subject_cert;not null"`
	CertificateNumber string         `json:"certificate_number" gorm:"uniqueIndex"`
	NameEN            string         `json:"name_en"`
	NameCN            string         `json:"name_cn"`
	SubjectEN         string         `json:"subject_en"`
	SubjectCN         string         `json:"subject_cn"`
	CourseTitles      datatypes.JSON `json:"course_titles"`
	CompletedAt       *time.Time     `json:"completed_at"`
	FirstDownloadedAt *time.Time     `json:"first_downloaded_at"`
	Metadata          datatypes.JSON `json:"metadata"`
}
