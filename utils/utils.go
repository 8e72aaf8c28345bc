package utils

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GenerateLicenseCode returns a short upper-case license code
func GenerateLicenseCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:16]
}

// GenerateResetToken returns an opaque password-reset token
func GenerateResetToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// ParseLegacyScore parses a score that legacy data stored as text. Malformed
// values fall back to 0; the importer is the only caller that should ever see
// one.
func ParseLegacyScore(raw string) int {
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return score
}
