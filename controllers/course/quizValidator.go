package controllers

import (
	"errors"
	"sort"
	"strconv"

	"condingo/models/catalog"

	"gorm.io/gorm"
)

// ErrCourseNotFound maps to a 404 in the submit handlers
var ErrCourseNotFound = errors.New("Course not found.")

// RawAnswer is one submitted answer before normalization. Both fields are kept
// loose so a malformed item is reported with its index instead of failing the
// whole body parse.
type RawAnswer struct {
	QuestionID interface{} `json:"question_id"`
	OptionID   interface{} `json:"option_id"`
}

// InvalidAnswer identifies one malformed answer item
type InvalidAnswer struct {
	Index  int    `json:"index"`
	Detail string `json:"detail"`
}

// SubmissionError is a validation failure with the structured payload the
// client needs to correct the submission. Maps to a 400.
type SubmissionError struct {
	Detail             string
	Errors             []InvalidAnswer
	ExtraQuestionIDs   []uint
	MissingQuestionIDs []uint
	QuestionID         *uint
	OptionID           *uint
}

func (e *SubmissionError) Error() string { return e.Detail }

// QuestionResult is the outcome for a single question of a submission
type QuestionResult struct {
	QuestionID uint `json:"question_id"`
	OptionID   uint `json:"option_id"`
	Correct    bool `json:"correct"`
}

// SubmissionResult is the scored outcome of a full submission
type SubmissionResult struct {
	PerQuestion []QuestionResult
	Correct     int
	Total       int
}

// toID coerces a JSON value into an identifier. JSON numbers arrive as
// float64; numeric strings are accepted the way the legacy API did.
func toID(v interface{}) (uint, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil || parsed < 0 {
			return 0, false
		}
		return uint(parsed), true
	default:
		return 0, false
	}
}

// ValidateAndScore checks a submission for completeness and membership against
// the course's question set and scores it. Pure read; no rows are written.
//
// Duplicate question ids resolve last-write-wins. The answered set must equal
// the course's question set exactly; extras and missing ids are both reported.
func ValidateAndScore(db *gorm.DB, courseID uint, answers []RawAnswer) (*SubmissionResult, error) {
	var course catalog.Course
	if err := db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var questions []catalog.Question
	if err := db.Where("course_id = ?", courseID).Find(&questions).Error; err != nil {
		return nil, err
	}

	courseQuestionIDs := make(map[uint]bool, len(questions))
	for _, q := range questions {
		courseQuestionIDs[q.ID] = true
	}

	if len(courseQuestionIDs) == 0 {
		return nil, &SubmissionError{Detail: "Course has no questions."}
	}

	normalized := make(map[uint]uint, len(answers))
	var invalid []InvalidAnswer

	for idx, item := range answers {
		questionID, okQ := toID(item.QuestionID)
		optionID, okO := toID(item.OptionID)
		if !okQ || !okO {
			invalid = append(invalid, InvalidAnswer{Index: idx, Detail: "question_id and option_id must be integers."})
			continue
		}
		normalized[questionID] = optionID
	}

	if len(invalid) > 0 {
		return nil, &SubmissionError{Detail: "Invalid answers payload.", Errors: invalid}
	}

	var extra []uint
	for id := range normalized {
		if !courseQuestionIDs[id] {
			extra = append(extra, id)
		}
	}
	if len(extra) > 0 {
		sortIDs(extra)
		return nil, &SubmissionError{
			Detail:           "Some submitted questions are not part of this course.",
			ExtraQuestionIDs: extra,
		}
	}

	var missing []uint
	for id := range courseQuestionIDs {
		if _, answered := normalized[id]; !answered {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sortIDs(missing)
		return nil, &SubmissionError{
			Detail:             "You must answer all questions before submitting.",
			MissingQuestionIDs: missing,
		}
	}

	ordered := make([]uint, 0, len(courseQuestionIDs))
	for id := range courseQuestionIDs {
		ordered = append(ordered, id)
	}
	sortIDs(ordered)

	result := &SubmissionResult{Total: len(ordered)}

	for _, questionID := range ordered {
		optionID := normalized[questionID]

		var option catalog.Option
		if err := db.First(&option, optionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				qID, oID := questionID, optionID
				return nil, &SubmissionError{Detail: "Option not found.", QuestionID: &qID, OptionID: &oID}
			}
			return nil, err
		}

		if option.QuestionID != questionID {
			qID, oID := questionID, optionID
			return nil, &SubmissionError{
				Detail:     "Option does not belong to the submitted question.",
				QuestionID: &qID,
				OptionID:   &oID,
			}
		}

		if option.IsCorrect {
			result.Correct++
		}
		result.PerQuestion = append(result.PerQuestion, QuestionResult{
			QuestionID: questionID,
			OptionID:   optionID,
			Correct:    option.IsCorrect,
		})
	}

	return result, nil
}

func sortIDs(ids []uint) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
