package models

import (
	"strconv"
	"time"

	"gorm.io/datatypes"

	"github.com/aptis-platform/scoring-service/internal/scoring"
)

// StudentAnswer is a learner's stored submission for one question. AnswerJSON
// carries the structured payload for multi-part types; TextAnswer carries
// prose and bare selections; AudioURL/TranscribedText carry speaking
// responses. Score fields are filled by grading.
type StudentAnswer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	AttemptID  uint `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`

	AnswerJSON      datatypes.JSON `json:"answer_json" gorm:"type:jsonb"`
	TextAnswer      *string        `json:"text_answer" gorm:"type:text"`
	AudioURL        *string        `json:"audio_url" gorm:"size:500"`
	TranscribedText *string        `json:"transcribed_text" gorm:"type:text"`

	MaxScore   *float64   `json:"max_score"`
	Score      *float64   `json:"score"`
	Percentage *int       `json:"percentage"`
	Feedback   *string    `json:"feedback" gorm:"type:text"`
	GradedAt   *time.Time `json:"graded_at"`

	IsSkipped bool `json:"is_skipped" gorm:"default:false"`
	TimeSpent *int `json:"time_spent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Question Question `json:"question" gorm:"foreignKey:QuestionID"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}

// ScoringView maps the stored answer onto the scoring engine's input shape.
func (a *StudentAnswer) ScoringView() scoring.Answer {
	view := scoring.Answer{AnswerJSON: []byte(a.AnswerJSON)}
	if a.TextAnswer != nil {
		view.TextAnswer = *a.TextAnswer
	}
	if a.AudioURL != nil {
		view.AudioURL = *a.AudioURL
	}
	if a.TranscribedText != nil {
		view.TranscribedText = *a.TranscribedText
	}
	return view
}

// EffectiveMaxScore resolves the max score to grade against: the answer's
// own, then the question's, then the platform default of 1.
func (a *StudentAnswer) EffectiveMaxScore() float64 {
	if a.MaxScore != nil && *a.MaxScore > 0 {
		return *a.MaxScore
	}
	return a.Question.EffectiveMaxScore()
}

// ===== WIRE PAYLOAD SHAPES =====
//
// The structured answer_json payloads produced by the capture UI. Key names
// are a wire contract with already-stored answers and must stay stable.

type GapFillPayload struct {
	Gaps map[string]string `json:"gaps"`
}

type MatchingPayload struct {
	Matches map[string]string `json:"matches"`
}

type StatementMatchingPayload struct {
	Statements map[string]string `json:"statements"`
}

type OrderingPayload struct {
	Order map[string]string `json:"order,omitempty"`
	// Alternative encoding: the items in submitted order, each carrying its
	// own identity.
	OrderedItems []OrderedItem `json:"ordered_items,omitempty"`
}

type OrderedItem struct {
	ID            string `json:"id"`
	OriginalOrder int    `json:"original_order"`
}

type EmailWritingPayload struct {
	FriendEmail  string `json:"friendEmail"`
	ManagerEmail string `json:"managerEmail"`
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
