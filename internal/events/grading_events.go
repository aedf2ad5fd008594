package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// GenerateEventID returns a unique identifier for a grading event.
func GenerateEventID() string {
	return watermill.NewUUID()
}

// EventType represents different types of grading events
type EventType string

const (
	// Attempt events
	EventAttemptSubmitted EventType = "attempt.submitted"
	EventAttemptGraded    EventType = "attempt.graded"

	// Grading events
	EventGradingCompleted      EventType = "grading.completed"
	EventManualGradingRequired EventType = "grading.manual_required"
	EventQuestionRegraded      EventType = "question.regraded"
)

// GradingEvent is the base event structure for all grading events
type GradingEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Attempt event payloads

type AttemptGradedEvent struct {
	AttemptID       uint                  `json:"attempt_id"`
	ExamID          uint                  `json:"exam_id"`
	ExamTitle       string                `json:"exam_title"`
	StudentID       string                `json:"student_id"`
	TotalScore      float64               `json:"total_score"`
	TotalPercentage int                   `json:"total_percentage"`
	Passed          bool                  `json:"passed"`
	GradedAt        time.Time             `json:"graded_at"`
	Sections        []SectionScoreSummary `json:"sections"`
}

type SectionScoreSummary struct {
	SectionID      uint    `json:"section_id"`
	SkillType      string  `json:"skill_type"`
	Score          float64 `json:"score"`
	Percentage     int     `json:"percentage"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
}

// Grading event payloads

type QuestionRegradedEvent struct {
	QuestionID       uint      `json:"question_id"`
	QuestionType     string    `json:"question_type"`
	AnswersRescored  int       `json:"answers_rescored"`
	AffectedAttempts []uint    `json:"affected_attempts"`
	RegradedBy       string    `json:"regraded_by"`
	RegradedAt       time.Time `json:"regraded_at"`
}

type ManualGradingRequiredEvent struct {
	AttemptID    uint   `json:"attempt_id"`
	QuestionID   uint   `json:"question_id"`
	QuestionType string `json:"question_type"`
	StudentID    string `json:"student_id"`
	Reason       string `json:"reason"`
}
