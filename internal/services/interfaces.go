package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aptis-platform/scoring-service/internal/models"
	"github.com/aptis-platform/scoring-service/internal/scoring"
)

// ScoringService grades stored answers with the scoring engine and keeps
// attempt and section totals consistent with the per-answer results.
type ScoringService interface {
	// ScoreAnswer grades a submitted payload against a question without
	// persisting anything. Used by the preview endpoint.
	ScoreAnswer(ctx context.Context, req *ScoreAnswerRequest) (*scoring.Result, error)

	// GradeAttempt scores every answer of a submitted attempt, persists the
	// grades and totals in one transaction, and publishes a grading event.
	GradeAttempt(ctx context.Context, attemptID uint, graderID string) (*AttemptGradeResponse, error)

	// SectionScores aggregates an attempt's answers per exam section.
	// Ungraded answers are scored on the fly without being persisted.
	SectionScores(ctx context.Context, attemptID uint) ([]*SectionScoreResponse, error)

	// ReGradeQuestion rescores every graded answer of a question, refreshes
	// affected attempt totals, and invalidates the cached answer key.
	ReGradeQuestion(ctx context.Context, questionID uint, graderID string) (*RegradeResponse, error)
}

// ReportService renders grading results into downloadable documents.
type ReportService interface {
	// ExportAttemptScores builds an XLSX workbook with the attempt's section
	// breakdown and per-question scores. Returns the file bytes and name.
	ExportAttemptScores(ctx context.Context, attemptID uint) ([]byte, string, error)
}

// ===== REQUEST / RESPONSE TYPES =====

type ScoreAnswerRequest struct {
	QuestionID      uint            `json:"question_id" validate:"required"`
	AnswerJSON      json.RawMessage `json:"answer_json,omitempty"`
	TextAnswer      string          `json:"text_answer,omitempty"`
	AudioURL        string          `json:"audio_url,omitempty" validate:"omitempty,url"`
	TranscribedText string          `json:"transcribed_text,omitempty"`
	MaxScore        *float64        `json:"max_score,omitempty" validate:"omitempty,gt=0"`
}

type QuestionScoreDetail struct {
	AnswerID   uint                 `json:"answer_id"`
	QuestionID uint                 `json:"question_id"`
	Type       scoring.QuestionType `json:"question_type"`
	Score      float64              `json:"score"`
	MaxScore   float64              `json:"max_score"`
	Percentage int                  `json:"percentage"`
	Feedback   string               `json:"feedback"`
}

type SectionScoreResponse struct {
	SectionID      uint                  `json:"section_id"`
	SkillType      models.SkillType      `json:"skill_type"`
	MaxScore       float64               `json:"max_score"`
	Score          float64               `json:"score"`
	Percentage     int                   `json:"percentage"`
	TotalQuestions int                   `json:"total_questions"`
	CorrectAnswers int                   `json:"correct_answers"`
	Questions      []QuestionScoreDetail `json:"questions"`
}

type AttemptGradeResponse struct {
	AttemptID       uint                    `json:"attempt_id"`
	ExamID          uint                    `json:"exam_id"`
	StudentID       string                  `json:"student_id"`
	Status          models.AttemptStatus    `json:"status"`
	TotalScore      float64                 `json:"total_score"`
	TotalPercentage int                     `json:"total_percentage"`
	Passed          bool                    `json:"passed"`
	GradedAt        time.Time               `json:"graded_at"`
	Sections        []*SectionScoreResponse `json:"sections"`
}

type RegradeResponse struct {
	QuestionID       uint   `json:"question_id"`
	AnswersRescored  int    `json:"answers_rescored"`
	AffectedAttempts []uint `json:"affected_attempts"`
}
