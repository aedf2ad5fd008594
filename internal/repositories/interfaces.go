package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aptis-platform/scoring-service/internal/models"
	"github.com/aptis-platform/scoring-service/internal/scoring"
)

// Repository aggregates the per-entity repositories behind a single
// injection point for the service layer.
type Repository interface {
	Exam() ExamRepository
	Question() QuestionRepository
	Attempt() AttemptRepository
	Answer() AnswerRepository
}

// TransactionRepository is implemented by repositories that can scope all
// accessors to a single database transaction. Services type-assert to it
// when a grading pass must commit atomically.
type TransactionRepository interface {
	Repository
	Begin(ctx context.Context) (Repository, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// IsNotFoundError reports whether err means the requested row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	Status    *models.ExamStatus `json:"status"`
	CreatedBy *string            `json:"created_by"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "created_at", "title"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	Type      *scoring.QuestionType `json:"type"`
	SectionID *uint                 `json:"section_id"`
	CreatedBy *string               `json:"created_by"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type AttemptFilters struct {
	Status    models.AttemptStatus `json:"status"`
	StudentID *string              `json:"student_id"`
	ExamID    *uint                `json:"exam_id"`
	DateFrom  *time.Time           `json:"date_from"`
	DateTo    *time.Time           `json:"date_to"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"`    // "created_at", "submitted_at"
	SortOrder string               `json:"sort_order"` // "asc", "desc"
}

type AnswerFilters struct {
	IsGraded  *bool `json:"is_graded"`
	IsSkipped *bool `json:"is_skipped"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type AttemptStats struct {
	TotalAttempts   int                          `json:"total_attempts"`
	StatusBreakdown map[models.AttemptStatus]int `json:"status_breakdown"`
	AverageScore    float64                      `json:"average_score"`
	PassRate        float64                      `json:"pass_rate"`
}

type GradingStats struct {
	TotalAnswers   int     `json:"total_answers"`
	GradedAnswers  int     `json:"graded_answers"`
	PendingAnswers int     `json:"pending_answers"`
	SkippedAnswers int     `json:"skipped_answers"`
	AverageScore   float64 `json:"average_score"`
}
