package repositories

import (
	"context"
	"time"

	"github.com/aptis-platform/scoring-service/internal/models"
)

// AttemptRepository interface for exam attempt operations
type AttemptRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, attempt *models.ExamAttempt) error
	GetByID(ctx context.Context, id uint) (*models.ExamAttempt, error)
	GetByIDWithAnswers(ctx context.Context, id uint) (*models.ExamAttempt, error) // Include answers, questions, exam sections
	Update(ctx context.Context, attempt *models.ExamAttempt) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	List(ctx context.Context, filters AttemptFilters) ([]*models.ExamAttempt, int64, error)
	GetByStudent(ctx context.Context, studentID string, filters AttemptFilters) ([]*models.ExamAttempt, int64, error)
	GetByExam(ctx context.Context, examID uint, filters AttemptFilters) ([]*models.ExamAttempt, int64, error)

	// Status management
	UpdateStatus(ctx context.Context, id uint, status models.AttemptStatus) error

	// Scoring and completion
	UpdateScore(ctx context.Context, id uint, score float64, percentage int, gradedAt time.Time) error

	// Statistics
	GetExamAttemptStats(ctx context.Context, examID uint) (*AttemptStats, error)
}

// AnswerRepository interface for student answer operations
type AnswerRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, answer *models.StudentAnswer) error
	GetByID(ctx context.Context, id uint) (*models.StudentAnswer, error)
	Update(ctx context.Context, answer *models.StudentAnswer) error
	Delete(ctx context.Context, id uint) error

	// Bulk operations
	UpsertAnswer(ctx context.Context, answer *models.StudentAnswer) error // Create or update by (attempt, question)
	UpdateBatch(ctx context.Context, answers []*models.StudentAnswer) error

	// Query operations
	GetByAttempt(ctx context.Context, attemptID uint) ([]*models.StudentAnswer, error)
	GetByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) (*models.StudentAnswer, error)
	GetByQuestion(ctx context.Context, questionID uint, filters AnswerFilters) ([]*models.StudentAnswer, error)

	// Grading operations
	UpdateGrade(ctx context.Context, id uint, score float64, percentage int, feedback string, gradedAt time.Time) error
	GetUngraded(ctx context.Context, attemptID uint) ([]*models.StudentAnswer, error)
	GetGradingStats(ctx context.Context, attemptID uint) (*GradingStats, error)
}
