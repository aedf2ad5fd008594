package repositories

import (
	"context"

	"github.com/aptis-platform/scoring-service/internal/models"
)

// ExamRepository interface for exam and section operations
type ExamRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	GetByIDWithSections(ctx context.Context, id uint) (*models.Exam, error) // Include sections and their questions
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	List(ctx context.Context, filters ExamFilters) ([]*models.Exam, int64, error)

	// Section access
	GetSections(ctx context.Context, examID uint) ([]*models.ExamSection, error)
	GetSectionByID(ctx context.Context, sectionID uint) (*models.ExamSection, error)
}

// QuestionRepository interface for question bank operations
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Question, error) // Include options, items, sample answers
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	GetBySection(ctx context.Context, sectionID uint) ([]*models.Question, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)
}
