package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/aptis-platform/scoring-service/internal/repositories"
)

// Repository wires the per-entity PostgreSQL repositories behind the shared
// aggregate. Begin returns a copy whose accessors run inside one transaction.
type Repository struct {
	db       *gorm.DB
	exam     repositories.ExamRepository
	question repositories.QuestionRepository
	attempt  repositories.AttemptRepository
	answer   repositories.AnswerRepository
}

func NewRepository(db *gorm.DB) repositories.TransactionRepository {
	return &Repository{
		db:       db,
		exam:     NewExamPostgreSQL(db),
		question: NewQuestionPostgreSQL(db),
		attempt:  NewAttemptPostgreSQL(db),
		answer:   NewAnswerPostgreSQL(db),
	}
}

func (r *Repository) Exam() repositories.ExamRepository         { return r.exam }
func (r *Repository) Question() repositories.QuestionRepository { return r.question }
func (r *Repository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *Repository) Answer() repositories.AnswerRepository     { return r.answer }

func (r *Repository) Begin(ctx context.Context) (repositories.Repository, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return NewRepository(tx), nil
}

func (r *Repository) Commit(_ context.Context) error {
	return r.db.Commit().Error
}

func (r *Repository) Rollback(_ context.Context) error {
	return r.db.Rollback().Error
}
