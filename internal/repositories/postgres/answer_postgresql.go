package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aptis-platform/scoring-service/internal/models"
	"github.com/aptis-platform/scoring-service/internal/repositories"
)

type AnswerPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (r AnswerPostgreSQL) Create(ctx context.Context, answer *models.StudentAnswer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r AnswerPostgreSQL) GetByID(ctx context.Context, id uint) (*models.StudentAnswer, error) {
	var answer models.StudentAnswer
	if err := r.db.WithContext(ctx).
		Preload("Question").
		Preload("Question.Options").
		Preload("Question.Items.SampleAnswers").
		First(&answer, id).Error; err != nil {
		return nil, err
	}

	return &answer, nil
}

func (r AnswerPostgreSQL) Update(ctx context.Context, answer *models.StudentAnswer) error {
	return r.db.WithContext(ctx).Save(answer).Error
}

func (r AnswerPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.StudentAnswer{}, id).Error
}

func (r AnswerPostgreSQL) UpsertAnswer(ctx context.Context, answer *models.StudentAnswer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answer_json", "text_answer", "audio_url", "transcribed_text",
			"is_skipped", "time_spent", "updated_at",
		}),
	}).Create(answer).Error
}

func (r AnswerPostgreSQL) UpdateBatch(ctx context.Context, answers []*models.StudentAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, answer := range answers {
			if err := tx.Save(answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r AnswerPostgreSQL) GetByAttempt(ctx context.Context, attemptID uint) ([]*models.StudentAnswer, error) {
	var answers []*models.StudentAnswer
	if err := r.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Preload("Question").
		Preload("Question.Options").
		Preload("Question.Items.SampleAnswers").
		Order("question_id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}

	return answers, nil
}

func (r AnswerPostgreSQL) GetByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) (*models.StudentAnswer, error) {
	var answer models.StudentAnswer
	if err := r.db.WithContext(ctx).
		Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
		Preload("Question").
		Preload("Question.Options").
		Preload("Question.Items.SampleAnswers").
		First(&answer).Error; err != nil {
		return nil, err
	}

	return &answer, nil
}

func (r AnswerPostgreSQL) GetByQuestion(ctx context.Context, questionID uint, filters repositories.AnswerFilters) ([]*models.StudentAnswer, error) {
	var answers []*models.StudentAnswer

	query := r.db.WithContext(ctx).Where("question_id = ?", questionID)
	if filters.IsGraded != nil {
		if *filters.IsGraded {
			query = query.Where("graded_at IS NOT NULL")
		} else {
			query = query.Where("graded_at IS NULL")
		}
	}
	if filters.IsSkipped != nil {
		query = query.Where("is_skipped = ?", *filters.IsSkipped)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.
		Preload("Question").
		Preload("Question.Options").
		Preload("Question.Items.SampleAnswers").
		Find(&answers).Error; err != nil {
		return nil, err
	}

	return answers, nil
}

func (r AnswerPostgreSQL) UpdateGrade(ctx context.Context, id uint, score float64, percentage int, feedback string, gradedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.StudentAnswer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"score":      score,
		"percentage": percentage,
		"feedback":   feedback,
		"graded_at":  gradedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r AnswerPostgreSQL) GetUngraded(ctx context.Context, attemptID uint) ([]*models.StudentAnswer, error) {
	var answers []*models.StudentAnswer
	if err := r.db.WithContext(ctx).
		Where("attempt_id = ? AND graded_at IS NULL", attemptID).
		Preload("Question").
		Preload("Question.Options").
		Preload("Question.Items.SampleAnswers").
		Find(&answers).Error; err != nil {
		return nil, err
	}

	return answers, nil
}

func (r AnswerPostgreSQL) GetGradingStats(ctx context.Context, attemptID uint) (*repositories.GradingStats, error) {
	var answers []*models.StudentAnswer
	if err := r.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, errors.New("attempt has no answers")
	}

	stats := &repositories.GradingStats{TotalAnswers: len(answers)}
	totalScore := 0.0
	for _, answer := range answers {
		if answer.IsSkipped {
			stats.SkippedAnswers++
		}
		if answer.GradedAt != nil {
			stats.GradedAnswers++
			if answer.Score != nil {
				totalScore += *answer.Score
			}
		} else {
			stats.PendingAnswers++
		}
	}
	if stats.GradedAnswers > 0 {
		stats.AverageScore = totalScore / float64(stats.GradedAnswers)
	}

	return stats, nil
}
