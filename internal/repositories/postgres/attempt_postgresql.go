package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aptis-platform/scoring-service/internal/models"
	"github.com/aptis-platform/scoring-service/internal/repositories"
)

type AttemptPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (a AttemptPostgreSQL) Create(ctx context.Context, attempt *models.ExamAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.ExamAttempt, error) {
	var attempt models.ExamAttempt
	if err := a.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}

	return &attempt, nil
}

func (a AttemptPostgreSQL) GetByIDWithAnswers(ctx context.Context, id uint) (*models.ExamAttempt, error) {
	var attempt models.ExamAttempt
	if err := a.db.WithContext(ctx).
		Preload("Exam").
		Preload("Exam.Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_sections.section_order ASC")
		}).
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.Question.Options").
		Preload("Answers.Question.Items.SampleAnswers").
		First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a AttemptPostgreSQL) Update(ctx context.Context, attempt *models.ExamAttempt) error {
	return a.db.WithContext(ctx).Save(attempt).Error
}

func (a AttemptPostgreSQL) Delete(ctx context.Context, id uint) error {
	return a.db.WithContext(ctx).Delete(&models.ExamAttempt{}, id).Error
}

func (a AttemptPostgreSQL) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.ExamAttempt, int64, error) {
	var attempts []*models.ExamAttempt
	var total int64

	// apply filter first
	query := a.db.WithContext(ctx).Model(&models.ExamAttempt{})
	query = a.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = a.applyPaginationAndSort(query, filters)

	if err := query.Preload("Exam").Find(&attempts).Error; err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}

func (a AttemptPostgreSQL) GetByStudent(ctx context.Context, studentID string, filters repositories.AttemptFilters) ([]*models.ExamAttempt, int64, error) {
	filters.StudentID = &studentID
	return a.List(ctx, filters)
}

func (a AttemptPostgreSQL) GetByExam(ctx context.Context, examID uint, filters repositories.AttemptFilters) ([]*models.ExamAttempt, int64, error) {
	filters.ExamID = &examID
	return a.List(ctx, filters)
}

func (a AttemptPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.AttemptStatus) error {
	return a.db.WithContext(ctx).Model(&models.ExamAttempt{}).Where("id = ?", id).Update("status", status).Error
}

func (a AttemptPostgreSQL) UpdateScore(ctx context.Context, id uint, score float64, percentage int, gradedAt time.Time) error {
	return a.db.WithContext(ctx).Model(&models.ExamAttempt{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_score":      score,
		"total_percentage": percentage,
		"graded_at":        gradedAt,
		"status":           models.AttemptStatusGraded,
	}).Error
}

func (a AttemptPostgreSQL) GetExamAttemptStats(ctx context.Context, examID uint) (*repositories.AttemptStats, error) {
	var attempts []*models.ExamAttempt
	if err := a.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Preload("Exam").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	stats := &repositories.AttemptStats{
		TotalAttempts:   len(attempts),
		StatusBreakdown: make(map[models.AttemptStatus]int),
	}

	totalScore := 0.0
	gradedCount := 0
	passedCount := 0
	for _, attempt := range attempts {
		stats.StatusBreakdown[attempt.Status]++
		if attempt.Status != models.AttemptStatusGraded || attempt.TotalPercentage == nil {
			continue
		}
		gradedCount++
		if attempt.TotalScore != nil {
			totalScore += *attempt.TotalScore
		}
		if *attempt.TotalPercentage >= attempt.Exam.PassingScore {
			passedCount++
		}
	}
	if gradedCount > 0 {
		stats.AverageScore = totalScore / float64(gradedCount)
		stats.PassRate = float64(passedCount) / float64(gradedCount)
	}

	return stats, nil
}

// Helper methods

func (a AttemptPostgreSQL) applyFilters(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.ExamID != nil {
		query = query.Where("exam_id = ?", *filters.ExamID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func (a AttemptPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	return a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
}
