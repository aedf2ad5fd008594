package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/aptis-platform/scoring-service/internal/scoring"
)

type Question struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	ExamSectionID *uint                `json:"exam_section_id" gorm:"index"`
	Type          scoring.QuestionType `json:"question_type" gorm:"column:question_type;not null;size:40;index" validate:"required,question_type"`
	Title         string               `json:"title" gorm:"not null;size:300" validate:"required,min=1,max=300"`
	Content       *string              `json:"content" gorm:"type:text"`
	MediaURL      *string              `json:"media_url" gorm:"size:500"`
	MaxScore      float64              `json:"max_score" gorm:"default:1" validate:"min=0"`

	// Writing length criteria; nil means the platform defaults apply.
	MinWords    *int `json:"min_words"`
	MaxWords    *int `json:"max_words"`
	TargetWords *int `json:"target_words"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Options []QuestionOption `json:"question_options" gorm:"foreignKey:QuestionID"`
	Items   []QuestionItem   `json:"question_items" gorm:"foreignKey:QuestionID"`
}

type QuestionOption struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	QuestionID  uint   `json:"question_id" gorm:"not null;index"`
	OptionText  string `json:"option_text" gorm:"not null;type:text"`
	IsCorrect   bool   `json:"is_correct" gorm:"default:false"`
	OptionOrder int    `json:"option_order" gorm:"default:0"`
}

// QuestionItem is one sub-part of a multi-part question: a gap, a matching
// row, a statement, or an ordering slot. AnswerText holds the expected gap
// text or the encoded expected position; SampleAnswers hold the reference
// values for matching-style types.
type QuestionItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	QuestionID uint    `json:"question_id" gorm:"not null;index"`
	ItemText   string  `json:"item_text" gorm:"type:text"`
	ItemOrder  int     `json:"item_order" gorm:"default:0"`
	AnswerText *string `json:"answer_text" gorm:"type:text"`

	SampleAnswers []SampleAnswer `json:"sample_answers" gorm:"foreignKey:QuestionItemID"`
}

type SampleAnswer struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	QuestionItemID uint   `json:"question_item_id" gorm:"not null;index"`
	AnswerText     string `json:"answer_text" gorm:"not null;type:text"`
}

func (Question) TableName() string {
	return "questions"
}

// ScoringView maps the stored question onto the scoring engine's input shape.
func (q *Question) ScoringView() scoring.Question {
	view := scoring.Question{Type: q.Type}

	if len(q.Options) > 0 {
		view.Options = make([]scoring.Option, len(q.Options))
		for i, opt := range q.Options {
			view.Options[i] = scoring.Option{
				ID:        formatUint(opt.ID),
				Text:      opt.OptionText,
				IsCorrect: opt.IsCorrect,
			}
		}
	}

	if len(q.Items) > 0 {
		view.Items = make([]scoring.Item, len(q.Items))
		for i, item := range q.Items {
			si := scoring.Item{
				ID:    formatUint(item.ID),
				Text:  item.ItemText,
				Order: item.ItemOrder,
			}
			if item.AnswerText != nil {
				si.AnswerText = *item.AnswerText
			}
			for _, sa := range item.SampleAnswers {
				si.SampleAnswers = append(si.SampleAnswers, sa.AnswerText)
			}
			view.Items[i] = si
		}
	}

	if q.MinWords != nil {
		view.Writing.MinWords = *q.MinWords
	}
	if q.MaxWords != nil {
		view.Writing.MaxWords = *q.MaxWords
	}
	if q.TargetWords != nil {
		view.Writing.TargetWords = *q.TargetWords
	}

	return view
}

// EffectiveMaxScore is the question's max score with the platform default of
// 1 for questions authored without one.
func (q *Question) EffectiveMaxScore() float64 {
	if q.MaxScore > 0 {
		return q.MaxScore
	}
	return 1
}
