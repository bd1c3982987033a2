package model

import (
	"time"

	"gorm.io/gorm"
)

// AttemptAnswer is one answered slot within an attempt. TestQuestionItemID
// is the upsert key: autosave and submit both look answers up by slot, never
// by base question. Nil IsCorrect means not-yet-graded or ungradable, which
// is distinct from graded-incorrect.
type AttemptAnswer struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	TestAttemptID      uint           `json:"test_attempt_id" gorm:"not null;uniqueIndex:idx_attempt_slot"`
	QuestionID         uint           `json:"question_id" gorm:"not null;index"`
	TestQuestionItemID uint           `json:"test_question_item_id" gorm:"not null;uniqueIndex:idx_attempt_slot"`
	UserAnswer         *string        `json:"user_answer,omitempty" gorm:"type:text"`
	IsCorrect          *bool          `json:"is_correct,omitempty"`
	PointsAwarded      *float64       `json:"points_awarded,omitempty"`
	SubmittedAt        time.Time      `json:"submitted_at"`
	TimeSpentSeconds   *int           `json:"time_spent_seconds,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
