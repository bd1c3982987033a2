package model

import (
	"time"

	"gorm.io/gorm"
)

// TestQuestionItem binds a base Question into one slot of a Test, with the
// point value that question is worth in this test. Its ID is the key every
// client-submitted answer refers to; the base Question keeps its own
// identity because the same question may appear in other tests with a
// different weight.
type TestQuestionItem struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	TestID     uint           `json:"test_id" gorm:"not null;index"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Question   Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Points     float64        `json:"points"`
	Position   int            `json:"position" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
