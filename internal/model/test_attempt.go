package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusNotStarted = "not_started" // virtual, never stored
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusToBeGraded = "to_be_graded"
	StatusGraded     = "graded"
	StatusTimedOut   = "timed_out"
)

// TestAttempt is one user's pass at a test. At most one attempt per
// (test, user) may be in_progress at a time; once the status leaves
// in_progress the record is effectively immutable except for the
// feedback fields written by the feedback generator.
type TestAttempt struct {
	ID                   uint            `gorm:"primarykey" json:"id"`
	TestID               uint            `json:"test_id" gorm:"not null;index"`
	Test                 Test            `json:"test,omitempty" gorm:"foreignKey:TestID"`
	UserID               string          `json:"user_id" gorm:"not null;index"`
	Status               string          `json:"status" gorm:"not null;default:'in_progress'"`
	StartTime            time.Time       `json:"start_time"`
	EndTime              *time.Time      `json:"end_time,omitempty"`
	RemainingTimeSeconds *int            `json:"remaining_time_seconds,omitempty"`
	LastViewedQuestionID *uint           `json:"last_viewed_question_id,omitempty"` // base question, not slot
	FinalScore           *float64        `json:"final_score,omitempty"`
	IsPassed             bool            `json:"is_passed" gorm:"default:false"`
	Feedback             *string         `json:"feedback,omitempty" gorm:"type:text"`
	Recommendation       *string         `json:"recommendation,omitempty" gorm:"type:text"`
	Answers              []AttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:TestAttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`
}
