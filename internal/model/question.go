package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeSelfWrite      = "self_write"
)

type Question struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	Content      string           `json:"content" gorm:"type:text;not null"`
	QuestionType string           `json:"question_type" gorm:"not null"` // "multiple_choice", "self_write"
	AnswerKey    *string          `json:"answer_key,omitempty"`          // self_write only
	Explanation  *string          `json:"explanation,omitempty" gorm:"type:text"`
	ImageURL     *string          `json:"image_url,omitempty"`
	Options      []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}

// QuestionOption is one choice of a multiple-choice question. OptionUID is
// the stable public identity clients submit as their answer; the numeric
// primary key never leaves the server.
type QuestionOption struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	OptionUID  string         `json:"option_uid" gorm:"not null;uniqueIndex"`
	Text       string         `json:"text" gorm:"type:text;not null"`
	IsCorrect  bool           `json:"is_correct"`
	Position   int            `json:"position"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
