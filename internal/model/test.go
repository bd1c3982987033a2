package model

import (
	"time"

	"gorm.io/gorm"
)

type Test struct {
	ID               uint               `gorm:"primarykey" json:"id"`
	Title            string             `json:"title" gorm:"not null;uniqueIndex"`
	Instructions     string             `json:"instructions,omitempty" gorm:"type:text"`
	TimeLimitMinutes int                `json:"time_limit_minutes"`
	PassingScore     float64            `json:"passing_score"` // threshold on the 0-10 pass scale
	IsActive         bool               `json:"is_active" gorm:"default:true"`
	Questions        []TestQuestionItem `json:"questions,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	DeletedAt        gorm.DeletedAt     `gorm:"index" json:"-"`
}
