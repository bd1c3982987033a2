package dto

// OptionCreateDTO is used within QuestionCreateDTO for multiple-choice options.
type OptionCreateDTO struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionCreateDTO is an inline question definition for admin test creation.
type QuestionCreateDTO struct {
	Content     string            `json:"content" binding:"required"`
	Type        string            `json:"type" binding:"required,oneof=multiple_choice self_write"`
	AnswerKey   *string           `json:"answer_key"`
	Explanation *string           `json:"explanation"`
	ImageURL    *string           `json:"image_url"`
	Options     []OptionCreateDTO `json:"options" binding:"omitempty,dive"`
}

// SlotCreateDTO binds an inline question into one position of the new test.
type SlotCreateDTO struct {
	Position int               `json:"position" binding:"required,min=1"`
	Points   float64           `json:"points" binding:"gte=0"`
	Question QuestionCreateDTO `json:"question" binding:"required"`
}

// TestCreateDTO is for admin to create a new test with all its questions.
type TestCreateDTO struct {
	Title            string          `json:"title" binding:"required"`
	Instructions     string          `json:"instructions"`
	TimeLimitMinutes int             `json:"time_limit_minutes" binding:"gte=0"`
	PassingScore     float64         `json:"passing_score" binding:"gte=0,lte=10"`
	IsActive         *bool           `json:"is_active"`
	Questions        []SlotCreateDTO `json:"questions" binding:"required,min=1,dive"`
}
