package dto

// AnswerInputDTO is one answer keyed by the test-question-item (slot) id.
// The slot id, not the base question id, is what clients echo back.
type AnswerInputDTO struct {
	TestQuestionItemID uint    `json:"test_question_item_id" binding:"required"`
	UserAnswer         *string `json:"user_answer"`
	TimeSpentSeconds   *int    `json:"time_spent_seconds"`
}

// SaveProgressDTO is the autosave payload. Autosave never grades; grading
// fields on touched answers are reset server-side.
type SaveProgressDTO struct {
	Answers              []AnswerInputDTO `json:"answers" binding:"omitempty,dive"`
	RemainingTimeSeconds *int             `json:"remaining_time_seconds"`
	LastViewedTestItemID *uint            `json:"last_viewed_test_question_item_id"`
}

// SubmitAttemptDTO is the final submission payload. An empty answer list
// is a valid submission: the attempt finalizes with a zero score and the
// pass decision falls to the zero-denominator rule.
type SubmitAttemptDTO struct {
	Answers              []AnswerInputDTO `json:"answers" binding:"omitempty,dive"`
	TimeLeftSeconds      *int             `json:"time_left_seconds"`
	LastViewedTestItemID *uint            `json:"last_viewed_test_question_item_id"`
}
