package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// --- Test catalog DTOs ---

// TestSummaryDTO is used for listing tests available to users.
type TestSummaryDTO struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	PassingScore     float64   `json:"passing_score"`
	IsActive         bool      `json:"is_active"`
	QuestionCount    int       `json:"question_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// TestInfoDTO is the test header shown while taking a test.
type TestInfoDTO struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
	Instructions     string `json:"instructions,omitempty"`
}

// OptionPublicDTO is a multiple-choice option with the correctness flag
// stripped, safe to hand to a test taker.
type OptionPublicDTO struct {
	ID    string `json:"id"` // option uid
	Text  string `json:"text"`
	Label string `json:"label"` // "A", "B", ...
}

// TakingQuestionDTO is one slot of the test as presented during an attempt:
// question content with answers hidden, plus the slot key the client must
// use for every answer it sends back.
type TakingQuestionDTO struct {
	TestQuestionItemID uint              `json:"test_question_item_id"`
	QuestionID         uint              `json:"question_id"`
	Content            string            `json:"content"`
	QuestionType       string            `json:"question_type"`
	Points             float64           `json:"points"`
	Position           int               `json:"position"`
	ImageURL           *string           `json:"image_url,omitempty"`
	Options            []OptionPublicDTO `json:"options,omitempty"`
}

// TestDetailDTO is the pre-attempt description page payload.
type TestDetailDTO struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Instructions     string    `json:"instructions,omitempty"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	PassingScore     float64   `json:"passing_score"`
	IsActive         bool      `json:"is_active"`
	QuestionCount    int       `json:"question_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// --- Attempt lifecycle DTOs ---

type AttemptSummaryDTO struct {
	ID                   uint       `json:"id"`
	Status               string     `json:"status"`
	StartTime            time.Time  `json:"start_time"`
	EndTime              *time.Time `json:"end_time,omitempty"`
	RemainingTimeSeconds *int       `json:"remaining_time_seconds,omitempty"`
	LastViewedQuestionID *uint      `json:"last_viewed_question_id,omitempty"`
}

// SavedAnswerDTO is a previously autosaved answer, keyed in the bundle by
// the slot id it belongs to.
type SavedAnswerDTO struct {
	UserAnswer       *string `json:"user_answer"`
	TimeSpentSeconds int     `json:"time_spent_seconds"`
}

// AttemptBundleDTO is the full start-or-resume response: everything the
// client needs to render the test-taking screen.
type AttemptBundleDTO struct {
	Attempt            AttemptSummaryDTO       `json:"attempt"`
	Test               TestInfoDTO             `json:"test"`
	Questions          []TakingQuestionDTO     `json:"questions"`
	SavedAnswers       map[uint]SavedAnswerDTO `json:"saved_answers"`
	TimeElapsedSeconds int                     `json:"time_elapsed_seconds"`
}

type AttemptStatusDTO struct {
	Status string `json:"status"`
}

type ScoreSummaryDTO struct {
	Status    string  `json:"status"`
	Score     float64 `json:"score"`
	Passed    bool    `json:"passed"`
	AttemptID uint    `json:"attempt_id"`
}

// AttemptListItemDTO is one row of a user's attempt history.
type AttemptListItemDTO struct {
	ID               uint       `json:"id"`
	TestID           uint       `json:"test_id"`
	TestTitle        string     `json:"test_title,omitempty"`
	Status           string     `json:"status"`
	FinalScore       *float64   `json:"final_score,omitempty"`
	IsPassed         bool       `json:"is_passed"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	TimeTakenSeconds *int       `json:"time_taken_seconds,omitempty"`
}

// --- Result review DTOs ---

// QuestionResultDTO is one slot of the result review. Every slot of the
// test definition appears, answered or not.
type QuestionResultDTO struct {
	QuestionID         uint              `json:"question_id"`
	TestQuestionItemID uint              `json:"test_question_item_id"`
	Content            string            `json:"content"`
	QuestionType       string            `json:"question_type"`
	Options            []OptionPublicDTO `json:"options,omitempty"`
	AnswerKey          *string           `json:"answer_key,omitempty"` // option uid for multiple choice
	Explanation        *string           `json:"explanation,omitempty"`
	ImageURL           *string           `json:"image_url,omitempty"`
	UserAnswer         *string           `json:"user_answer,omitempty"`
	IsCorrect          *bool             `json:"is_correct,omitempty"`
	PointsAwarded      *float64          `json:"points_awarded,omitempty"`
	PointValue         float64           `json:"point_value"`
	TimeSpentSeconds   *int              `json:"time_spent_seconds,omitempty"`
}

type ResultAttemptDTO struct {
	ID               uint       `json:"id"`
	Status           string     `json:"status"`
	Score            *float64   `json:"score,omitempty"`
	Passed           bool       `json:"passed"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	TimeTakenSeconds *int       `json:"time_taken_seconds,omitempty"`
}

type ResultTestDTO struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	PassingScore float64 `json:"passing_score"`
	// TotalPossibleScore sums every slot of the definition, unlike the
	// submit-time denominator which sums submitted slots only.
	TotalPossibleScore float64 `json:"total_possible_score"`
}

type ResultViewDTO struct {
	Attempt          ResultAttemptDTO    `json:"attempt"`
	Test             ResultTestDTO       `json:"test"`
	QuestionsAnswers []QuestionResultDTO `json:"questions_answers"`
	Feedback         *string             `json:"feedback,omitempty"`
	Recommendation   *string             `json:"recommendation,omitempty"`
}
