package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/npthao/examhub/config"
	"github.com/npthao/examhub/internal/model"
	"github.com/npthao/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const (
	geminiModelName = "gemini-2.0-flash"

	// feedbackTimeout bounds a single generation call; the caller runs
	// detached so a slow model must not pile up goroutines forever.
	feedbackTimeout = 10 * time.Second
)

// FeedbackService generates AI feedback for a finished attempt and stores
// it on the attempt. Generation is best effort: every failure is logged
// and swallowed, never surfaced to the submitter.
type FeedbackService interface {
	GenerateForAttempt(attemptID uint)
}

type geminiFeedbackService struct {
	model        *genai.GenerativeModel
	attemptRepo  repository.TestAttemptRepository
	questionRepo repository.QuestionRepository
}

func NewGeminiFeedbackService(
	cfg *config.Config,
	attemptRepo repository.TestAttemptRepository,
	questionRepo repository.QuestionRepository,
) (FeedbackService, error) {
	svc := &geminiFeedbackService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
	}
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set, attempt feedback generation is disabled")
		return svc, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	svc.model = client.GenerativeModel(geminiModelName)
	return svc, nil
}

// feedbackAnswerEntry is one answer as presented to the model.
type feedbackAnswerEntry struct {
	Question      string   `json:"question"`
	QuestionType  string   `json:"question_type"`
	UserAnswer    *string  `json:"user_answer"`
	IsCorrect     *bool    `json:"is_correct"`
	PointsAwarded *float64 `json:"points_awarded"`
}

type feedbackPayload struct {
	Feedback       string `json:"feedback"`
	Recommendation string `json:"recommendation"`
}

func (s *geminiFeedbackService) GenerateForAttempt(attemptID uint) {
	if s.model == nil {
		log.Warn().Uint("attemptID", attemptID).Msg("Feedback generation skipped, Gemini client not configured")
		return
	}

	attempt, err := s.attemptRepo.FindByIDWithAnswers(attemptID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Feedback generation: failed to load attempt")
		return
	}
	if len(attempt.Answers) == 0 {
		log.Warn().Uint("attemptID", attemptID).Msg("Feedback generation skipped, attempt has no answers")
		return
	}

	entries, err := s.buildEntries(attempt)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Feedback generation: failed to build prompt payload")
		return
	}
	resultsJSON, err := json.Marshal(entries)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Feedback generation: failed to marshal prompt payload")
		return
	}

	prompt := fmt.Sprintf(
		"Given the following test attempt results, analyze the student's performance by question type "+
			"(e.g., Multiple Choice, Self Write). Each item includes the question content. Identify which "+
			"types of questions the student most often answered incorrectly or left blank. Provide feedback "+
			"that highlights these weak areas and give a recommendation for improvement. Respond with a JSON "+
			"object of the form {\"feedback\": \"...\", \"recommendation\": \"...\"}.\n\nResults: %s",
		resultsJSON,
	)

	ctx, cancel := context.WithTimeout(context.Background(), feedbackTimeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Feedback generation: Gemini call failed")
		return
	}
	text := responseText(resp)
	if text == "" {
		log.Warn().Uint("attemptID", attemptID).Msg("Feedback generation: empty response from Gemini")
		return
	}

	feedback, recommendation := parseFeedbackResponse(text)
	if err := s.attemptRepo.UpdateFeedback(attempt.ID, feedback, recommendation); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Feedback generation: failed to store feedback")
		return
	}
	log.Info().Uint("attemptID", attemptID).Msg("Attempt feedback stored")
}

func (s *geminiFeedbackService) buildEntries(attempt *model.TestAttempt) ([]feedbackAnswerEntry, error) {
	ids := make([]uint, 0, len(attempt.Answers))
	seen := make(map[uint]bool, len(attempt.Answers))
	for _, ans := range attempt.Answers {
		if !seen[ans.QuestionID] {
			seen[ans.QuestionID] = true
			ids = append(ids, ans.QuestionID)
		}
	}
	questions, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	entries := make([]feedbackAnswerEntry, 0, len(attempt.Answers))
	for _, ans := range attempt.Answers {
		entry := feedbackAnswerEntry{
			UserAnswer:    ans.UserAnswer,
			IsCorrect:     ans.IsCorrect,
			PointsAwarded: ans.PointsAwarded,
		}
		if q, ok := byID[ans.QuestionID]; ok {
			entry.Question = q.Content
			entry.QuestionType = q.QuestionType
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// fencedBlock matches a whole response wrapped in a markdown code fence,
// with or without a language tag.
var fencedBlock = regexp.MustCompile("(?is)^\\s*```(?:[a-z]*\\s+)?([\\s\\S]+?)\\s*```\\s*$")

// parseFeedbackResponse decodes the model's reply. Fenced JSON is unwrapped
// first; if neither the unwrapped body nor the raw text parses as JSON, the
// raw text is kept as the feedback so the response is never lost.
func parseFeedbackResponse(text string) (feedback, recommendation *string) {
	candidate := text
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	var payload feedbackPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			raw := strings.TrimSpace(text)
			log.Warn().Msg("Feedback response was not valid JSON, storing raw text")
			return &raw, nil
		}
	}
	return &payload.Feedback, &payload.Recommendation
}
