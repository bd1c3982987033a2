package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/npthao/examhub/internal/apperr"
	"github.com/npthao/examhub/internal/dto"
	"github.com/npthao/examhub/internal/grading"
	"github.com/npthao/examhub/internal/model"
	"github.com/npthao/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptLifecycleService drives a test attempt through its states:
// start/resume, autosave, submit, and the read-side views over attempts.
type AttemptLifecycleService interface {
	StartOrResume(testID uint, userID string) (*dto.AttemptBundleDTO, error)
	SaveProgress(attemptID uint, userID string, req dto.SaveProgressDTO) error
	Submit(attemptID uint, userID string, req dto.SubmitAttemptDTO) (*dto.ScoreSummaryDTO, error)
	GetStatus(testID uint, userID string) (*dto.AttemptStatusDTO, error)
	GetUserAttemptsForTest(testID uint, userID string) ([]dto.AttemptListItemDTO, error)
	GetUserAttemptsForAllTests(userID string) ([]dto.AttemptListItemDTO, error)
	GetResultDetails(attemptID uint, userID string) (*dto.ResultViewDTO, error)
}

type attemptLifecycleService struct {
	testRepo    repository.TestRepository
	attemptRepo repository.TestAttemptRepository
	feedback    FeedbackService
	db          *gorm.DB // transactions for the mutating operations
}

func NewAttemptLifecycleService(
	testRepo repository.TestRepository,
	attemptRepo repository.TestAttemptRepository,
	feedback FeedbackService,
	db *gorm.DB,
) AttemptLifecycleService {
	return &attemptLifecycleService{
		testRepo:    testRepo,
		attemptRepo: attemptRepo,
		feedback:    feedback,
		db:          db,
	}
}

// slotIndex resolves a test-question-item id to its slot, the only sanctioned
// path from client-submitted keys to base questions and point values.
type slotIndex map[uint]*model.TestQuestionItem

func buildSlotIndex(test *model.Test) slotIndex {
	idx := make(slotIndex, len(test.Questions))
	for i := range test.Questions {
		idx[test.Questions[i].ID] = &test.Questions[i]
	}
	return idx
}

func (idx slotIndex) resolve(slotID uint) (*model.TestQuestionItem, bool) {
	slot, ok := idx[slotID]
	return slot, ok
}

// resolveLastViewed maps a slot id from the client to the base question
// reference stored on the attempt. Unresolvable slots store nil.
func resolveLastViewed(idx slotIndex, slotID *uint) *uint {
	if slotID == nil {
		return nil
	}
	slot, ok := idx.resolve(*slotID)
	if !ok {
		log.Warn().Uint("testQuestionItemID", *slotID).Msg("Last viewed item does not belong to the test, storing nil")
		return nil
	}
	questionID := slot.QuestionID
	return &questionID
}

func optionLabel(i int) string {
	return string(rune('A' + i))
}

func timeTakenSeconds(start time.Time, end *time.Time) *int {
	if end == nil {
		return nil
	}
	secs := int(end.Sub(start).Seconds())
	return &secs
}

// takingQuestions projects the test's slots into the answer-hidden form
// handed to a test taker.
func takingQuestions(test *model.Test) []dto.TakingQuestionDTO {
	questions := make([]dto.TakingQuestionDTO, 0, len(test.Questions))
	for _, slot := range test.Questions {
		q := dto.TakingQuestionDTO{
			TestQuestionItemID: slot.ID,
			QuestionID:         slot.QuestionID,
			Points:             slot.Points,
			Position:           slot.Position,
		}
		if slot.Question.ID != 0 {
			q.Content = slot.Question.Content
			q.QuestionType = slot.Question.QuestionType
			q.ImageURL = slot.Question.ImageURL
			for i, opt := range slot.Question.Options {
				q.Options = append(q.Options, dto.OptionPublicDTO{
					ID:    opt.OptionUID,
					Text:  opt.Text,
					Label: optionLabel(i),
				})
			}
		}
		questions = append(questions, q)
	}
	return questions
}

func (s *attemptLifecycleService) StartOrResume(testID uint, userID string) (*dto.AttemptBundleDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d: %w", testID, apperr.ErrNotFound)
		}
		log.Error().Err(err).Uint("testID", testID).Msg("StartOrResume: failed to load test")
		return nil, fmt.Errorf("error loading test %d: %w", testID, err)
	}
	if !test.IsActive {
		return nil, fmt.Errorf("test %d is not active: %w", testID, apperr.ErrValidation)
	}

	attempt, err := s.attemptRepo.FindInProgress(testID, userID)
	resumed := true
	switch {
	case err == nil:
		log.Info().Uint("attemptID", attempt.ID).Uint("testID", testID).Str("userID", userID).Msg("Resuming attempt")
	case errors.Is(err, gorm.ErrRecordNotFound):
		resumed = false
		fresh := model.TestAttempt{
			TestID:    testID,
			UserID:    userID,
			Status:    model.StatusInProgress,
			StartTime: time.Now(),
		}
		if test.TimeLimitMinutes > 0 {
			secs := test.TimeLimitMinutes * 60
			fresh.RemainingTimeSeconds = &secs
		}
		if createErr := s.attemptRepo.Create(&fresh); createErr != nil {
			// A concurrent start won the race; the partial unique index on
			// (test, user, in_progress) rejected our insert. Resume theirs.
			attempt, err = s.attemptRepo.FindInProgress(testID, userID)
			if err != nil {
				log.Error().Err(createErr).Uint("testID", testID).Str("userID", userID).Msg("StartOrResume: failed to create attempt")
				return nil, fmt.Errorf("could not start the test attempt: %w", createErr)
			}
			resumed = true
			log.Info().Uint("attemptID", attempt.ID).Msg("StartOrResume: lost creation race, resuming existing attempt")
		} else {
			attempt = &fresh
			log.Info().Uint("attemptID", attempt.ID).Uint("testID", testID).Str("userID", userID).Msg("New attempt created")
		}
	default:
		log.Error().Err(err).Uint("testID", testID).Str("userID", userID).Msg("StartOrResume: failed to look up attempt")
		return nil, fmt.Errorf("error looking up attempt: %w", err)
	}

	savedAnswers := make(map[uint]dto.SavedAnswerDTO, len(attempt.Answers))
	for _, ans := range attempt.Answers {
		saved := dto.SavedAnswerDTO{UserAnswer: ans.UserAnswer}
		if ans.TimeSpentSeconds != nil {
			saved.TimeSpentSeconds = *ans.TimeSpentSeconds
		}
		savedAnswers[ans.TestQuestionItemID] = saved
	}

	elapsed := 0
	if resumed {
		elapsed = int(time.Since(attempt.StartTime).Seconds())
	}

	bundle := &dto.AttemptBundleDTO{
		Attempt: dto.AttemptSummaryDTO{
			ID:                   attempt.ID,
			Status:               attempt.Status,
			StartTime:            attempt.StartTime,
			EndTime:              attempt.EndTime,
			RemainingTimeSeconds: attempt.RemainingTimeSeconds,
			LastViewedQuestionID: attempt.LastViewedQuestionID,
		},
		Test: dto.TestInfoDTO{
			ID:               test.ID,
			Title:            test.Title,
			TimeLimitMinutes: test.TimeLimitMinutes,
			Instructions:     test.Instructions,
		},
		Questions:          takingQuestions(test),
		SavedAnswers:       savedAnswers,
		TimeElapsedSeconds: elapsed,
	}
	return bundle, nil
}

func (s *attemptLifecycleService) SaveProgress(attemptID uint, userID string, req dto.SaveProgressDTO) error {
	attempt, err := s.attemptRepo.FindByIDWithAnswers(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("test attempt %d: %w", attemptID, apperr.ErrNotFound)
		}
		return fmt.Errorf("error loading attempt %d: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		log.Warn().Uint("attemptID", attemptID).Str("userID", userID).Str("owner", attempt.UserID).Msg("SaveProgress: ownership mismatch")
		return fmt.Errorf("you are not permitted to save progress for this attempt: %w", apperr.ErrPermission)
	}
	if attempt.Status != model.StatusInProgress {
		return fmt.Errorf("cannot save progress, attempt status is %q: %w", attempt.Status, apperr.ErrValidation)
	}

	test, err := s.testRepo.FindByIDWithQuestions(attempt.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("associated test %d: %w", attempt.TestID, apperr.ErrNotFound)
		}
		return fmt.Errorf("error loading test %d: %w", attempt.TestID, err)
	}
	idx := buildSlotIndex(test)

	existing := make(map[uint]*model.AttemptAnswer, len(attempt.Answers))
	for i := range attempt.Answers {
		existing[attempt.Answers[i].TestQuestionItemID] = &attempt.Answers[i]
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, in := range req.Answers {
			slot, ok := idx.resolve(in.TestQuestionItemID)
			if !ok {
				log.Warn().Uint("testQuestionItemID", in.TestQuestionItemID).Uint("attemptID", attemptID).
					Msg("SaveProgress: skipping answer for unknown test question item")
				continue
			}
			if row, found := existing[in.TestQuestionItemID]; found {
				row.UserAnswer = in.UserAnswer
				row.SubmittedAt = now
				// autosave never grades; a touched answer goes back to ungraded
				row.IsCorrect = nil
				row.PointsAwarded = nil
				if err := tx.Save(row).Error; err != nil {
					return fmt.Errorf("failed to update saved answer: %w", err)
				}
			} else {
				row := model.AttemptAnswer{
					TestAttemptID:      attempt.ID,
					QuestionID:         slot.QuestionID,
					TestQuestionItemID: in.TestQuestionItemID,
					UserAnswer:         in.UserAnswer,
					SubmittedAt:        now,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to save answer: %w", err)
				}
			}
		}

		// Guarded update: a submit racing this autosave flips the status
		// first, in which case nothing here may land.
		res := tx.Model(&model.TestAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, model.StatusInProgress).
			Updates(map[string]interface{}{
				"remaining_time_seconds":  req.RemainingTimeSeconds,
				"last_viewed_question_id": resolveLastViewed(idx, req.LastViewedTestItemID),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to save attempt progress: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("attempt %d is no longer in progress: %w", attempt.ID, apperr.ErrValidation)
		}
		return nil
	})
}

func (s *attemptLifecycleService) Submit(attemptID uint, userID string, req dto.SubmitAttemptDTO) (*dto.ScoreSummaryDTO, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test attempt %d: %w", attemptID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error loading attempt %d: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		log.Warn().Uint("attemptID", attemptID).Str("userID", userID).Str("owner", attempt.UserID).Msg("Submit: ownership mismatch")
		return nil, fmt.Errorf("you are not permitted to submit this attempt: %w", apperr.ErrPermission)
	}
	if attempt.Status != model.StatusInProgress {
		return nil, fmt.Errorf("this attempt cannot be submitted (status %q): %w", attempt.Status, apperr.ErrValidation)
	}

	test, err := s.testRepo.FindByIDWithQuestions(attempt.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("associated test %d: %w", attempt.TestID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error loading test %d: %w", attempt.TestID, err)
	}
	idx := buildSlotIndex(test)

	var (
		newAnswers     []model.AttemptAnswer
		totalScore     float64
		scoredPossible float64 // sums submitted slots only; the review view sums all slots
	)
	now := time.Now()

	for _, in := range req.Answers {
		slot, ok := idx.resolve(in.TestQuestionItemID)
		if !ok {
			log.Warn().Uint("testQuestionItemID", in.TestQuestionItemID).Uint("attemptID", attemptID).
				Msg("Submit: skipping answer for unknown test question item")
			continue
		}
		pointValue := grading.EffectivePoints(slot.Points)
		scoredPossible += pointValue

		row := model.AttemptAnswer{
			TestAttemptID:      attempt.ID,
			QuestionID:         slot.QuestionID,
			TestQuestionItemID: in.TestQuestionItemID,
			UserAnswer:         in.UserAnswer,
			SubmittedAt:        now,
			TimeSpentSeconds:   in.TimeSpentSeconds,
		}
		if slot.Question.ID == 0 {
			// base question is gone: record the answer as ungradable
			// (nil correctness) rather than failing the whole submission
			zero := 0.0
			row.PointsAwarded = &zero
			log.Error().Uint("questionID", slot.QuestionID).Uint("testQuestionItemID", slot.ID).Uint("attemptID", attemptID).
				Msg("Submit: base question not found during grading")
		} else {
			raw := ""
			if in.UserAnswer != nil {
				raw = *in.UserAnswer
			}
			res := grading.Grade(&slot.Question, raw, slot.Points)
			row.IsCorrect = &res.IsCorrect
			row.PointsAwarded = &res.PointsAwarded
			totalScore += res.PointsAwarded
		}
		newAnswers = append(newAnswers, row)
	}

	passed := grading.Passed(totalScore, scoredPossible, test.PassingScore)
	remaining := 0
	if req.TimeLeftSeconds != nil {
		remaining = *req.TimeLeftSeconds
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Claim the attempt first: the status flip doubles as a
		// compare-and-swap so a concurrent autosave or second submit
		// cannot interleave with the rebuild below.
		claim := tx.Model(&model.TestAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, model.StatusInProgress).
			Updates(map[string]interface{}{
				"status":                  model.StatusCompleted,
				"end_time":                now,
				"remaining_time_seconds":  remaining,
				"final_score":             totalScore,
				"is_passed":               passed,
				"last_viewed_question_id": resolveLastViewed(idx, req.LastViewedTestItemID),
			})
		if claim.Error != nil {
			return fmt.Errorf("failed to finalize attempt: %w", claim.Error)
		}
		if claim.RowsAffected == 0 {
			return fmt.Errorf("this attempt cannot be submitted (status changed): %w", apperr.ErrValidation)
		}

		// The answer set is rebuilt from scratch on every submit; grading
		// is recomputed, never accumulated from prior state.
		if err := tx.Unscoped().Where("test_attempt_id = ?", attempt.ID).Delete(&model.AttemptAnswer{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous answers: %w", err)
		}
		if len(newAnswers) > 0 {
			if err := tx.Create(&newAnswers).Error; err != nil {
				return fmt.Errorf("failed to save graded answers: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Submit: failed to persist submission")
		return nil, err
	}

	log.Info().Uint("attemptID", attemptID).Float64("score", totalScore).Float64("possible", scoredPossible).Bool("passed", passed).
		Msg("Attempt submitted and graded")

	// Best effort, detached: feedback generation must never delay or fail
	// the submission response.
	go s.feedback.GenerateForAttempt(attempt.ID)

	return &dto.ScoreSummaryDTO{
		Status:    model.StatusCompleted,
		Score:     totalScore,
		Passed:    passed,
		AttemptID: attempt.ID,
	}, nil
}

func (s *attemptLifecycleService) GetStatus(testID uint, userID string) (*dto.AttemptStatusDTO, error) {
	attempt, err := s.attemptRepo.FindLatestByTestAndUser(testID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.AttemptStatusDTO{Status: model.StatusNotStarted}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error looking up attempts for test %d: %w", testID, err)
	}
	switch attempt.Status {
	case model.StatusInProgress, model.StatusCompleted, model.StatusToBeGraded, model.StatusGraded:
		return &dto.AttemptStatusDTO{Status: attempt.Status}, nil
	default:
		log.Warn().Str("status", attempt.Status).Uint("attemptID", attempt.ID).Msg("Unexpected attempt status, reporting completed")
		return &dto.AttemptStatusDTO{Status: model.StatusCompleted}, nil
	}
}

func (s *attemptLifecycleService) GetUserAttemptsForTest(testID uint, userID string) ([]dto.AttemptListItemDTO, error) {
	attempts, err := s.attemptRepo.FindAllByTestAndUser(testID, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching attempts for test %d: %w", testID, err)
	}
	return attemptListItems(attempts), nil
}

func (s *attemptLifecycleService) GetUserAttemptsForAllTests(userID string) ([]dto.AttemptListItemDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching attempts: %w", err)
	}
	return attemptListItems(attempts), nil
}

func attemptListItems(attempts []model.TestAttempt) []dto.AttemptListItemDTO {
	items := make([]dto.AttemptListItemDTO, 0, len(attempts))
	for i := range attempts {
		var item dto.AttemptListItemDTO
		if err := copier.Copy(&item, &attempts[i]); err != nil {
			log.Error().Err(err).Uint("attemptID", attempts[i].ID).Msg("Error copying attempt to list item")
			continue
		}
		if attempts[i].Test.ID != 0 {
			item.TestTitle = attempts[i].Test.Title
		}
		item.TimeTakenSeconds = timeTakenSeconds(attempts[i].StartTime, attempts[i].EndTime)
		items = append(items, item)
	}
	return items
}

func (s *attemptLifecycleService) GetResultDetails(attemptID uint, userID string) (*dto.ResultViewDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithAnswers(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test attempt %d: %w", attemptID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error loading attempt %d: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		log.Warn().Uint("attemptID", attemptID).Str("userID", userID).Str("owner", attempt.UserID).Msg("GetResultDetails: ownership mismatch")
		return nil, fmt.Errorf("you are not permitted to view results for this attempt: %w", apperr.ErrPermission)
	}
	switch attempt.Status {
	case model.StatusCompleted, model.StatusGraded, model.StatusTimedOut:
	default:
		return nil, fmt.Errorf("results are not available yet (status %q): %w", attempt.Status, apperr.ErrValidation)
	}

	test, err := s.testRepo.FindByIDWithQuestions(attempt.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("associated test %d: %w", attempt.TestID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error loading test %d: %w", attempt.TestID, err)
	}

	answersBySlot := make(map[uint]*model.AttemptAnswer, len(attempt.Answers))
	for i := range attempt.Answers {
		answersBySlot[attempt.Answers[i].TestQuestionItemID] = &attempt.Answers[i]
	}

	var definedPossible float64 // every slot of the definition counts here
	details := make([]dto.QuestionResultDTO, 0, len(test.Questions))
	for _, slot := range test.Questions {
		definedPossible += slot.Points

		d := dto.QuestionResultDTO{
			QuestionID:         slot.QuestionID,
			TestQuestionItemID: slot.ID,
			PointValue:         slot.Points,
		}
		if slot.Question.ID != 0 {
			q := slot.Question
			d.Content = q.Content
			d.QuestionType = q.QuestionType
			d.AnswerKey = q.AnswerKey
			d.Explanation = q.Explanation
			d.ImageURL = q.ImageURL
			if q.QuestionType == model.QuestionTypeMultipleChoice {
				var correctUID *string
				for i, opt := range q.Options {
					d.Options = append(d.Options, dto.OptionPublicDTO{
						ID:    opt.OptionUID,
						Text:  opt.Text,
						Label: optionLabel(i),
					})
					if opt.IsCorrect && correctUID == nil {
						uid := opt.OptionUID
						correctUID = &uid
					}
				}
				d.AnswerKey = correctUID
				if correctUID == nil {
					log.Warn().Uint("questionID", q.ID).Uint("testQuestionItemID", slot.ID).
						Msg("No correct option marked for multiple choice question")
				}
			}
		} else {
			log.Error().Uint("questionID", slot.QuestionID).Uint("testQuestionItemID", slot.ID).
				Msg("GetResultDetails: base question not found for slot")
		}

		if ans, ok := answersBySlot[slot.ID]; ok {
			d.UserAnswer = ans.UserAnswer
			d.IsCorrect = ans.IsCorrect
			d.PointsAwarded = ans.PointsAwarded
			d.TimeSpentSeconds = ans.TimeSpentSeconds
		}
		details = append(details, d)
	}

	return &dto.ResultViewDTO{
		Attempt: dto.ResultAttemptDTO{
			ID:               attempt.ID,
			Status:           attempt.Status,
			Score:            attempt.FinalScore,
			Passed:           attempt.IsPassed,
			StartTime:        attempt.StartTime,
			EndTime:          attempt.EndTime,
			TimeTakenSeconds: timeTakenSeconds(attempt.StartTime, attempt.EndTime),
		},
		Test: dto.ResultTestDTO{
			ID:                 test.ID,
			Title:              test.Title,
			PassingScore:       test.PassingScore,
			TotalPossibleScore: definedPossible,
		},
		QuestionsAnswers: details,
		Feedback:         attempt.Feedback,
		Recommendation:   attempt.Recommendation,
	}, nil
}
