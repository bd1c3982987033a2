package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/npthao/examhub/internal/apperr"
	"github.com/npthao/examhub/internal/dto"
	"github.com/npthao/examhub/internal/model"
	"github.com/npthao/examhub/internal/repository"
	"github.com/rs/zerolog/log"
)

// AdminTestService manages the authoring side: creating tests with their
// inline questions and options.
type AdminTestService interface {
	CreateTest(req dto.TestCreateDTO) (*dto.TestDetailDTO, error)
}

type adminTestService struct {
	testRepo repository.TestRepository
}

func NewAdminTestService(testRepo repository.TestRepository) AdminTestService {
	return &adminTestService{testRepo: testRepo}
}

func (s *adminTestService) CreateTest(req dto.TestCreateDTO) (*dto.TestDetailDTO, error) {
	if err := validateTestCreate(req); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	test := model.Test{
		Title:            strings.TrimSpace(req.Title),
		Instructions:     req.Instructions,
		TimeLimitMinutes: req.TimeLimitMinutes,
		PassingScore:     req.PassingScore,
		IsActive:         isActive,
		Questions:        make([]model.TestQuestionItem, 0, len(req.Questions)),
	}

	for _, slot := range req.Questions {
		question := model.Question{
			Content:      slot.Question.Content,
			QuestionType: slot.Question.Type,
			AnswerKey:    slot.Question.AnswerKey,
			Explanation:  slot.Question.Explanation,
			ImageURL:     slot.Question.ImageURL,
		}
		for i, opt := range slot.Question.Options {
			question.Options = append(question.Options, model.QuestionOption{
				OptionUID: uuid.NewString(),
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
				Position:  i + 1,
			})
		}
		test.Questions = append(test.Questions, model.TestQuestionItem{
			Question: question,
			Points:   slot.Points,
			Position: slot.Position,
		})
	}

	if err := s.testRepo.Create(&test); err != nil {
		log.Error().Err(err).Str("title", test.Title).Msg("Error creating test")
		return nil, fmt.Errorf("error creating test: %w", err)
	}
	log.Info().Uint("testID", test.ID).Str("title", test.Title).Int("questions", len(test.Questions)).Msg("Test created")

	return &dto.TestDetailDTO{
		ID:               test.ID,
		Title:            test.Title,
		Instructions:     test.Instructions,
		TimeLimitMinutes: test.TimeLimitMinutes,
		PassingScore:     test.PassingScore,
		IsActive:         test.IsActive,
		QuestionCount:    len(test.Questions),
		CreatedAt:        test.CreatedAt,
	}, nil
}

func validateTestCreate(req dto.TestCreateDTO) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("test title must not be blank: %w", apperr.ErrValidation)
	}

	seenPositions := make(map[int]bool, len(req.Questions))
	for i, slot := range req.Questions {
		if seenPositions[slot.Position] {
			return fmt.Errorf("duplicate question position %d: %w", slot.Position, apperr.ErrValidation)
		}
		seenPositions[slot.Position] = true

		switch slot.Question.Type {
		case model.QuestionTypeMultipleChoice:
			if len(slot.Question.Options) < 2 {
				return fmt.Errorf("question %d: multiple choice needs at least two options: %w", i+1, apperr.ErrValidation)
			}
			correct := 0
			for _, opt := range slot.Question.Options {
				if opt.IsCorrect {
					correct++
				}
			}
			if correct == 0 {
				return fmt.Errorf("question %d: multiple choice needs a correct option: %w", i+1, apperr.ErrValidation)
			}
		case model.QuestionTypeSelfWrite:
			if slot.Question.AnswerKey == nil || strings.TrimSpace(*slot.Question.AnswerKey) == "" {
				return fmt.Errorf("question %d: self-write questions need an answer key: %w", i+1, apperr.ErrValidation)
			}
		}
	}
	return nil
}
