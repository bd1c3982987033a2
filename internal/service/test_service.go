package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/npthao/examhub/internal/apperr"
	"github.com/npthao/examhub/internal/dto"
	"github.com/npthao/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TestCatalogService serves the read-only test catalog shown before an
// attempt is started.
type TestCatalogService interface {
	GetAllTests() ([]dto.TestSummaryDTO, error)
	GetTestDetails(testID uint) (*dto.TestDetailDTO, error)
}

type testCatalogService struct {
	testRepo repository.TestRepository
}

func NewTestCatalogService(testRepo repository.TestRepository) TestCatalogService {
	return &testCatalogService{testRepo: testRepo}
}

func (s *testCatalogService) GetAllTests() ([]dto.TestSummaryDTO, error) {
	tests, err := s.testRepo.FindAllWithQuestionCount()
	if err != nil {
		log.Error().Err(err).Msg("Error fetching tests")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	summaries := make([]dto.TestSummaryDTO, 0, len(tests))
	for i := range tests {
		var summary dto.TestSummaryDTO
		if err := copier.Copy(&summary, &tests[i].Test); err != nil {
			log.Error().Err(err).Uint("testID", tests[i].ID).Msg("Error copying test to summary")
			continue
		}
		summary.QuestionCount = tests[i].QuestionCount
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *testCatalogService) GetTestDetails(testID uint) (*dto.TestDetailDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d: %w", testID, apperr.ErrNotFound)
		}
		log.Error().Err(err).Uint("testID", testID).Msg("Error fetching test details")
		return nil, fmt.Errorf("error fetching test %d: %w", testID, err)
	}

	var detail dto.TestDetailDTO
	if err := copier.Copy(&detail, test); err != nil {
		return nil, fmt.Errorf("error mapping test %d: %w", testID, err)
	}
	detail.QuestionCount = len(test.Questions)
	return &detail, nil
}
