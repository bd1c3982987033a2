package repository

import (
	"github.com/npthao/examhub/internal/model"
	"gorm.io/gorm"
)

type TestAttemptRepository interface {
	Create(attempt *model.TestAttempt) error
	FindByID(id uint) (*model.TestAttempt, error)
	FindByIDWithAnswers(id uint) (*model.TestAttempt, error)
	// FindInProgress returns the in-progress attempt for (test, user), or
	// gorm.ErrRecordNotFound. The schema enforces at most one such row.
	FindInProgress(testID uint, userID string) (*model.TestAttempt, error)
	FindLatestByTestAndUser(testID uint, userID string) (*model.TestAttempt, error)
	FindAllByTestAndUser(testID uint, userID string) ([]model.TestAttempt, error)
	FindAllByUser(userID string) ([]model.TestAttempt, error)
	UpdateFeedback(attemptID uint, feedback *string, recommendation *string) error
}

type testAttemptRepository struct {
	db *gorm.DB
}

func NewTestAttemptRepository(db *gorm.DB) TestAttemptRepository {
	return &testAttemptRepository{db: db}
}

func (r *testAttemptRepository) Create(attempt *model.TestAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *testAttemptRepository) FindByID(id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindByIDWithAnswers(id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.Preload("Answers").First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindInProgress(testID uint, userID string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.Preload("Answers").
		Where("test_id = ? AND user_id = ? AND status = ?", testID, userID, model.StatusInProgress).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindLatestByTestAndUser(testID uint, userID string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.
		Where("test_id = ? AND user_id = ?", testID, userID).
		Order("start_time DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindAllByTestAndUser(testID uint, userID string) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.
		Where("test_id = ? AND user_id = ?", testID, userID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *testAttemptRepository) FindAllByUser(userID string) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.Preload("Test").
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}

// UpdateFeedback touches only the feedback fields so a late generator run
// can never clobber grading data on the completed attempt.
func (r *testAttemptRepository) UpdateFeedback(attemptID uint, feedback *string, recommendation *string) error {
	return r.db.Model(&model.TestAttempt{}).
		Where("id = ?", attemptID).
		Updates(map[string]interface{}{
			"feedback":       feedback,
			"recommendation": recommendation,
		}).Error
}
