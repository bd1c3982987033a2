package database

import (
	"fmt"

	"github.com/npthao/examhub/config"
	"github.com/npthao/examhub/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.Port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates the schema plus the partial unique index that enforces
// at most one in-progress attempt per (test, user). Raw SQL because the
// WHERE clause is not expressible through gorm tags; the statement is valid
// on both postgres and sqlite, so tests share the same guarantee.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Test{},
		&model.TestQuestionItem{},
		&model.Question{},
		&model.QuestionOption{},
		&model.TestAttempt{},
		&model.AttemptAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}

	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_in_progress_attempt
		 ON test_attempts (test_id, user_id)
		 WHERE status = 'in_progress' AND deleted_at IS NULL`,
	).Error
	if err != nil {
		log.Error().Err(err).Msg("Failed to create in-progress attempt index")
		return err
	}

	log.Info().Msg("Database migration completed successfully.")
	return nil
}
