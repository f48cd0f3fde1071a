package config

import (
	"fmt"
	"os"

	"github.com/local-fix/api-go/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB connects to postgres and runs migrations. DATABASE_URL wins when
// set, otherwise the DSN is assembled from the individual DB_* variables.
func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	log.Info().Msg("database connected")

	return db
}

// Migrate runs the gorm auto-migration for every LocalFix entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.Issue{},
		&models.Application{},
		&models.IssueProof{},
		&models.Payment{},
		&models.Withdrawal{},
	)
}
