package database

import (
	"fmt"
	"os"

	"animal_identifier_go_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Configured reports whether database connection settings are present.
// The database is optional: it only backs analytics events, and those
// degrade to log-only without it.
func Configured() bool {
	return os.Getenv("DB_HOST") != ""
}

func InitDB() error {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migrate the schema
	if err := DB.AutoMigrate(&models.TrackEvent{}); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	return nil
}
