package database

import (
	"gorm.io/gorm"

	"github.com/recipeshare/backend/internal/models"
)

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Recipe{},
		&models.Order{},
	)
}
