package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&CountryMetadata{},
		&Peacekeeper{},
		&CountryMetric{},
	}
}

// Migrate runs GORM AutoMigrate to create tables. It is used to prepare
// PostgreSQL fixtures in integration tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
