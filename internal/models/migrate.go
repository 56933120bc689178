package models

import (
	"log"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all tables
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&Account{},
		&CallRecord{},
		&EndpointStat{},
	); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}
