package models

import "gorm.io/gorm"

// Migrate creates or updates the three collections' tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&WasteRecord{}, &Innovation{}, &SavedInnovation{})
}
