package models

import (
	"time"

	"gorm.io/datatypes"
)

// SavedInnovation is a user's bookmark. It copies the innovation instead of
// referencing it, so later changes to the source innovation are not reflected.
type SavedInnovation struct {
	ID         string                         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Innovation datatypes.JSONType[Innovation] `json:"innovation"`
	UserID     string                         `json:"user_id" gorm:"type:varchar(255);not null;index:idx_saved_user_time,priority:1"`
	SavedAt    time.Time                      `json:"saved_at" gorm:"type:datetime(6);index:idx_saved_user_time,priority:2"`
}

func (SavedInnovation) TableName() string { return "saved_innovations" }

// Snapshot returns the innovation as it was when saved.
func (s *SavedInnovation) Snapshot() Innovation {
	return s.Innovation.Data()
}
