package models

import "time"

const (
	IdentifiedFromImage = "image"
	IdentifiedFromText  = "text"
)

// WasteRecord caches what the model said about a piece of e-waste. Rows are
// written once and never read back by the API.
type WasteRecord struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Description    string    `json:"description" gorm:"type:longtext"`
	IdentifiedFrom string    `json:"identified_from" gorm:"type:varchar(16)"`
	CreatedAt      time.Time `json:"created_at"`
}

func (WasteRecord) TableName() string { return "waste_cache" }
