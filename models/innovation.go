package models

import "time"

// Source values record whether content came from parsed model output or
// from the hardcoded fallback.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Step is one instruction in an innovation's build guide.
type Step struct {
	StepNumber    int        `json:"step_number"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Duration      string     `json:"duration"`
	ToolsRequired StringList `json:"tools_required"`
	SafetyNote    *string    `json:"safety_note"`
}

// Innovation is a generated upcycling project idea. Steps stay empty until
// the first detail fetch fills them in.
type Innovation struct {
	ID                  string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	WasteID             string     `json:"waste_id,omitempty" gorm:"type:varchar(36);index"`
	WasteDescription    string     `json:"waste_description" gorm:"type:text"`
	Title               string     `json:"title" gorm:"type:varchar(500);not null"`
	Description         string     `json:"description" gorm:"type:text"`
	InnovationType      string     `json:"innovation_type" gorm:"type:varchar(255)"`
	Difficulty          string     `json:"difficulty" gorm:"type:varchar(100)"`
	EstimatedCost       float64    `json:"estimated_cost"`
	Currency            string     `json:"currency" gorm:"type:varchar(16)"`
	MaterialsNeeded     StringList `json:"materials_needed" gorm:"type:json"`
	ToolsRequired       StringList `json:"tools_required" gorm:"type:json"`
	TimeEstimate        string     `json:"time_estimate" gorm:"type:varchar(255)"`
	Steps               StepList   `json:"steps" gorm:"type:json"`
	SustainabilityScore int        `json:"sustainability_score"`
	ReusabilityScore    int        `json:"reusability_score"`
	PotentialValue      string     `json:"potential_value" gorm:"type:text"`
	SafetyWarnings      StringList `json:"safety_warnings" gorm:"type:json"`
	Source              string     `json:"source" gorm:"type:varchar(16)"`
	StepsSource         string     `json:"steps_source" gorm:"type:varchar(16)"`
	StepsVersion        int        `json:"-" gorm:"not null;default:0"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (Innovation) TableName() string { return "innovations" }

// HasSteps reports whether the build guide has already been generated.
func (i *Innovation) HasSteps() bool {
	return len(i.Steps) > 0
}
