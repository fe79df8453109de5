package model

import (
	"time"

	"gorm.io/datatypes"
)

// StyleGuide is the per-platform drafting configuration: tone guidelines,
// the AI prompt used for draft generation guidance, and reference material.
// Upserted by platform name, no lifecycle beyond create/update/delete.
type StyleGuide struct {
	Id           string    `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Platform     string    `gorm:"uniqueIndex;not null" json:"platform"`
	Guidelines   string    `json:"guidelines"`
	AiPrompt     string    `json:"aiPrompt"`
	ExampleFiles datatypes.JSON `json:"exampleFiles"`
	IsActive     bool           `gorm:"default:true" json:"isActive"`
}
