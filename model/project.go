package model

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a portfolio entry on the public site. Gallery and Tags are JSON
// arrays of strings.
type Project struct {
	Id          string    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	CoverImage  *string   `json:"coverImage"`
	Gallery     datatypes.JSON `json:"gallery"`
	Tags        datatypes.JSON `json:"tags"`
	Url         *string        `json:"url"`
}
