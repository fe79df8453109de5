package model

import (
	"time"

	"gorm.io/datatypes"
)

// BlogPost is a website article. Slug is the natural key used by the public
// site, Tags is a JSON array of strings.
type BlogPost struct {
	Id          string    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	CoverImage  *string   `json:"coverImage"`
	Tags        datatypes.JSON `json:"tags"`
	Published   bool           `gorm:"index;default:false" json:"published"`
	PublishedAt *time.Time     `json:"publishedAt"`
}
