package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Idea is a captured piece of raw source material waiting for an editorial
decision. It is created either manually (an admin pastes a URL or some text)
or by the feed scraper (one Idea per feed entry).

Id: primary key
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated

InputType: "url" or "text", what kind of raw input this Idea was built from
InputValue: the raw input itself
Title: generated title, nullable until generation ran
CanonicalUrl:
	de-duplication key for Ideas originating from URLs. Unique when present,
	duplicate scraped articles are silently skipped on this column.
Summary: generated short summary
KeyPoints: generated talking points, stored as a JSON array of strings
Status:
	"new" -> "approved" | "rejected". Once decided an Idea is never mutated
	again, approval only creates PlatformSelection children.
*/
type Idea struct {
	Id           string    `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	InputType    string    `gorm:"not null" json:"inputType"`
	InputValue   string    `gorm:"not null" json:"inputValue"`
	Title        *string   `json:"title"`
	CanonicalUrl *string   `gorm:"uniqueIndex" json:"canonicalUrl"`
	Summary      *string   `json:"summary"`
	KeyPoints    datatypes.JSON `json:"keyPoints"`
	Status       string         `gorm:"index;default:new" json:"status"`
}

const (
	IdeaInputTypeUrl  = "url"
	IdeaInputTypeText = "text"

	IdeaStatusNew      = "new"
	IdeaStatusApproved = "approved"
	IdeaStatusRejected = "rejected"
)
