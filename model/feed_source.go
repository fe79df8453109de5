package model

import "time"

/*

FeedSource is a configured RSS/Atom/blog URL the scraper polls to generate
new Ideas.

Id: primary key
CreatedAt: time when entity is created

Url: the feed URL to fetch
Name: display name shown in the admin UI
Type:
	"rss", "blog" or "manual". Inferred from the URL shape when not given,
	see scraper.InferFeedType.
IsActive: scraping only runs for active sources
LastChecked:
	updated after every actual fetch attempt, success or failure, so the
	admin can tell a dead feed from a never-polled one.
*/
type FeedSource struct {
	Id          string     `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	Url         string     `gorm:"not null" json:"url"`
	Name        string     `gorm:"not null" json:"name"`
	Type        string     `gorm:"default:manual" json:"type"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	LastChecked *time.Time `json:"lastChecked"`
}

const (
	FeedTypeRss    = "rss"
	FeedTypeBlog   = "blog"
	FeedTypeManual = "manual"
)
