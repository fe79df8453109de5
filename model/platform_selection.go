package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

PlatformSelection is a per-channel draft derived from an approved Idea. Each
row carries its own publication status and schedule, independent of its
siblings, so the same Idea can be live on the blog while the LinkedIn copy is
still being edited.

Id: primary key
IdeaID:
Idea: owning Idea, "belongs-to" relation

Platform: channel tag, e.g. "blog", "linkedin"
ImageMode: "upload" or "template"
ImageUrl: resolved image location, nullable until an image is attached
DraftContent: the channel-specific copy being edited
DraftMetadata: opaque JSON blob owned by the drafting UI
ScheduledAt: publication time, set when the draft is approved

Status state machine:

	draft -> scheduled -> published
	scheduled -> rejected (soft cancel, row retained)

"published" and "rejected" are terminal. The scheduled -> published edge is
owned by an external publisher subscribed to the scheduled-posts event topic,
not by this process.

At most one PlatformSelection exists per (IdeaID, Platform) pair; creation is
a no-op when the pair already exists, which is what makes re-approving an
Idea idempotent.
*/
type PlatformSelection struct {
	Id            string    `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	IdeaID        string    `gorm:"uniqueIndex:idx_idea_platform;not null" json:"ideaId"`
	Idea          Idea      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Platform      string    `gorm:"uniqueIndex:idx_idea_platform;not null" json:"platform"`
	ImageMode     string    `gorm:"default:template" json:"imageMode"`
	ImageUrl      *string   `json:"imageUrl"`
	DraftContent  *string   `json:"draftContent"`
	DraftMetadata datatypes.JSON `json:"draftMetadata"`
	Status        string         `gorm:"index;default:draft" json:"status"`
	ScheduledAt   *time.Time     `json:"scheduledAt"`
}

const (
	ImageModeUpload   = "upload"
	ImageModeTemplate = "template"

	SelectionStatusDraft     = "draft"
	SelectionStatusScheduled = "scheduled"
	SelectionStatusPublished = "published"
	SelectionStatusRejected  = "rejected"
)
