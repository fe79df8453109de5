package ideas

import (
	"fmt"
	"time"

	"github.com/automuse/studio/model"
	"github.com/automuse/studio/utils"
	Logger "github.com/automuse/studio/utils/log"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// defaultScheduleDelay is applied when a draft is approved without an
// explicit publication time.
const defaultScheduleDelay = 24 * time.Hour

// ScheduledPostPatch only touches the columns whose fields are present.
// Absent fields never reach the UPDATE statement.
type ScheduledPostPatch struct {
	ScheduledAt   *time.Time
	DraftContent  *string
	DraftMetadata datatypes.JSON
}

// DraftView is the admin read model: one PlatformSelection joined with its
// parent Idea's title and summary for display.
type DraftView struct {
	Id           string     `json:"id"`
	IdeaID       string     `json:"ideaId"`
	Platform     string     `json:"platform"`
	ImageMode    string     `json:"imageMode"`
	ImageUrl     *string    `json:"imageUrl"`
	DraftContent *string    `json:"draftContent"`
	Status       string     `json:"status"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	IdeaTitle    *string    `json:"ideaTitle"`
	IdeaSummary  *string    `json:"ideaSummary"`
}

// ApproveDraft moves a draft to scheduled. When scheduledAt is nil the post
// is scheduled defaultScheduleDelay from now. Announces the schedule on the
// event bus for the external publisher.
func ApproveDraft(db *gorm.DB, bus *EventBus, id string, scheduledAt *time.Time) (*model.PlatformSelection, error) {
	var selection model.PlatformSelection
	if result := db.Where("id = ?", id).First(&selection); result.RowsAffected != 1 {
		return nil, fmt.Errorf("invalid platform selection id %s", id)
	}
	if selection.Status != model.SelectionStatusDraft {
		return nil, fmt.Errorf("platform selection %s is not a draft", id)
	}

	when := time.Now().Add(defaultScheduleDelay)
	if scheduledAt != nil {
		when = *scheduledAt
	}

	updates := map[string]interface{}{
		"status":       model.SelectionStatusScheduled,
		"scheduled_at": when,
	}
	if err := db.Model(&selection).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(err, "fail to schedule draft")
	}

	utils.Incr("drafts.scheduled", []string{"platform:" + selection.Platform})
	bus.publish(TopicPostScheduled, PostEvent{
		SelectionId: selection.Id,
		IdeaId:      selection.IdeaID,
		Platform:    selection.Platform,
		ScheduledAt: &when,
	})
	return &selection, nil
}

// UpdateScheduledPost applies the patch to a row currently in scheduled
// state. Rows in any other state are left untouched and updated=false is
// returned, never an error, so stale admin tabs cannot corrupt a decided
// post.
func UpdateScheduledPost(db *gorm.DB, id string, patch ScheduledPostPatch) (bool, error) {
	updates := map[string]interface{}{}
	if patch.ScheduledAt != nil {
		updates["scheduled_at"] = *patch.ScheduledAt
	}
	if patch.DraftContent != nil {
		updates["draft_content"] = *patch.DraftContent
	}
	if patch.DraftMetadata != nil {
		updates["draft_metadata"] = patch.DraftMetadata
	}
	if len(updates) == 0 {
		return false, nil
	}

	result := db.Model(&model.PlatformSelection{}).
		Where("id = ? AND status = ?", id, model.SelectionStatusScheduled).
		Updates(updates)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "fail to update scheduled post")
	}
	return result.RowsAffected == 1, nil
}

// CancelScheduledPost soft-cancels a scheduled post, the row is kept with
// status rejected. Guarded to scheduled rows, a no-op anywhere else.
func CancelScheduledPost(db *gorm.DB, bus *EventBus, id string) (bool, error) {
	var selection model.PlatformSelection
	if result := db.Where("id = ?", id).First(&selection); result.RowsAffected != 1 {
		return false, fmt.Errorf("invalid platform selection id %s", id)
	}

	result := db.Model(&model.PlatformSelection{}).
		Where("id = ? AND status = ?", id, model.SelectionStatusScheduled).
		Update("status", model.SelectionStatusRejected)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "fail to cancel scheduled post")
	}
	if result.RowsAffected != 1 {
		return false, nil
	}

	bus.publish(TopicPostCancelled, PostEvent{
		SelectionId: selection.Id,
		IdeaId:      selection.IdeaID,
		Platform:    selection.Platform,
	})
	return true, nil
}

// MarkPublished is the storage-side hook for the external publisher owning
// the scheduled -> published edge. Guarded to scheduled rows.
func MarkPublished(db *gorm.DB, id string) (bool, error) {
	result := db.Model(&model.PlatformSelection{}).
		Where("id = ? AND status = ?", id, model.SelectionStatusScheduled).
		Update("status", model.SelectionStatusPublished)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "fail to mark published")
	}
	if result.RowsAffected == 1 {
		Logger.Log.Info("platform selection published: ", id)
		return true, nil
	}
	return false, nil
}

// ListDrafts returns selections joined with parent Idea material, newest
// first, optionally filtered by status and platform.
func ListDrafts(db *gorm.DB, status string, platform string, limit int, offset int) ([]DraftView, int64, error) {
	query := draftViewQuery(db)
	if status != "" {
		query = query.Where("platform_selections.status = ?", status)
	}
	if platform != "" {
		query = query.Where("platform_selections.platform = ?", platform)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var views []DraftView
	err := query.Order("platform_selections.created_at desc").
		Limit(limit).Offset(offset).
		Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListScheduledPosts returns every scheduled selection ordered by
// publication time.
func ListScheduledPosts(db *gorm.DB) ([]DraftView, error) {
	var views []DraftView
	err := draftViewQuery(db).
		Where("platform_selections.status = ?", model.SelectionStatusScheduled).
		Order("platform_selections.scheduled_at asc").
		Scan(&views).Error
	return views, err
}

func draftViewQuery(db *gorm.DB) *gorm.DB {
	return db.Table("platform_selections").
		Select(`platform_selections.id, platform_selections.idea_id,
			platform_selections.platform, platform_selections.image_mode,
			platform_selections.image_url, platform_selections.draft_content,
			platform_selections.status, platform_selections.scheduled_at,
			platform_selections.created_at,
			ideas.title AS idea_title, ideas.summary AS idea_summary`).
		Joins("JOIN ideas ON ideas.id = platform_selections.idea_id")
}
