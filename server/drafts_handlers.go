package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/automuse/studio/ideas"
	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

func listDraftsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		views, total, err := ideas.ListDrafts(d.DB, c.Query("status"), c.Query("platform"), limit, offset)
		if err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"drafts": views, "total": total})
	}
}

type approveDraftRequest struct {
	ScheduledAt string `json:"scheduledAt"`
}

func approveDraftHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req approveDraftRequest
		// Body is optional, absence means "schedule with the default delay".
		c.ShouldBindJSON(&req)

		scheduledAt, err := parseScheduleTime(req.ScheduledAt)
		if err != nil {
			abortInvalid(c, err.Error())
			return
		}

		selection, err := ideas.ApproveDraft(d.DB, d.Bus, c.Param("id"), scheduledAt)
		if err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"selection": selection})
	}
}

func listScheduledHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := ideas.ListScheduledPosts(d.DB)
		if err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"scheduled": views})
	}
}

type updateScheduledRequest struct {
	ScheduledAt   string                 `json:"scheduledAt"`
	DraftContent  *string                `json:"draftContent"`
	DraftMetadata map[string]interface{} `json:"draftMetadata"`
}

func updateScheduledHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateScheduledRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		patch := ideas.ScheduledPostPatch{DraftContent: req.DraftContent}
		scheduledAt, err := parseScheduleTime(req.ScheduledAt)
		if err != nil {
			abortInvalid(c, err.Error())
			return
		}
		patch.ScheduledAt = scheduledAt
		if req.DraftMetadata != nil {
			encoded, err := encodeMetadata(req.DraftMetadata)
			if err != nil {
				abortInvalid(c, err.Error())
				return
			}
			patch.DraftMetadata = encoded
		}

		updated, err := ideas.UpdateScheduledPost(d.DB, c.Param("id"), patch)
		if err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}

func cancelScheduledHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cancelled, err := ideas.CancelScheduledPost(d.DB, d.Bus, c.Param("id"))
		if err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
	}
}

// parseScheduleTime accepts RFC3339 first and falls back to loose formats
// for hand-typed admin input. Empty input means "not provided".
func parseScheduleTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func encodeMetadata(metadata map[string]interface{}) (datatypes.JSON, error) {
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
