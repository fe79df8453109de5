package server

import (
	"net/http"

	"github.com/automuse/studio/ideas"
	"github.com/automuse/studio/model"
	"github.com/gin-gonic/gin"
)

type ingestIdeaRequest struct {
	InputType  string `json:"inputType" binding:"required"`
	InputValue string `json:"inputValue" binding:"required"`
}

func ingestIdeaHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ingestIdeaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		idea, created, err := ideas.Ingest(d.DB, req.InputValue, req.InputType, d.Provider)
		if err != nil {
			abortInvalid(c, err.Error())
			return
		}
		status := http.StatusCreated
		if !created {
			// Duplicate canonical URL: expected skip, hand back the winner.
			status = http.StatusOK
		}
		c.JSON(status, gin.H{"idea": ideaResponse(idea), "created": created})
	}
}

func listIdeasHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		items, total, err := ideas.List(d.DB, c.Query("status"), limit, offset)
		if err != nil {
			abortInternal(c, err)
			return
		}
		resp := make([]gin.H, 0, len(items))
		for i := range items {
			resp = append(resp, ideaResponse(&items[i]))
		}
		c.JSON(http.StatusOK, gin.H{"ideas": resp, "total": total})
	}
}

type approveIdeaRequest struct {
	Platforms []string `json:"platforms" binding:"required"`
	ImageMode string   `json:"imageMode"`
}

func approveIdeaHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req approveIdeaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		created, err := ideas.Approve(d.DB, c.Param("id"), req.Platforms, req.ImageMode)
		if err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"draftsCreated": created})
	}
}

func rejectIdeaHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ideas.Reject(d.DB, c.Param("id")); err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": model.IdeaStatusRejected})
	}
}

func ideaResponse(idea *model.Idea) gin.H {
	return gin.H{
		"id":           idea.Id,
		"inputType":    idea.InputType,
		"inputValue":   idea.InputValue,
		"title":        idea.Title,
		"canonicalUrl": idea.CanonicalUrl,
		"summary":      idea.Summary,
		"keyPoints":    model.StringListValue(idea.KeyPoints),
		"status":       idea.Status,
		"createdAt":    idea.CreatedAt,
		"updatedAt":    idea.UpdatedAt,
	}
}
