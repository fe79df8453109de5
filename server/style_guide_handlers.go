package server

import (
	"net/http"

	"github.com/automuse/studio/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func listStyleGuidesHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var guides []model.StyleGuide
		if err := d.DB.Order("platform asc").Find(&guides).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"styleGuides": guides})
	}
}

func getStyleGuideHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var guide model.StyleGuide
		if result := d.DB.Where("platform = ?", c.Param("platform")).First(&guide); result.RowsAffected != 1 {
			abortNotFound(c, "no style guide for platform")
			return
		}
		c.JSON(http.StatusOK, gin.H{"styleGuide": guide})
	}
}

type styleGuideRequest struct {
	Platform     string   `json:"platform" binding:"required"`
	Guidelines   string   `json:"guidelines"`
	AiPrompt     string   `json:"aiPrompt"`
	ExampleFiles []string `json:"exampleFiles"`
	IsActive     *bool    `json:"isActive"`
}

// Style guides are upserted by platform name: re-posting an existing
// platform replaces its configuration.
func upsertStyleGuideHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req styleGuideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		guide := model.StyleGuide{
			Id:           uuid.New().String(),
			Platform:     req.Platform,
			Guidelines:   req.Guidelines,
			AiPrompt:     req.AiPrompt,
			ExampleFiles: model.StringList(req.ExampleFiles),
			IsActive:     isActive,
		}
		err := d.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{"guidelines", "ai_prompt", "example_files", "is_active", "updated_at"}),
		}).Create(&guide).Error
		if err != nil {
			abortInternal(c, err)
			return
		}

		var saved model.StyleGuide
		d.DB.Where("platform = ?", req.Platform).First(&saved)
		c.JSON(http.StatusOK, gin.H{"styleGuide": saved})
	}
}

func deleteStyleGuideHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := d.DB.Where("platform = ?", c.Param("platform")).Delete(&model.StyleGuide{})
		if result.Error != nil {
			abortInternal(c, result.Error)
			return
		}
		if result.RowsAffected != 1 {
			abortNotFound(c, "no style guide for platform")
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
