package server

import (
	"net/http"

	"github.com/automuse/studio/model"
	"github.com/automuse/studio/scraper"
	"github.com/gin-gonic/gin"
)

type feedSourceRequest struct {
	Url      string `json:"url" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type"`
	IsActive *bool  `json:"isActive"`
}

func listFeedSourcesHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sources []model.FeedSource
		if err := d.DB.Order("created_at desc").Find(&sources).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"feeds": sources})
	}
}

func createFeedSourceHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req feedSourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}
		source, err := scraper.CreateFeedSource(d.DB, req.Url, req.Name, req.Type)
		if err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"feed": source})
	}
}

func updateFeedSourceHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var source model.FeedSource
		if result := d.DB.Where("id = ?", c.Param("id")).First(&source); result.RowsAffected != 1 {
			abortNotFound(c, "unknown feed source")
			return
		}

		var req feedSourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		updates := map[string]interface{}{"url": req.Url, "name": req.Name}
		if req.Type != "" {
			updates["type"] = req.Type
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if err := d.DB.Model(&source).Updates(updates).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"feed": source})
	}
}

func deleteFeedSourceHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := d.DB.Where("id = ?", c.Param("id")).Delete(&model.FeedSource{})
		if result.Error != nil {
			abortInternal(c, result.Error)
			return
		}
		if result.RowsAffected != 1 {
			abortNotFound(c, "unknown feed source")
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func scrapeFeedHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := scraper.Scrape(d.DB, c.Param("id"))
		// A failed scrape is a structured result, not an HTTP failure: the
		// admin UI renders the message either way.
		c.JSON(http.StatusOK, result)
	}
}
