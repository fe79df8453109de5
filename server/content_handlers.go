package server

import (
	"net/http"
	"time"

	"github.com/automuse/studio/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Public website content: blog posts, pricing tiers, portfolio projects.
// Admin mutations use copier's IgnoreEmpty copy so an update request only
// touches the fields it carries, array columns are re-encoded explicitly at
// the storage boundary.

type blogPostRequest struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage *string  `json:"coverImage"`
	Tags       []string `json:"tags"`
	Published  *bool    `json:"published"`
}

func listPublishedBlogPostsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		var total int64
		query := d.DB.Model(&model.BlogPost{}).Where("published = ?", true)
		if err := query.Count(&total).Error; err != nil {
			abortInternal(c, err)
			return
		}
		var posts []model.BlogPost
		if err := query.Order("published_at desc").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts, "total": total})
	}
}

func getBlogPostHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var post model.BlogPost
		result := d.DB.Where("slug = ? AND published = ?", c.Param("slug"), true).First(&post)
		if result.RowsAffected != 1 {
			abortNotFound(c, "unknown post")
			return
		}
		c.JSON(http.StatusOK, gin.H{"post": post})
	}
}

func listAllBlogPostsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		var total int64
		query := d.DB.Model(&model.BlogPost{})
		if err := query.Count(&total).Error; err != nil {
			abortInternal(c, err)
			return
		}
		var posts []model.BlogPost
		if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts, "total": total})
	}
}

func createBlogPostHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req blogPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}
		if req.Slug == "" || req.Title == "" {
			abortInvalid(c, "slug and title are required")
			return
		}

		post := model.BlogPost{Id: uuid.New().String(), Tags: model.StringList(req.Tags)}
		copier.CopyWithOption(&post, &req, copier.Option{IgnoreEmpty: true})
		post.Tags = model.StringList(req.Tags)
		if req.Published != nil && *req.Published {
			post.Published = true
			now := time.Now()
			post.PublishedAt = &now
		}

		if err := d.DB.Create(&post).Error; err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"post": post})
	}
}

func updateBlogPostHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var post model.BlogPost
		if result := d.DB.Where("id = ?", c.Param("id")).First(&post); result.RowsAffected != 1 {
			abortNotFound(c, "unknown post")
			return
		}

		var req blogPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		copier.CopyWithOption(&post, &req, copier.Option{IgnoreEmpty: true})
		if req.Tags != nil {
			post.Tags = model.StringList(req.Tags)
		}
		if req.Published != nil {
			post.Published = *req.Published
			if *req.Published && post.PublishedAt == nil {
				now := time.Now()
				post.PublishedAt = &now
			}
		}

		if err := d.DB.Save(&post).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"post": post})
	}
}

func deleteBlogPostHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteById(c, d, &model.BlogPost{}, "unknown post")
	}
}

type pricingItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Features    []string `json:"features"`
	Highlighted *bool    `json:"highlighted"`
	SortOrder   *int     `json:"sortOrder"`
}

func listPricingHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []model.PricingItem
		if err := d.DB.Order("sort_order asc, name asc").Find(&items).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"pricing": items})
	}
}

func createPricingItemHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pricingItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}
		if req.Name == "" {
			abortInvalid(c, "name is required")
			return
		}

		item := model.PricingItem{Id: uuid.New().String()}
		copier.CopyWithOption(&item, &req, copier.Option{IgnoreEmpty: true})
		item.Features = model.StringList(req.Features)
		if req.Highlighted != nil {
			item.Highlighted = *req.Highlighted
		}
		if req.SortOrder != nil {
			item.SortOrder = *req.SortOrder
		}

		if err := d.DB.Create(&item).Error; err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": item})
	}
}

func updatePricingItemHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item model.PricingItem
		if result := d.DB.Where("id = ?", c.Param("id")).First(&item); result.RowsAffected != 1 {
			abortNotFound(c, "unknown pricing item")
			return
		}

		var req pricingItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		copier.CopyWithOption(&item, &req, copier.Option{IgnoreEmpty: true})
		if req.Features != nil {
			item.Features = model.StringList(req.Features)
		}
		if req.Highlighted != nil {
			item.Highlighted = *req.Highlighted
		}
		if req.SortOrder != nil {
			item.SortOrder = *req.SortOrder
		}

		if err := d.DB.Save(&item).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": item})
	}
}

func deletePricingItemHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteById(c, d, &model.PricingItem{}, "unknown pricing item")
	}
}

type projectRequest struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	CoverImage  *string  `json:"coverImage"`
	Gallery     []string `json:"gallery"`
	Tags        []string `json:"tags"`
	Url         *string  `json:"url"`
}

func listProjectsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var projects []model.Project
		if err := d.DB.Order("created_at desc").Find(&projects).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	}
}

func getProjectHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project model.Project
		if result := d.DB.Where("slug = ?", c.Param("slug")).First(&project); result.RowsAffected != 1 {
			abortNotFound(c, "unknown project")
			return
		}
		c.JSON(http.StatusOK, gin.H{"project": project})
	}
}

func createProjectHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req projectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}
		if req.Slug == "" || req.Title == "" {
			abortInvalid(c, "slug and title are required")
			return
		}

		project := model.Project{Id: uuid.New().String()}
		copier.CopyWithOption(&project, &req, copier.Option{IgnoreEmpty: true})
		project.Gallery = model.StringList(req.Gallery)
		project.Tags = model.StringList(req.Tags)

		if err := d.DB.Create(&project).Error; err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"project": project})
	}
}

func updateProjectHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project model.Project
		if result := d.DB.Where("id = ?", c.Param("id")).First(&project); result.RowsAffected != 1 {
			abortNotFound(c, "unknown project")
			return
		}

		var req projectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		copier.CopyWithOption(&project, &req, copier.Option{IgnoreEmpty: true})
		if req.Gallery != nil {
			project.Gallery = model.StringList(req.Gallery)
		}
		if req.Tags != nil {
			project.Tags = model.StringList(req.Tags)
		}

		if err := d.DB.Save(&project).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"project": project})
	}
}

func deleteProjectHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteById(c, d, &model.Project{}, "unknown project")
	}
}

// deleteById is the shared hard-delete path for content entities.
func deleteById(c *gin.Context, d *Deps, entity interface{}, notFoundMsg string) {
	result := d.DB.Where("id = ?", c.Param("id")).Delete(entity)
	if result.Error != nil {
		abortInternal(c, result.Error)
		return
	}
	if result.RowsAffected != 1 {
		abortNotFound(c, notFoundMsg)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
