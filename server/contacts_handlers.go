package server

import (
	"net/http"

	"github.com/automuse/studio/model"
	"github.com/automuse/studio/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Company *string `json:"company"`
	Message string `json:"message" binding:"required"`
	Source  *string `json:"source"`
}

// createContactHandler is the public contact-form endpoint. The Slack alert
// is fire-and-forget: a broken webhook never loses the lead.
func createContactHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		contact := model.Contact{
			Id:      uuid.New().String(),
			Name:    req.Name,
			Email:   req.Email,
			Company: req.Company,
			Message: req.Message,
			Source:  req.Source,
			Status:  model.ContactStatusNew,
		}
		if err := d.DB.Create(&contact).Error; err != nil {
			abortInternal(c, err)
			return
		}

		utils.Incr("contacts.created", nil)
		d.Notifier.NotifyNewContact(&contact)
		c.JSON(http.StatusCreated, gin.H{"contact": contact})
	}
}

func listContactsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		query := d.DB.Model(&model.Contact{})
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			abortInternal(c, err)
			return
		}
		var contacts []model.Contact
		if err := query.Preload("Tags").Order("created_at desc").Limit(limit).Offset(offset).Find(&contacts).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"contacts": contacts, "total": total})
	}
}

type contactUpdateRequest struct {
	Status  string  `json:"status"`
	Company *string `json:"company"`
}

func updateContactHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var contact model.Contact
		if result := d.DB.Where("id = ?", c.Param("id")).First(&contact); result.RowsAffected != 1 {
			abortNotFound(c, "unknown contact")
			return
		}

		var req contactUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		updates := map[string]interface{}{}
		if req.Status != "" {
			if !utils.ContainsString([]string{
				model.ContactStatusNew, model.ContactStatusContacted, model.ContactStatusClosed,
			}, req.Status) {
				abortInvalid(c, "invalid contact status")
				return
			}
			updates["status"] = req.Status
		}
		if req.Company != nil {
			updates["company"] = *req.Company
		}
		if len(updates) > 0 {
			if err := d.DB.Model(&contact).Updates(updates).Error; err != nil {
				abortInternal(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"contact": contact})
	}
}

func deleteContactHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteById(c, d, &model.Contact{}, "unknown contact")
	}
}

type assignTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// assignContactTagHandler upserts the tag by name then the membership row,
// both on-conflict no-ops, so re-tagging is idempotent.
func assignContactTagHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var contact model.Contact
		if result := d.DB.Where("id = ?", c.Param("id")).First(&contact); result.RowsAffected != 1 {
			abortNotFound(c, "unknown contact")
			return
		}

		var req assignTagRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		candidate := model.ContactTag{Id: uuid.New().String(), Name: req.Name}
		if err := d.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate).Error; err != nil {
			abortInternal(c, err)
			return
		}
		// Reload into a fresh struct: on a name conflict the candidate id
		// was never inserted and must not leak into the assignment.
		var tag model.ContactTag
		if err := d.DB.Where("name = ?", req.Name).First(&tag).Error; err != nil {
			abortInternal(c, err)
			return
		}

		assignment := model.ContactTagAssignment{ContactID: contact.Id, ContactTagID: tag.Id}
		if err := d.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tag": tag})
	}
}

func unassignContactTagHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := d.DB.
			Where("contact_id = ? AND contact_tag_id = ?", c.Param("id"), c.Param("tag")).
			Delete(&model.ContactTagAssignment{})
		if result.Error != nil {
			abortInternal(c, result.Error)
			return
		}
		if result.RowsAffected != 1 {
			abortNotFound(c, "tag not assigned")
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
