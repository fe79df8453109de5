package ideas

import (
	"fmt"

	"github.com/automuse/studio/model"
	"github.com/automuse/studio/utils"
	Logger "github.com/automuse/studio/utils/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ingest stores a new Idea with status "new". Title/summary/key-points come
// from the provider. For url inputs the input itself is the canonical URL,
// an already-captured URL returns the existing Idea with created=false
// instead of failing.
func Ingest(db *gorm.DB, inputValue string, inputType string, provider SummaryProvider) (*model.Idea, bool, error) {
	if inputType != model.IdeaInputTypeUrl && inputType != model.IdeaInputTypeText {
		return nil, false, fmt.Errorf("invalid input type %s", inputType)
	}
	if inputValue == "" {
		return nil, false, fmt.Errorf("empty input")
	}

	summary, err := provider.Summarize(inputValue, inputType)
	if err != nil {
		return nil, false, errors.Wrap(err, "fail to summarize input")
	}

	idea := model.Idea{
		Id:         uuid.New().String(),
		InputType:  inputType,
		InputValue: inputValue,
		Title:      &summary.Title,
		Summary:    &summary.Summary,
		KeyPoints:  model.StringList(summary.KeyPoints),
		Status:     model.IdeaStatusNew,
	}
	if inputType == model.IdeaInputTypeUrl {
		canonical := inputValue
		idea.CanonicalUrl = &canonical
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&idea)
	if result.Error != nil {
		return nil, false, errors.Wrap(result.Error, "fail to store idea")
	}
	if result.RowsAffected == 0 {
		// Conflict on canonical url, hand back the row that won.
		var existing model.Idea
		if err := db.Where("canonical_url = ?", inputValue).First(&existing).Error; err != nil {
			return nil, false, errors.Wrap(err, "fail to load existing idea")
		}
		return &existing, false, nil
	}

	utils.Incr("ideas.ingested", []string{"input_type:" + inputType})
	return &idea, true, nil
}

// Approve sets the Idea to approved and creates one draft PlatformSelection
// per requested platform, skipping pairs that already exist. Returns the
// count of rows actually created, so re-approving with an overlapping
// platform list reports only the net-new drafts.
func Approve(db *gorm.DB, ideaID string, platforms []string, imageMode string) (int, error) {
	if len(platforms) == 0 {
		return 0, fmt.Errorf("no platforms requested")
	}
	if imageMode == "" {
		imageMode = model.ImageModeTemplate
	}
	if imageMode != model.ImageModeUpload && imageMode != model.ImageModeTemplate {
		return 0, fmt.Errorf("invalid image mode %s", imageMode)
	}

	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var idea model.Idea
		if result := tx.Where("id = ?", ideaID).First(&idea); result.RowsAffected != 1 {
			return fmt.Errorf("invalid idea id %s", ideaID)
		}
		if idea.Status == model.IdeaStatusRejected {
			return fmt.Errorf("idea %s is already rejected", ideaID)
		}

		if idea.Status != model.IdeaStatusApproved {
			if err := tx.Model(&idea).Update("status", model.IdeaStatusApproved).Error; err != nil {
				return errors.Wrap(err, "fail to approve idea")
			}
		}

		for _, platform := range platforms {
			if platform == "" {
				continue
			}
			selection := model.PlatformSelection{
				Id:        uuid.New().String(),
				IdeaID:    idea.Id,
				Platform:  platform,
				ImageMode: imageMode,
				Status:    model.SelectionStatusDraft,
			}
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&selection)
			if result.Error != nil {
				return errors.Wrap(result.Error, "fail to create platform selection")
			}
			created += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	Logger.Log.Infof("approved idea %s, %d new drafts", ideaID, created)
	return created, nil
}

// Reject marks a new Idea rejected. Rejecting twice is a no-op, rejecting an
// approved Idea fails since approval already created children.
func Reject(db *gorm.DB, ideaID string) error {
	var idea model.Idea
	if result := db.Where("id = ?", ideaID).First(&idea); result.RowsAffected != 1 {
		return fmt.Errorf("invalid idea id %s", ideaID)
	}
	switch idea.Status {
	case model.IdeaStatusRejected:
		return nil
	case model.IdeaStatusApproved:
		return fmt.Errorf("idea %s is already approved", ideaID)
	}
	return db.Model(&idea).Update("status", model.IdeaStatusRejected).Error
}

// List returns Ideas newest-first, optionally filtered by status, with the
// total count for pagination.
func List(db *gorm.DB, status string, limit int, offset int) ([]model.Idea, int64, error) {
	query := db.Model(&model.Idea{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Idea
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
