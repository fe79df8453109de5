// Package seed loads initial site content from a YAML file. Applying a seed
// is idempotent: entities are upserted by their natural key so re-running
// against a live database is safe.
package seed

import (
	"io/ioutil"

	"github.com/automuse/studio/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type File struct {
	Pricing []PricingSeed `yaml:"pricing"`
	Courses []CourseSeed  `yaml:"courses"`
	Guides  []GuideSeed   `yaml:"style_guides"`
}

type PricingSeed struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Currency    string   `yaml:"currency"`
	Features    []string `yaml:"features"`
	Highlighted bool     `yaml:"highlighted"`
	SortOrder   int      `yaml:"sort_order"`
}

type CourseSeed struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Level       string `yaml:"level"`
	Published   bool   `yaml:"published"`
}

type GuideSeed struct {
	Platform   string `yaml:"platform"`
	Guidelines string `yaml:"guidelines"`
	AiPrompt   string `yaml:"ai_prompt"`
}

// Load parses a seed file from disk.
func Load(path string) (*File, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read seed file")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "fail to parse seed file")
	}
	return &f, nil
}

// Apply upserts every seeded entity by natural key.
func Apply(db *gorm.DB, f *File) error {
	for _, p := range f.Pricing {
		item := model.PricingItem{
			Id:          uuid.New().String(),
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Currency:    p.Currency,
			Features:    model.StringList(p.Features),
			Highlighted: p.Highlighted,
			SortOrder:   p.SortOrder,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "price", "currency", "features", "highlighted", "sort_order", "updated_at"}),
		}).Create(&item).Error
		if err != nil {
			return errors.Wrap(err, "fail to seed pricing item "+p.Name)
		}
	}

	for _, cs := range f.Courses {
		course := model.Course{
			Id:          uuid.New().String(),
			Slug:        cs.Slug,
			Title:       cs.Title,
			Description: cs.Description,
			Level:       cs.Level,
			Published:   cs.Published,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "level", "published", "updated_at"}),
		}).Create(&course).Error
		if err != nil {
			return errors.Wrap(err, "fail to seed course "+cs.Slug)
		}
	}

	for _, g := range f.Guides {
		guide := model.StyleGuide{
			Id:         uuid.New().String(),
			Platform:   g.Platform,
			Guidelines: g.Guidelines,
			AiPrompt:   g.AiPrompt,
			IsActive:   true,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{"guidelines", "ai_prompt", "updated_at"}),
		}).Create(&guide).Error
		if err != nil {
			return errors.Wrap(err, "fail to seed style guide "+g.Platform)
		}
	}

	return nil
}
