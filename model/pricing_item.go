package model

import (
	"time"

	"gorm.io/datatypes"
)

// PricingItem is one tier on the public pricing page. Features is a JSON
// array of strings rendered as the bullet list.
type PricingItem struct {
	Id          string    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Currency    string    `gorm:"default:USD" json:"currency"`
	Features    datatypes.JSON `json:"features"`
	Highlighted bool           `json:"highlighted"`
	SortOrder   int            `gorm:"default:0" json:"sortOrder"`
}
