package model

import "time"

/*

Contact is a CRM lead, usually created by the public contact form.

Status: "new" -> "contacted" -> "closed", advisory only, no guarded
transitions.
Tags: free-form labels, "many-to-many" relation through ContactTagAssignment.
*/
type Contact struct {
	Id        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"index;not null" json:"email"`
	Company   *string   `json:"company"`
	Message   string    `json:"message"`
	Source    *string   `json:"source"`
	Status    string        `gorm:"default:new" json:"status"`
	Tags      []*ContactTag `gorm:"many2many:contact_tag_assignments;" json:"tags"`
}

// ContactTag is a label shared across contacts, unique by name.
type ContactTag struct {
	Id        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string     `gorm:"uniqueIndex;not null" json:"name"`
	Contacts  []*Contact `gorm:"many2many:contact_tag_assignments;" json:"-"`
}

// ContactTagAssignment is the join table between contacts and tags,
// maintained via upsert-on-conflict plus explicit delete.
type ContactTagAssignment struct {
	ContactID    string `gorm:"primaryKey"`
	ContactTagID string `gorm:"primaryKey"`
	CreatedAt    time.Time
}

const (
	ContactStatusNew       = "new"
	ContactStatusContacted = "contacted"
	ContactStatusClosed    = "closed"
)
