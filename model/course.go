package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Learning-management entities. A Course owns Lessons through the ordered
CourseLesson join table, a LearningPath strings Courses together through the
ordered PathCourse join table. Membership rows are maintained via
upsert-on-conflict plus explicit delete, positions are dense from 0.
*/

type Course struct {
	Id          string    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	CoverImage  *string   `json:"coverImage"`
	Level       string    `gorm:"default:beginner" json:"level"`
	Published   bool      `gorm:"default:false" json:"published"`
	Lessons     []*Lesson `gorm:"many2many:course_lessons;" json:"lessons"`
}

type Lesson struct {
	Id          string    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `json:"content"`
	VideoUrl    *string   `json:"videoUrl"`
	DurationMin int       `json:"durationMin"`
	Resources   datatypes.JSON `json:"resources"`
	Courses     []*Course      `gorm:"many2many:course_lessons;" json:"-"`
}

type LearningPath struct {
	Id          string    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Published   bool      `gorm:"default:false" json:"published"`
	Courses     []*Course `gorm:"many2many:path_courses;" json:"courses"`
}

// CourseLesson orders Lessons inside a Course.
type CourseLesson struct {
	CourseID  string `gorm:"primaryKey"`
	LessonID  string `gorm:"primaryKey"`
	Position  int    `gorm:"default:0"`
	CreatedAt time.Time
}

// PathCourse orders Courses inside a LearningPath.
type PathCourse struct {
	LearningPathID string `gorm:"primaryKey"`
	CourseID       string `gorm:"primaryKey"`
	Position       int    `gorm:"default:0"`
	CreatedAt      time.Time
}
