package server

import (
	"net/http"

	"github.com/automuse/studio/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Learning-management handlers. Membership (course<->lesson, path<->course)
// is set-based: the client sends the full ordered id list, rows are upserted
// with their position and stale rows deleted.

type courseRequest struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CoverImage  *string `json:"coverImage"`
	Level       string  `json:"level"`
	Published   *bool   `json:"published"`
}

func listCoursesHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var courses []model.Course
		if err := d.DB.Where("published = ?", true).Order("created_at desc").Find(&courses).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"courses": courses})
	}
}

func getCourseHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var course model.Course
		result := d.DB.Preload("Lessons").Where("slug = ?", c.Param("slug")).First(&course)
		if result.RowsAffected != 1 {
			abortNotFound(c, "unknown course")
			return
		}
		c.JSON(http.StatusOK, gin.H{"course": course})
	}
}

func createCourseHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req courseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}
		if req.Slug == "" || req.Title == "" {
			abortInvalid(c, "slug and title are required")
			return
		}

		course := model.Course{Id: uuid.New().String()}
		copier.CopyWithOption(&course, &req, copier.Option{IgnoreEmpty: true})
		if req.Published != nil {
			course.Published = *req.Published
		}

		if err := d.DB.Create(&course).Error; err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"course": course})
	}
}

func updateCourseHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var course model.Course
		if result := d.DB.Where("id = ?", c.Param("id")).First(&course); result.RowsAffected != 1 {
			abortNotFound(c, "unknown course")
			return
		}

		var req courseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		copier.CopyWithOption(&course, &req, copier.Option{IgnoreEmpty: true})
		if req.Published != nil {
			course.Published = *req.Published
		}

		if err := d.DB.Save(&course).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"course": course})
	}
}

func deleteCourseHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteById(c, d, &model.Course{}, "unknown course")
	}
}

type membershipRequest struct {
	Ids []string `json:"ids" binding:"required"`
}

func setCourseLessonsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var course model.Course
		if result := d.DB.Where("id = ?", c.Param("id")).First(&course); result.RowsAffected != 1 {
			abortNotFound(c, "unknown course")
			return
		}

		var req membershipRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		err := d.DB.Transaction(func(tx *gorm.DB) error {
			for position, lessonID := range req.Ids {
				row := model.CourseLesson{CourseID: course.Id, LessonID: lessonID, Position: position}
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "course_id"}, {Name: "lesson_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"position"}),
				}).Create(&row).Error
				if err != nil {
					return err
				}
			}
			// Drop memberships not in the new set.
			return tx.Where("course_id = ? AND lesson_id NOT IN ?", course.Id, nonEmpty(req.Ids)).
				Delete(&model.CourseLesson{}).Error
		})
		if err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(req.Ids)})
	}
}

type lessonRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	VideoUrl    *string  `json:"videoUrl"`
	DurationMin *int     `json:"durationMin"`
	Resources   []string `json:"resources"`
}

func createLessonHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req lessonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}
		if req.Title == "" {
			abortInvalid(c, "title is required")
			return
		}

		lesson := model.Lesson{Id: uuid.New().String()}
		copier.CopyWithOption(&lesson, &req, copier.Option{IgnoreEmpty: true})
		lesson.Resources = model.StringList(req.Resources)
		if req.DurationMin != nil {
			lesson.DurationMin = *req.DurationMin
		}

		if err := d.DB.Create(&lesson).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"lesson": lesson})
	}
}

func updateLessonHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lesson model.Lesson
		if result := d.DB.Where("id = ?", c.Param("id")).First(&lesson); result.RowsAffected != 1 {
			abortNotFound(c, "unknown lesson")
			return
		}

		var req lessonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		copier.CopyWithOption(&lesson, &req, copier.Option{IgnoreEmpty: true})
		if req.Resources != nil {
			lesson.Resources = model.StringList(req.Resources)
		}
		if req.DurationMin != nil {
			lesson.DurationMin = *req.DurationMin
		}

		if err := d.DB.Save(&lesson).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"lesson": lesson})
	}
}

func deleteLessonHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteById(c, d, &model.Lesson{}, "unknown lesson")
	}
}

type pathRequest struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Published   *bool  `json:"published"`
}

func listPathsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var paths []model.LearningPath
		if err := d.DB.Where("published = ?", true).Order("created_at desc").Find(&paths).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"paths": paths})
	}
}

func getPathHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var path model.LearningPath
		result := d.DB.Preload("Courses").Where("slug = ?", c.Param("slug")).First(&path)
		if result.RowsAffected != 1 {
			abortNotFound(c, "unknown learning path")
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": path})
	}
}

func createPathHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pathRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}
		if req.Slug == "" || req.Title == "" {
			abortInvalid(c, "slug and title are required")
			return
		}

		path := model.LearningPath{Id: uuid.New().String()}
		copier.CopyWithOption(&path, &req, copier.Option{IgnoreEmpty: true})
		if req.Published != nil {
			path.Published = *req.Published
		}

		if err := d.DB.Create(&path).Error; err != nil {
			abortInvalid(c, err.Error())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"path": path})
	}
}

func updatePathHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var path model.LearningPath
		if result := d.DB.Where("id = ?", c.Param("id")).First(&path); result.RowsAffected != 1 {
			abortNotFound(c, "unknown learning path")
			return
		}

		var req pathRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		copier.CopyWithOption(&path, &req, copier.Option{IgnoreEmpty: true})
		if req.Published != nil {
			path.Published = *req.Published
		}

		if err := d.DB.Save(&path).Error; err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": path})
	}
}

func deletePathHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteById(c, d, &model.LearningPath{}, "unknown learning path")
	}
}

func setPathCoursesHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var path model.LearningPath
		if result := d.DB.Where("id = ?", c.Param("id")).First(&path); result.RowsAffected != 1 {
			abortNotFound(c, "unknown learning path")
			return
		}

		var req membershipRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		err := d.DB.Transaction(func(tx *gorm.DB) error {
			for position, courseID := range req.Ids {
				row := model.PathCourse{LearningPathID: path.Id, CourseID: courseID, Position: position}
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "learning_path_id"}, {Name: "course_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"position"}),
				}).Create(&row).Error
				if err != nil {
					return err
				}
			}
			return tx.Where("learning_path_id = ? AND course_id NOT IN ?", path.Id, nonEmpty(req.Ids)).
				Delete(&model.PathCourse{}).Error
		})
		if err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(req.Ids)})
	}
}

// nonEmpty keeps NOT IN well-formed when the new membership set is empty.
func nonEmpty(ids []string) []string {
	if len(ids) == 0 {
		return []string{""}
	}
	return ids
}
