package server

import (
	"net/http"
	"strconv"

	"github.com/automuse/studio/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func healthzHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// pagination reads limit/offset query params, clamped to sane bounds.
func pagination(c *gin.Context) (limit int, offset int) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = utils.Min(parsed, maxPageSize)
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func abortInvalid(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": utils.ErrorInvalidInput, "message": message})
}

func abortNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"code": utils.ErrorNotFound, "message": message})
}

func abortInternal(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"code": utils.ErrorInternal, "message": err.Error()})
}
