package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Signed-URL handoff: the client asks for a presigned PUT, uploads directly
// to object storage, then confirms so the server can hand back the public
// URL. The server never proxies file bytes.

type signUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

func signUploadHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		grant, err := d.Store.IssueUploadURL(req.FileName, req.ContentType)
		if err != nil {
			abortInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"uploadUrl": grant.UploadURL, "key": grant.Key})
	}
}

type confirmUploadRequest struct {
	Key string `json:"key" binding:"required"`
}

func confirmUploadHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalid(c, err.Error())
			return
		}

		publicURL, err := d.Store.ConfirmUpload(req.Key)
		if err != nil {
			abortNotFound(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": publicURL})
	}
}
