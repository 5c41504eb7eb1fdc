package controllers

import (
	"net/http"

	"ufmarketplace_go/utils"

	"github.com/gin-gonic/gin"
)

// UploadController handles the image upload endpoint.
type UploadController struct {
	uploader *utils.FileUploader
}

// NewUploadController creates an upload controller instance.
func NewUploadController(uploader *utils.FileUploader) *UploadController {
	return &UploadController{uploader: uploader}
}

// UploadImage handles POST /upload. The image is stored as-is; no
// processing pipeline.
func (upc *UploadController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	result, err := upc.uploader.Save(c, file)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      result.URL,
		"filename": result.FileName,
	})
}
