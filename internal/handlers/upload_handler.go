package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUploadSize caps generic uploads at 10MB.
const maxUploadSize = 10 << 20

// UploadDir is where uploaded files land; main overrides it from config.
// Stored documents reference files by the relative /uploads URL path.
var UploadDir = "uploads"

var allowedUploadExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".xls":  {},
	".xlsx": {},
}

// UploadFile handles POST /api/upload (authenticated)
// Saves an image or document under the uploads directory with a generated
// name and returns the URL path to store on reports.
func UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A file is required in the 'file' field (max 10MB)"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "File exceeds the 10MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedUploadExts[ext]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unsupported file type"})
		return
	}

	if err := os.MkdirAll(UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to prepare upload directory"})
		return
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(UploadDir, name)
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"url":     "/uploads/" + name,
	})
}
