package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadConfig holds the file upload settings.
type UploadConfig struct {
	MaxFileSize    int64
	AllowedFormats []string
	UploadPath     string
	URLPrefix      string
}

// DefaultUploadConfig is the image upload configuration.
var DefaultUploadConfig = &UploadConfig{
	MaxFileSize:    10 * 1024 * 1024, // 10MB
	AllowedFormats: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	UploadPath:     "./uploads",
	URLPrefix:      "/uploads",
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	URL      string `json:"url"`
	FileName string `json:"filename"`
	FileSize int64  `json:"file_size"`
}

// FileUploader saves uploaded images as pass-through blobs on the local disk.
type FileUploader struct {
	config *UploadConfig
}

// NewFileUploader creates a file uploader.
func NewFileUploader(config *UploadConfig) *FileUploader {
	if config == nil {
		config = DefaultUploadConfig
	}
	return &FileUploader{config: config}
}

// EnsureUploadDir creates the upload directory if it does not exist.
func (fu *FileUploader) EnsureUploadDir() error {
	return os.MkdirAll(fu.config.UploadPath, 0755)
}

// Save validates and stores one uploaded file under a generated name and
// returns its public URL. The URL is resolved against the API's own origin
// at read time.
func (fu *FileUploader) Save(c *gin.Context, file *multipart.FileHeader) (*UploadResult, error) {
	if file.Size > fu.config.MaxFileSize {
		return nil, ErrInvalidInput(fmt.Sprintf("File too large (max %dMB)", fu.config.MaxFileSize/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !fu.isAllowedFormat(ext) {
		return nil, ErrInvalidInput("Unsupported image format")
	}

	filename := uuid.New().String() + ext
	path := filepath.Join(fu.config.UploadPath, filename)

	if err := c.SaveUploadedFile(file, path); err != nil {
		return nil, ErrInternal("Error saving image", err)
	}

	return &UploadResult{
		URL:      fu.config.URLPrefix + "/" + filename,
		FileName: filename,
		FileSize: file.Size,
	}, nil
}

func (fu *FileUploader) isAllowedFormat(ext string) bool {
	for _, allowed := range fu.config.AllowedFormats {
		if ext == allowed {
			return true
		}
	}
	return false
}
