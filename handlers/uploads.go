package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectziio/ziio-ai/internal/storage"
	"github.com/projectziio/ziio-ai/pkg/logger"
)

// UploadHandler accepts page images and returns a URL the vision model can fetch.
type UploadHandler struct {
	uploader *storage.PageUploader
	maxBytes int64
}

func NewUploadHandler(u *storage.PageUploader, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploader: u, maxBytes: maxBytes}
}

func (h *UploadHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.Upload)
}

// Upload expects a multipart form with a "file" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return
	}
	if h.maxBytes > 0 {
		// room for multipart framing
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+64<<10)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": storage.ErrTooLarge.Error()})
			return
		}
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer f.Close()

	up, err := h.uploader.Upload(c.Request.Context(), fh.Filename, f, fh.Size)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrUnsupported):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrEmpty):
		badRequest(c, err.Error())
	case err != nil:
		logger.Errorf("upload %q: %v", fh.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
	default:
		c.JSON(http.StatusCreated, up)
	}
}
