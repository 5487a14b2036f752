package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/pkg/response"
)

type UploadHandler struct {
	Svc *application.MediaService
}

func NewUploadHandler(svc *application.MediaService) *UploadHandler {
	return &UploadHandler{Svc: svc}
}

// Upload POST /api/v1/upload (multipart field "image")
func (h *UploadHandler) Upload(c *gin.Context) {
	file, closeFile, err := formImage(c, "image")
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer closeFile()

	url, err := h.Svc.Upload(c.Request.Context(), middleware.IdentityFrom(c), file)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"imageUrl": url}, "image uploaded", nil)
}
