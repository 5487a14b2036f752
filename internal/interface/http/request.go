package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/pkg/apperror"
	"github.com/oksasatya/blogsphere/pkg/validation"
)

// bind decodes JSON, urlencoded or multipart bodies into dst according to
// the request content type. Field rules are checked by the services.
func bind(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 && c.ContentType() == gin.MIMEJSON {
		return nil
	}
	if err := c.ShouldBind(dst); err != nil {
		return apperror.Validation("invalid payload", validation.ToDetails(err))
	}
	return nil
}

// formImage returns the uploaded file in field, or nil when the request
// carries none. The returned func closes the file.
func formImage(c *gin.Context, field string) (*application.ImageFile, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperror.BadRequest("invalid multipart form")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, apperror.Internal("failed to read upload", err)
	}
	file := &application.ImageFile{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	return file, func() { _ = f.Close() }, nil
}
