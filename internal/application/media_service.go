package application

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/pkg/apperror"
	"github.com/oksasatya/blogsphere/pkg/helpers"
)

type MediaService struct {
	Images ImageStore
}

func NewMediaService(images ImageStore) *MediaService {
	return &MediaService{Images: images}
}

// Upload stores a standalone image and returns its public URL.
func (s *MediaService) Upload(ctx context.Context, who *entity.Identity, file *ImageFile) (string, error) {
	if file == nil || file.Reader == nil {
		return "", ErrImageRequired
	}
	if err := helpers.ValidateImage(file.Filename, file.Size); err != nil {
		return "", apperror.BadRequest(err.Error())
	}
	folder := "uploads"
	if who.Authenticated() {
		folder += "/" + who.UserID
	}
	url, err := s.Images.Upload(ctx, folder, file.Reader, uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)), contentTypeOf(file))
	if err != nil {
		return "", apperror.Internal("failed to upload image", err)
	}
	uploads.Add(1)
	return url, nil
}
