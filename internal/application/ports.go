package application

import (
	"context"
	"io"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
)

// ImageFile is an uploaded image handed to a service by the transport layer.
type ImageFile struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// ImageStore persists images and serves them from public URLs.
type ImageStore interface {
	// Upload stores r under folder and returns its public URL.
	Upload(ctx context.Context, folder string, r io.Reader, filename, contentType string) (string, error)
	// Delete removes the object behind url.
	Delete(ctx context.Context, url string) error
	// Owns reports whether url points into this store.
	Owns(url string) bool
}

// ImageGenerator turns a text prompt into image bytes.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (data []byte, mimeType string, err error)
}

type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserIndex is the full-text user directory.
type UserIndex interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]entity.Author, error)
}

// ResetTokenStore keeps short-lived password reset tokens.
type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string) error
	// Consume atomically redeems token. It returns "" when the token is
	// unknown, expired or already used.
	Consume(ctx context.Context, token string) (string, error)
}
