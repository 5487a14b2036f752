package repository

import (
	"context"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
)

type BlogRepository interface {
	Create(ctx context.Context, b *entity.Blog) error
	GetByID(ctx context.Context, id string) (*entity.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Blog, error)
	GetWithAuthorBySlug(ctx context.Context, slug string) (*entity.BlogWithAuthor, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// ListWithAuthor returns every blog newest-first.
	ListWithAuthor(ctx context.Context) ([]entity.BlogWithAuthor, error)
	ListByUsername(ctx context.Context, username string) ([]entity.BlogWithAuthor, error)
	// Search matches query as a case-insensitive substring of title or content.
	Search(ctx context.Context, query string) ([]entity.BlogWithAuthor, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, b *entity.Blog) error
	// IncrementVisits adds one visit and returns the new total.
	IncrementVisits(ctx context.Context, id string) (int64, error)
	// DeleteCascade removes the blog with its comments and likes in one transaction.
	DeleteCascade(ctx context.Context, id string) error
}
