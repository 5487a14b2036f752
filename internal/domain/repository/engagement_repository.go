package repository

import (
	"context"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	// ListByBlog returns comments with authors, newest-first.
	ListByBlog(ctx context.Context, blogID string) ([]entity.CommentWithAuthor, error)
	CountByBlog(ctx context.Context, blogID string) (int64, error)
}

type LikeRepository interface {
	// Create returns ErrDuplicate when the (user, blog) pair exists.
	Create(ctx context.Context, l *entity.Like) error
	Exists(ctx context.Context, userID, blogID string) (bool, error)
	// Delete returns ErrNotFound when no like exists for the pair.
	Delete(ctx context.Context, userID, blogID string) error
	CountByBlog(ctx context.Context, blogID string) (int64, error)
}

type FollowRepository interface {
	// Create returns ErrDuplicate for an existing pair and ErrCheck for a self-follow.
	Create(ctx context.Context, f *entity.Follow) error
	Exists(ctx context.Context, follower, following string) (bool, error)
	Delete(ctx context.Context, follower, following string) error
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}
