package application

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	"github.com/oksasatya/blogsphere/pkg/apperror"
	"github.com/oksasatya/blogsphere/pkg/validation"
)

// EngagementService handles likes and comments. Blogs are addressed by id.
type EngagementService struct {
	Blogs    repo.BlogRepository
	Comments repo.CommentRepository
	Likes    repo.LikeRepository
}

func NewEngagementService(blogs repo.BlogRepository, comments repo.CommentRepository, likes repo.LikeRepository) *EngagementService {
	return &EngagementService{Blogs: blogs, Comments: comments, Likes: likes}
}

type AddCommentInput struct {
	Content string `json:"content" form:"content" validate:"required,max=5000"`
}

func (s *EngagementService) Like(ctx context.Context, who *entity.Identity, blogID string) (*entity.Like, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	b, err := s.blog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	liked, err := s.Likes.Exists(ctx, who.UserID, b.ID)
	if err != nil {
		return nil, apperror.Internal("failed to check like", err)
	}
	if liked {
		return nil, ErrAlreadyLiked
	}

	l := &entity.Like{UserID: who.UserID, BlogID: b.ID}
	if err := s.Likes.Create(ctx, l); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAlreadyLiked
		}
		return nil, apperror.Internal("failed to like blog post", err)
	}
	return l, nil
}

func (s *EngagementService) Unlike(ctx context.Context, who *entity.Identity, blogID string) error {
	if !who.Authenticated() {
		return ErrUnauthenticated
	}
	b, err := s.blog(ctx, blogID)
	if err != nil {
		return err
	}
	if err := s.Likes.Delete(ctx, who.UserID, b.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotLiked
		}
		return apperror.Internal("failed to unlike blog post", err)
	}
	return nil
}

func (s *EngagementService) AddComment(ctx context.Context, who *entity.Identity, blogID string, in AddCommentInput) (*entity.Comment, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	b, err := s.blog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	c := &entity.Comment{UserID: who.UserID, BlogID: b.ID, Content: in.Content}
	if err := s.Comments.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, apperror.Internal("failed to add comment", err)
	}
	return c, nil
}

// ListComments returns an empty list, not an error, for an unknown blog.
func (s *EngagementService) ListComments(ctx context.Context, blogID string) ([]entity.CommentWithAuthor, error) {
	out, err := s.Comments.ListByBlog(ctx, strings.TrimSpace(blogID))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []entity.CommentWithAuthor{}, nil
		}
		return nil, apperror.Internal("failed to list comments", err)
	}
	return out, nil
}

func (s *EngagementService) blog(ctx context.Context, id string) (*entity.Blog, error) {
	b, err := s.Blogs.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, apperror.Internal("failed to load blog post", err)
	}
	return b, nil
}
