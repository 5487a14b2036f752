package application

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	"github.com/oksasatya/blogsphere/pkg/apperror"
)

// SocialService owns the follow graph and public profile pages.
type SocialService struct {
	Users   repo.UserRepository
	Blogs   repo.BlogRepository
	Follows repo.FollowRepository
}

func NewSocialService(users repo.UserRepository, blogs repo.BlogRepository, follows repo.FollowRepository) *SocialService {
	return &SocialService{Users: users, Blogs: blogs, Follows: follows}
}

func (s *SocialService) Follow(ctx context.Context, who *entity.Identity, username string) (*entity.Follow, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	target, err := s.target(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == who.UserID {
		return nil, ErrSelfFollow
	}
	following, err := s.Follows.Exists(ctx, who.UserID, target.ID)
	if err != nil {
		return nil, apperror.Internal("failed to check follow", err)
	}
	if following {
		return nil, ErrAlreadyFollowing
	}

	f := &entity.Follow{Follower: who.UserID, Following: target.ID}
	if err := s.Follows.Create(ctx, f); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrAlreadyFollowing
		case errors.Is(err, repo.ErrCheck):
			return nil, ErrSelfFollow
		}
		return nil, apperror.Internal("failed to follow user", err)
	}
	return f, nil
}

func (s *SocialService) Unfollow(ctx context.Context, who *entity.Identity, username string) error {
	if !who.Authenticated() {
		return ErrUnauthenticated
	}
	target, err := s.target(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == who.UserID {
		return ErrSelfUnfollow
	}
	if err := s.Follows.Delete(ctx, who.UserID, target.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFollowing
		}
		return apperror.Internal("failed to unfollow user", err)
	}
	return nil
}

// GetProfile loads the user and fans the count queries out concurrently.
func (s *SocialService) GetProfile(ctx context.Context, who *entity.Identity, username string) (*entity.Profile, error) {
	target, err := s.target(ctx, username)
	if err != nil {
		return nil, err
	}

	p := &entity.Profile{User: target}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Follows.CountFollowers(gctx, target.ID)
		p.Followers = n
		return err
	})
	g.Go(func() error {
		n, err := s.Follows.CountFollowing(gctx, target.ID)
		p.Following = n
		return err
	})
	g.Go(func() error {
		n, err := s.Blogs.CountByUser(gctx, target.ID)
		p.Posts = n
		return err
	})
	if who.Authenticated() && who.UserID != target.ID {
		g.Go(func() error {
			ok, err := s.Follows.Exists(gctx, who.UserID, target.ID)
			p.IsFollowing = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal("failed to load profile", err)
	}
	return p, nil
}

// GetUserPosts lists a user's posts; an unknown username yields an empty list.
func (s *SocialService) GetUserPosts(ctx context.Context, username string) ([]entity.BlogWithAuthor, error) {
	out, err := s.Blogs.ListByUsername(ctx, normalize(username))
	if err != nil {
		return nil, apperror.Internal("failed to list user posts", err)
	}
	return out, nil
}

func (s *SocialService) target(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, normalize(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	return u, nil
}
