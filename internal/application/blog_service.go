package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	"github.com/oksasatya/blogsphere/pkg/apperror"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/validation"
)

func imagePrompt(title string) string {
	return fmt.Sprintf("Create a picture that represents a blog post titled %q. "+
		"The image should be visually appealing and relevant to the title, in a 16:9 aspect ratio.", title)
}

type BlogService struct {
	Blogs     repo.BlogRepository
	Comments  repo.CommentRepository
	Likes     repo.LikeRepository
	Images    ImageStore
	Generator ImageGenerator
	Logger    *logrus.Logger
}

func NewBlogService(blogs repo.BlogRepository, comments repo.CommentRepository, likes repo.LikeRepository, images ImageStore, gen ImageGenerator, logger *logrus.Logger) *BlogService {
	return &BlogService{Blogs: blogs, Comments: comments, Likes: likes, Images: images, Generator: gen, Logger: logger}
}

// CreateBlogInput accepts the feature image URL under either key; an uploaded
// file takes precedence over both.
type CreateBlogInput struct {
	Title           string `json:"title" form:"title" validate:"required,max=300"`
	Content         string `json:"content" form:"content" validate:"required"`
	Slug            string `json:"slug" form:"slug" validate:"required,slug"`
	FeatureImageURL string `json:"featureImageUrl" form:"featureImageUrl" validate:"omitempty,url"`
	ImageURL        string `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}

// EditBlogInput is a partial update; empty fields are left unchanged.
type EditBlogInput struct {
	Title           string `json:"title" form:"title" validate:"omitempty,max=300"`
	Content         string `json:"content" form:"content"`
	Slug            string `json:"slug" form:"slug" validate:"omitempty,slug"`
	FeatureImageURL string `json:"featureImageUrl" form:"featureImageUrl" validate:"omitempty,url"`
	ImageURL        string `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}

type GenerateImageInput struct {
	Title string `json:"title" form:"title" validate:"required,max=300"`
}

func imageURLOf(featureImageURL, imageURL string) string {
	if s := strings.TrimSpace(featureImageURL); s != "" {
		return s
	}
	return strings.TrimSpace(imageURL)
}

func (s *BlogService) Create(ctx context.Context, who *entity.Identity, in CreateBlogInput, file *ImageFile) (*entity.Blog, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	exists, err := s.Blogs.SlugExists(ctx, in.Slug)
	if err != nil {
		return nil, apperror.Internal("failed to check slug", err)
	}
	if exists {
		return nil, ErrSlugTaken
	}

	image, uploaded, err := s.resolveImage(ctx, who.UserID, file, imageURLOf(in.FeatureImageURL, in.ImageURL))
	if err != nil {
		return nil, err
	}

	b := &entity.Blog{
		UserID:       who.UserID,
		Title:        in.Title,
		Slug:         in.Slug,
		Content:      in.Content,
		FeatureImage: image,
	}
	if err := s.Blogs.Create(ctx, b); err != nil {
		s.discard(ctx, uploaded)
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, apperror.Internal("failed to create blog post", err)
	}
	return b, nil
}

func (s *BlogService) Edit(ctx context.Context, who *entity.Identity, slug string, in EditBlogInput, file *ImageFile) (*entity.Blog, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	b, err := s.ownedBlog(ctx, who, slug)
	if err != nil {
		return nil, err
	}

	if in.Slug != "" && in.Slug != b.Slug {
		exists, err := s.Blogs.SlugExists(ctx, in.Slug)
		if err != nil {
			return nil, apperror.Internal("failed to check slug", err)
		}
		if exists {
			return nil, ErrSlugTaken
		}
	}

	image, uploaded, err := s.resolveImage(ctx, who.UserID, file, imageURLOf(in.FeatureImageURL, in.ImageURL))
	if err != nil {
		return nil, err
	}
	previous := b.FeatureImage
	if image != "" {
		b.FeatureImage = image
	}
	if in.Title != "" {
		b.Title = in.Title
	}
	if in.Content != "" {
		b.Content = in.Content
	}
	if in.Slug != "" {
		b.Slug = in.Slug
	}

	if err := s.Blogs.Update(ctx, b); err != nil {
		s.discard(ctx, uploaded)
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, apperror.Internal("failed to update blog post", err)
	}
	if previous != "" && previous != b.FeatureImage && s.Images.Owns(previous) {
		if err := s.Images.Delete(ctx, previous); err != nil {
			helpers.LogWarn(s.Logger, "delete replaced feature image failed", err, logrus.Fields{"blog_id": b.ID, "url": previous})
		}
	}
	return b, nil
}

// Delete removes the post with its comments and likes in one transaction,
// then deletes the stored feature image.
func (s *BlogService) Delete(ctx context.Context, who *entity.Identity, slug string) error {
	if !who.Authenticated() {
		return ErrUnauthenticated
	}
	b, err := s.ownedBlog(ctx, who, slug)
	if err != nil {
		return err
	}

	err = runSteps(ctx,
		step{
			name: "delete blog rows",
			do:   func(ctx context.Context) error { return s.Blogs.DeleteCascade(ctx, b.ID) },
		},
		step{
			name: "delete feature image",
			do: func(ctx context.Context) error {
				if b.FeatureImage == "" || !s.Images.Owns(b.FeatureImage) {
					return nil
				}
				return s.Images.Delete(ctx, b.FeatureImage)
			},
		},
	)
	if err != nil {
		var se *StepError
		if errors.As(err, &se) && se.Step == "delete blog rows" && errors.Is(se.Err, repo.ErrNotFound) {
			return ErrBlogNotFound
		}
		return apperror.Internal("failed to delete blog post", err)
	}
	return nil
}

// GetOne counts a visit on every read and returns the post-increment total.
func (s *BlogService) GetOne(ctx context.Context, who *entity.Identity, slug string) (*entity.BlogDetail, error) {
	b, err := s.Blogs.GetWithAuthorBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, apperror.Internal("failed to load blog post", err)
	}

	visits, err := s.Blogs.IncrementVisits(ctx, b.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, apperror.Internal("failed to count visit", err)
	}
	b.Visits = visits
	blogReads.Add(1)

	detail := &entity.BlogDetail{BlogWithAuthor: *b}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Likes.CountByBlog(gctx, b.ID)
		detail.Likes = n
		return err
	})
	g.Go(func() error {
		n, err := s.Comments.CountByBlog(gctx, b.ID)
		detail.Comments = n
		return err
	})
	if who.Authenticated() {
		g.Go(func() error {
			liked, err := s.Likes.Exists(gctx, who.UserID, b.ID)
			detail.IsLiked = liked
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal("failed to load blog stats", err)
	}
	return detail, nil
}

func (s *BlogService) GetAll(ctx context.Context) ([]entity.BlogWithAuthor, error) {
	out, err := s.Blogs.ListWithAuthor(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list blog posts", err)
	}
	return out, nil
}

func (s *BlogService) Search(ctx context.Context, query string) ([]entity.BlogWithAuthor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation("invalid payload", map[string]string{"query": "is required"})
	}
	out, err := s.Blogs.Search(ctx, query)
	if err != nil {
		return nil, apperror.Internal("failed to search blog posts", err)
	}
	return out, nil
}

// GenerateImage creates a cover image for title and stores it. Nothing is
// persisted on a blog until the URL is submitted with create or edit.
func (s *BlogService) GenerateImage(ctx context.Context, who *entity.Identity, in GenerateImageInput) (string, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return "", err
	}
	if s.Generator == nil {
		return "", apperror.Internal("image generation is not configured", nil)
	}
	data, mime, err := s.Generator.Generate(ctx, imagePrompt(in.Title))
	if err != nil {
		return "", apperror.Internal("failed to generate image", err)
	}
	folder := "generated"
	if who.Authenticated() {
		folder += "/" + who.UserID
	}
	url, err := s.Images.Upload(ctx, folder, bytes.NewReader(data), uuid.NewString()+helpers.ExtForContentType(mime), mime)
	if err != nil {
		return "", apperror.Internal("failed to store generated image", err)
	}
	uploads.Add(1)
	return url, nil
}

func (s *BlogService) ownedBlog(ctx context.Context, who *entity.Identity, slug string) (*entity.Blog, error) {
	b, err := s.Blogs.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, apperror.Internal("failed to load blog post", err)
	}
	if b.UserID != who.UserID {
		return nil, ErrNotBlogOwner
	}
	return b, nil
}

// resolveImage picks the feature image: an uploaded file wins over a URL.
// uploaded is set when a new object was written to storage.
func (s *BlogService) resolveImage(ctx context.Context, userID string, file *ImageFile, url string) (image string, uploaded string, err error) {
	if file == nil || file.Reader == nil {
		return url, "", nil
	}
	if err := helpers.ValidateImage(file.Filename, file.Size); err != nil {
		return "", "", apperror.BadRequest(err.Error())
	}
	u, err := s.Images.Upload(ctx, "blogs/"+userID, file.Reader, uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)), contentTypeOf(file))
	if err != nil {
		return "", "", apperror.Internal("failed to upload feature image", err)
	}
	uploads.Add(1)
	return u, u, nil
}

func (s *BlogService) discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.Images.Delete(ctx, url); err != nil {
		helpers.LogWarn(s.Logger, "discard uploaded image failed", err, logrus.Fields{"url": url})
	}
}
