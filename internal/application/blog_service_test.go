package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/pkg/apperror"
)

func TestCreateBlog(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")
	ctx := context.Background()

	_, err := h.blogSvc.Create(ctx, &entity.Identity{}, CreateBlogInput{Title: "t", Content: "c", Slug: "s"}, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = h.blogSvc.Create(ctx, alice, CreateBlogInput{Title: "t", Content: "c", Slug: "bad/slug"}, nil)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	b, err := h.blogSvc.Create(ctx, alice, CreateBlogInput{
		Title:    "Hello World",
		Content:  "First post",
		Slug:     "hello-world",
		ImageURL: "https://cdn.example.com/cover.png",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, b.UserID)
	assert.Equal(t, "https://cdn.example.com/cover.png", b.FeatureImage)
	assert.Zero(t, b.Visits)

	_, err = h.blogSvc.Create(ctx, alice, CreateBlogInput{Title: "Again", Content: "x", Slug: "hello-world"}, nil)
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCreateBlogUploadedFileWins(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")

	b, err := h.blogSvc.Create(context.Background(), alice, CreateBlogInput{
		Title:           "With image",
		Content:         "body",
		Slug:            "with-image",
		FeatureImageURL: "https://cdn.example.com/ignored.png",
	}, pngFile("cover.PNG"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.FeatureImage, memStoreBase+"blogs/"+alice.UserID+"/"))
	assert.True(t, strings.HasSuffix(b.FeatureImage, ".png"))
	assert.True(t, h.store.has(b.FeatureImage))
}

func TestEditBlog(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")
	bob := h.register(t, "bob")
	h.post(t, alice, "first")
	h.post(t, alice, "second")
	ctx := context.Background()

	_, err := h.blogSvc.Edit(ctx, bob, "first", EditBlogInput{Title: "hijack"}, nil)
	assert.ErrorIs(t, err, ErrNotBlogOwner)

	_, err = h.blogSvc.Edit(ctx, alice, "missing", EditBlogInput{Title: "x"}, nil)
	assert.ErrorIs(t, err, ErrBlogNotFound)

	_, err = h.blogSvc.Edit(ctx, alice, "first", EditBlogInput{Slug: "second"}, nil)
	assert.ErrorIs(t, err, ErrSlugTaken)

	b, err := h.blogSvc.Edit(ctx, alice, "first", EditBlogInput{Title: "Renamed", Slug: "renamed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", b.Title)
	assert.Equal(t, "renamed", b.Slug)
	assert.Equal(t, "Content of first", b.Content)

	_, err = h.blogSvc.GetOne(ctx, nil, "first")
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestGetOneCountsVisitsAndEngagement(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")
	bob := h.register(t, "bob")
	b := h.post(t, alice, "hello-world")
	ctx := context.Background()

	_, err := h.engagement.Like(ctx, bob, b.ID)
	require.NoError(t, err)
	_, err = h.engagement.AddComment(ctx, bob, b.ID, AddCommentInput{Content: "Nice"})
	require.NoError(t, err)

	d, err := h.blogSvc.GetOne(ctx, nil, "hello-world")
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.Visits)
	assert.EqualValues(t, 1, d.Likes)
	assert.EqualValues(t, 1, d.Comments)
	assert.False(t, d.IsLiked)
	assert.Equal(t, "alice", d.Author.Username)

	d, err = h.blogSvc.GetOne(ctx, bob, "hello-world")
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Visits)
	assert.True(t, d.IsLiked)

	_, err = h.blogSvc.GetOne(ctx, nil, "nope")
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestDeleteBlogCascades(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")
	bob := h.register(t, "bob")
	ctx := context.Background()

	b, err := h.blogSvc.Create(ctx, alice, CreateBlogInput{Title: "T", Content: "C", Slug: "doomed"}, pngFile("c.png"))
	require.NoError(t, err)
	other := h.post(t, alice, "survivor")

	_, err = h.engagement.Like(ctx, bob, b.ID)
	require.NoError(t, err)
	_, err = h.engagement.AddComment(ctx, bob, b.ID, AddCommentInput{Content: "bye"})
	require.NoError(t, err)
	_, err = h.engagement.AddComment(ctx, bob, other.ID, AddCommentInput{Content: "stay"})
	require.NoError(t, err)

	assert.ErrorIs(t, h.blogSvc.Delete(ctx, bob, "doomed"), ErrNotBlogOwner)
	require.NoError(t, h.blogSvc.Delete(ctx, alice, "doomed"))

	_, err = h.blogSvc.GetOne(ctx, nil, "doomed")
	assert.ErrorIs(t, err, ErrBlogNotFound)
	assert.False(t, h.store.has(b.FeatureImage))
	assert.Len(t, h.db.comments, 1)
	assert.Empty(t, h.db.likes)

	assert.ErrorIs(t, h.blogSvc.Delete(ctx, alice, "doomed"), ErrBlogNotFound)
}

func TestDeleteBlogReportsStorageFailure(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")
	ctx := context.Background()

	_, err := h.blogSvc.Create(ctx, alice, CreateBlogInput{Title: "T", Content: "C", Slug: "img"}, pngFile("c.png"))
	require.NoError(t, err)

	h.store.deleteErr = errors.New("storage unavailable")
	err = h.blogSvc.Delete(ctx, alice, "img")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))

	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "delete feature image", se.Step)
	assert.Equal(t, []string{"delete blog rows"}, se.Committed)

	_, err = h.blogSvc.GetOne(ctx, nil, "img")
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestGetAllAndSearch(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")
	h.post(t, alice, "golang-tips")
	h.post(t, alice, "rust-notes")
	ctx := context.Background()

	all, err := h.blogSvc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "rust-notes", all[0].Slug, "newest first")

	found, err := h.blogSvc.Search(ctx, "GOLANG")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "golang-tips", found[0].Slug)

	_, err = h.blogSvc.Search(ctx, "   ")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestGenerateImage(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")
	ctx := context.Background()

	url, err := h.blogSvc.GenerateImage(ctx, alice, GenerateImageInput{Title: "Go Concurrency"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, memStoreBase+"generated/"+alice.UserID+"/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Contains(t, h.gen.prompt, `"Go Concurrency"`)

	url, err = h.blogSvc.GenerateImage(ctx, nil, GenerateImageInput{Title: "Anon"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, memStoreBase+"generated/"))

	_, err = h.blogSvc.GenerateImage(ctx, nil, GenerateImageInput{})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	h.gen.err = errors.New("quota")
	_, err = h.blogSvc.GenerateImage(ctx, nil, GenerateImageInput{Title: "x"})
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))

	h.blogSvc.Generator = nil
	_, err = h.blogSvc.GenerateImage(ctx, nil, GenerateImageInput{Title: "x"})
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestMediaUpload(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.media.Upload(ctx, nil, nil)
	assert.ErrorIs(t, err, ErrImageRequired)

	url, err := h.media.Upload(ctx, nil, pngFile("photo.png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, memStoreBase+"uploads/"))
	assert.True(t, h.store.has(url))
}

func TestEditBlogReplacesOwnedImage(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")
	ctx := context.Background()

	b, err := h.blogSvc.Create(ctx, alice, CreateBlogInput{Title: "T", Content: "C", Slug: "cover"}, pngFile("a.png"))
	require.NoError(t, err)
	first := b.FeatureImage

	b, err = h.blogSvc.Edit(ctx, alice, "cover", EditBlogInput{}, pngFile("b.png"))
	require.NoError(t, err)
	assert.NotEqual(t, first, b.FeatureImage)
	assert.False(t, h.store.has(first))
	assert.True(t, h.store.has(b.FeatureImage))
	second := b.FeatureImage

	b, err = h.blogSvc.Edit(ctx, alice, "cover", EditBlogInput{ImageURL: "https://cdn.example.com/x.png"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.png", b.FeatureImage)
	assert.False(t, h.store.has(second))

	deleted := len(h.store.deleted)
	_, err = h.blogSvc.Edit(ctx, alice, "cover", EditBlogInput{ImageURL: "https://cdn.example.com/y.png"}, nil)
	require.NoError(t, err)
	assert.Len(t, h.store.deleted, deleted, "foreign images are left alone")

	_, err = h.blogSvc.Edit(ctx, alice, "cover", EditBlogInput{Title: "Only title"}, nil)
	require.NoError(t, err)
	assert.Len(t, h.store.deleted, deleted)
}

func TestEditBlogImageCleanupIsBestEffort(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice")
	ctx := context.Background()

	_, err := h.blogSvc.Create(ctx, alice, CreateBlogInput{Title: "T", Content: "C", Slug: "cover"}, pngFile("a.png"))
	require.NoError(t, err)

	h.store.deleteErr = errors.New("storage unavailable")
	b, err := h.blogSvc.Edit(ctx, alice, "cover", EditBlogInput{}, pngFile("b.png"))
	require.NoError(t, err)
	assert.True(t, h.store.has(b.FeatureImage))
}
