package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/pkg/helpers"
)

type harness struct {
	db     *memDB
	blogs  *blogRepo
	store  *memStore
	gen    *fakeGenerator
	jobs   *fakePublisher
	resets *fakeResets
	index  *fakeIndex

	users      *UserService
	blogSvc    *BlogService
	engagement *EngagementService
	social     *SocialService
	media      *MediaService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		db:     newMemDB(),
		store:  newMemStore(),
		gen:    &fakeGenerator{},
		jobs:   &fakePublisher{},
		resets: newFakeResets(),
		index:  &fakeIndex{},
	}
	h.blogs = &blogRepo{db: h.db}
	users := userRepo{db: h.db}
	comments := commentRepo{db: h.db}
	likes := likeRepo{db: h.db}

	h.users = NewUserService(UserDeps{
		Users:           users,
		Audit:           auditRepo{db: h.db},
		JWT:             helpers.NewJWTManager("test-secret", time.Hour),
		Images:          h.store,
		Index:           h.index,
		Jobs:            h.jobs,
		Resets:          h.resets,
		AppName:         "blogsphere",
		DefaultAvatar:   "https://example.com/default.png",
		ResetURL:        "https://app.test/reset-password",
		MailSendEnabled: true,
	})
	h.blogSvc = NewBlogService(h.blogs, comments, likes, h.store, h.gen, nil)
	h.engagement = NewEngagementService(h.blogs, comments, likes)
	h.social = NewSocialService(users, h.blogs, followRepo{db: h.db})
	h.media = NewMediaService(h.store)
	return h
}

// register creates a user and returns an identity acting as them.
func (h *harness) register(t *testing.T, username string) *entity.Identity {
	t.Helper()
	res, err := h.users.Register(context.Background(), nil, RegisterInput{
		Name:     username,
		Email:    username + "@example.com",
		Username: username,
		Password: "Password123",
	})
	require.NoError(t, err)
	return &entity.Identity{UserID: res.User.ID, Username: res.User.Username, User: res.User, IP: "203.0.113.7", UserAgent: "test"}
}

func (h *harness) post(t *testing.T, who *entity.Identity, slug string) *entity.Blog {
	t.Helper()
	b, err := h.blogSvc.Create(context.Background(), who, CreateBlogInput{
		Title:   "Title " + slug,
		Content: "Content of " + slug,
		Slug:    slug,
	}, nil)
	require.NoError(t, err)
	return b
}
