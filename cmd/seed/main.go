package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/blogsphere/config"
	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	pginfra "github.com/oksasatya/blogsphere/internal/infrastructure/postgres"
	"github.com/oksasatya/blogsphere/pkg/helpers"
)

const demoPassword = "Password123"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	blogs := pginfra.NewBlogRepository(pool)
	follows := pginfra.NewFollowRepository(pool)

	alice, err := seedUser(ctx, users, "Alice", "alice", "alice@example.com", cfg.DefaultAvatarURL)
	if err != nil {
		logger.Fatalf("seed alice: %v", err)
	}
	bob, err := seedUser(ctx, users, "Bob", "bob", "bob@example.com", cfg.DefaultAvatarURL)
	if err != nil {
		logger.Fatalf("seed bob: %v", err)
	}

	post := &entity.Blog{
		UserID:  alice.ID,
		Title:   "Hello World",
		Slug:    "hello-world",
		Content: "The first post on this blog.",
	}
	if err := blogs.Create(ctx, post); err != nil && !errors.Is(err, repo.ErrDuplicate) {
		logger.Fatalf("seed blog: %v", err)
	}

	if err := follows.Create(ctx, &entity.Follow{Follower: bob.ID, Following: alice.ID}); err != nil && !errors.Is(err, repo.ErrDuplicate) {
		logger.Fatalf("seed follow: %v", err)
	}

	fmt.Printf("seeded users alice/bob (password %s), post hello-world, bob follows alice\n", demoPassword)
}

// seedUser creates the user or returns the existing row.
func seedUser(ctx context.Context, users repo.UserRepository, name, username, email, avatar string) (*entity.User, error) {
	existing, err := users.FindByUsernameOrEmail(ctx, username, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	hash, err := helpers.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Name: name, Username: username, Email: email, Password: hash, Avatar: avatar}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
