package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) Create(ctx context.Context, f *entity.Follow) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		RETURNING id::text, created_at, updated_at
	`, f.Follower, f.Following)
	return mapError(row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt))
}

func (r *FollowRepository) Exists(ctx context.Context, follower, following string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)
	`, follower, following).Scan(&exists)
	return exists, mapError(err)
}

func (r *FollowRepository) Delete(ctx context.Context, follower, following string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, follower, following)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM follows WHERE following_id = $1`, userID).Scan(&n)
	return n, mapError(err)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM follows WHERE follower_id = $1`, userID).Scan(&n)
	return n, mapError(err)
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
