package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

type LikeRepository struct {
	pool *pgxpool.Pool
}

func NewLikeRepository(pool *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{pool: pool}
}

func (r *LikeRepository) Create(ctx context.Context, l *entity.Like) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO likes (user_id, blog_id)
		VALUES ($1, $2)
		RETURNING id::text, created_at, updated_at
	`, l.UserID, l.BlogID)
	return mapError(row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt))
}

func (r *LikeRepository) Exists(ctx context.Context, userID, blogID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND blog_id = $2)
	`, userID, blogID).Scan(&exists)
	return exists, mapError(err)
}

func (r *LikeRepository) Delete(ctx context.Context, userID, blogID string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND blog_id = $2`, userID, blogID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *LikeRepository) CountByBlog(ctx context.Context, blogID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM likes WHERE blog_id = $1`, blogID).Scan(&n)
	return n, mapError(err)
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
