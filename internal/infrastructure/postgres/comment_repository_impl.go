package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (user_id, blog_id, content)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at, updated_at
	`, c.UserID, c.BlogID, c.Content)
	return mapError(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

func (r *CommentRepository) ListByBlog(ctx context.Context, blogID string) ([]entity.CommentWithAuthor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.user_id::text, c.blog_id::text, c.content, c.created_at, c.updated_at,
		       u.id::text, u.name, u.username, u.email, u.avatar
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.blog_id = $1
		ORDER BY c.created_at DESC
	`, blogID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.CommentWithAuthor, 0)
	for rows.Next() {
		var c entity.CommentWithAuthor
		if err := rows.Scan(&c.ID, &c.UserID, &c.BlogID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&c.Author.ID, &c.Author.Name, &c.Author.Username, &c.Author.Email, &c.Author.Avatar); err != nil {
			return nil, mapError(err)
		}
		out = append(out, c)
	}
	return out, mapError(rows.Err())
}

func (r *CommentRepository) CountByBlog(ctx context.Context, blogID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM comments WHERE blog_id = $1`, blogID).Scan(&n)
	return n, mapError(err)
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
