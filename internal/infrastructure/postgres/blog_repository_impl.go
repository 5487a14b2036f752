package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

const blogColumns = `id::text, user_id::text, title, slug, content, feature_image, visits, created_at, updated_at`

// blogAuthorSelect joins each blog with its author's public fields.
const blogAuthorSelect = `
	SELECT b.id::text, b.title, b.slug, b.content, b.feature_image, b.visits, b.created_at, b.updated_at,
	       u.id::text, u.name, u.username, u.email, u.avatar
	FROM blogs b
	JOIN users u ON u.id = b.user_id`

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

func scanBlog(row pgx.Row) (*entity.Blog, error) {
	b := &entity.Blog{}
	if err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Slug, &b.Content, &b.FeatureImage, &b.Visits,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func scanBlogWithAuthor(row pgx.Row) (*entity.BlogWithAuthor, error) {
	b := &entity.BlogWithAuthor{}
	if err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.FeatureImage, &b.Visits, &b.CreatedAt, &b.UpdatedAt,
		&b.Author.ID, &b.Author.Name, &b.Author.Username, &b.Author.Email, &b.Author.Avatar); err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *BlogRepository) listWithAuthor(ctx context.Context, sql string, args ...any) ([]entity.BlogWithAuthor, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.BlogWithAuthor, 0)
	for rows.Next() {
		b, err := scanBlogWithAuthor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, mapError(rows.Err())
}

func (r *BlogRepository) Create(ctx context.Context, b *entity.Blog) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blogs (user_id, title, slug, content, feature_image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, visits, created_at, updated_at
	`, b.UserID, b.Title, b.Slug, b.Content, b.FeatureImage)

	return mapError(row.Scan(&b.ID, &b.Visits, &b.CreatedAt, &b.UpdatedAt))
}

func (r *BlogRepository) GetByID(ctx context.Context, id string) (*entity.Blog, error) {
	return scanBlog(r.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id))
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*entity.Blog, error) {
	return scanBlog(r.pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug = $1`, slug))
}

func (r *BlogRepository) GetWithAuthorBySlug(ctx context.Context, slug string) (*entity.BlogWithAuthor, error) {
	return scanBlogWithAuthor(r.pool.QueryRow(ctx, blogAuthorSelect+` WHERE b.slug = $1`, slug))
}

func (r *BlogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1)`, slug).Scan(&exists)
	return exists, mapError(err)
}

func (r *BlogRepository) ListWithAuthor(ctx context.Context) ([]entity.BlogWithAuthor, error) {
	return r.listWithAuthor(ctx, blogAuthorSelect+` ORDER BY b.created_at DESC`)
}

func (r *BlogRepository) ListByUsername(ctx context.Context, username string) ([]entity.BlogWithAuthor, error) {
	return r.listWithAuthor(ctx, blogAuthorSelect+` WHERE u.username = $1 ORDER BY b.created_at DESC`, username)
}

func (r *BlogRepository) Search(ctx context.Context, query string) ([]entity.BlogWithAuthor, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.listWithAuthor(ctx, blogAuthorSelect+` WHERE b.title ILIKE $1 OR b.content ILIKE $1`, pattern)
}

// escapeLike makes the user query a literal inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *BlogRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM blogs WHERE user_id = $1`, userID).Scan(&n)
	return n, mapError(err)
}

func (r *BlogRepository) Update(ctx context.Context, b *entity.Blog) error {
	b.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE blogs
		SET title = $1, slug = $2, content = $3, feature_image = $4, updated_at = $5
		WHERE id = $6
	`, b.Title, b.Slug, b.Content, b.FeatureImage, b.UpdatedAt, b.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) IncrementVisits(ctx context.Context, id string) (int64, error) {
	var visits int64
	err := r.pool.QueryRow(ctx, `UPDATE blogs SET visits = visits + 1 WHERE id = $1 RETURNING visits`, id).Scan(&visits)
	return visits, mapError(err)
}

func (r *BlogRepository) DeleteCascade(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return deleteBlogRows(ctx, tx, id)
	})
}

func deleteBlogRows(ctx context.Context, q querier, id string) error {
	if _, err := q.Exec(ctx, `DELETE FROM comments WHERE blog_id = $1`, id); err != nil {
		return mapError(err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM likes WHERE blog_id = $1`, id); err != nil {
		return mapError(err)
	}
	res, err := q.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
